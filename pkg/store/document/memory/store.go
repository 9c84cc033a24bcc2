package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
)

type collection struct {
	docs  map[string]document.Fields
	order []string
}

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	newID       func() string
}

// NewMemoryStore returns a document store kept in process memory. Documents
// are copied on the way in and out.
func NewMemoryStore() document.Store {
	return &memoryStore{
		collections: make(map[string]*collection),
		newID:       func() string { return uuid.New().String() },
	}
}

func (s *memoryStore) List(ctx context.Context, name string, params *query.QueryParams) ([]document.Item, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.ErrInvalidInput.WithReason(err.Error())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []document.Item{}, nil
	}

	items := make([]document.Item, 0, len(c.order))
	for _, id := range c.order {
		fields := c.docs[id]
		if !params.Matches(fields) {
			continue
		}
		items = append(items, document.Item{ID: id, Fields: fields.Clone()})
	}

	if params != nil && len(params.OrderBy) > 0 {
		sort.SliceStable(items, func(i, j int) bool {
			for _, o := range params.OrderBy {
				c := query.Compare(items[i].Fields[o.Column], items[j].Fields[o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if params != nil {
		if params.Offset > 0 {
			if params.Offset >= len(items) {
				return []document.Item{}, nil
			}
			items = items[params.Offset:]
		}
		if params.Limit > 0 && len(items) > params.Limit {
			items = items[:params.Limit]
		}
	}
	return items, nil
}

func (s *memoryStore) Get(ctx context.Context, name string, id string) (document.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return document.Item{}, errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", name, id))
	}
	fields, ok := c.docs[id]
	if !ok {
		return document.Item{}, errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", name, id))
	}
	return document.Item{ID: id, Fields: fields.Clone()}, nil
}

func (s *memoryStore) Create(ctx context.Context, name string, fields document.Fields) (string, error) {
	if name == "" {
		return "", errors.ErrInvalidInput.WithReason("collection name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]document.Fields)}
		s.collections[name] = c
	}

	id := s.newID()
	c.docs[id] = fields.Clone()
	c.order = append(c.order, id)
	return id, nil
}

func (s *memoryStore) Update(ctx context.Context, name string, id string, fields document.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", name, id))
	}
	existing, ok := c.docs[id]
	if !ok {
		return errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", name, id))
	}

	merged := existing.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	c.docs[id] = merged
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, name string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	if _, exists := c.docs[id]; !exists {
		return nil
	}

	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) Count(ctx context.Context, name string, params *query.QueryParams) (int64, error) {
	if err := params.Validate(); err != nil {
		return 0, errors.ErrInvalidInput.WithReason(err.Error())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return 0, nil
	}
	var n int64
	for _, id := range c.order {
		if params.Matches(c.docs[id]) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) Close() error {
	return nil
}
