package controllers

import (
	"context"
	"fmt"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
	"github.com/sukryu/labsite/pkg/store/schema"
)

// CollectionController performs schema-checked operations on registered
// collections.
type CollectionController interface {
	Registry() *schema.Registry
	Collection(name string) (schema.Collection, error)
	// List returns the collection's documents. With nil params the
	// collection's default ordering applies.
	List(ctx context.Context, name string, params *query.QueryParams) ([]document.Item, error)
	Get(ctx context.Context, name, id string) (document.Item, error)
	Create(ctx context.Context, name string, values map[string]interface{}) (document.Item, error)
	Update(ctx context.Context, name, id string, values map[string]interface{}) error
	Delete(ctx context.Context, name, id string) error
	// SetRead flips the read flag of an inbox document.
	SetRead(ctx context.Context, name, id string, read bool) error
	// CountUnread counts inbox documents not flagged read across all inbox
	// collections.
	CountUnread(ctx context.Context) (int64, error)
}

type collectionController struct {
	registry *schema.Registry
	store    document.Store
}

func NewCollectionController(registry *schema.Registry, store document.Store) CollectionController {
	return &collectionController{
		registry: registry,
		store:    store,
	}
}

func (c *collectionController) Registry() *schema.Registry {
	return c.registry
}

func (c *collectionController) Collection(name string) (schema.Collection, error) {
	coll, ok := c.registry.Get(name)
	if !ok {
		return schema.Collection{}, errors.ErrCollectionNotFound.WithReason(name)
	}
	return coll, nil
}

// DefaultQuery is the listing query of a collection: its default ordering,
// or store order when it declares none.
func DefaultQuery(coll schema.Collection) *query.QueryParams {
	if coll.Order == nil {
		return nil
	}
	return query.New().AddOrderBy(coll.Order.Field, coll.Order.Desc)
}

func (c *collectionController) List(ctx context.Context, name string, params *query.QueryParams) ([]document.Item, error) {
	coll, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = DefaultQuery(coll)
	}

	items, err := c.store.List(ctx, name, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", name, err)
	}
	return items, nil
}

func (c *collectionController) Get(ctx context.Context, name, id string) (document.Item, error) {
	if _, err := c.Collection(name); err != nil {
		return document.Item{}, err
	}
	return c.store.Get(ctx, name, id)
}

func (c *collectionController) Create(ctx context.Context, name string, values map[string]interface{}) (document.Item, error) {
	coll, err := c.Collection(name)
	if err != nil {
		return document.Item{}, err
	}

	fields, fieldErrs := NormalizeFields(coll, values)
	if fieldErrs != nil {
		return document.Item{}, errors.ErrInvalidInput.WithReason(fieldErrs.Error())
	}

	id, err := c.store.Create(ctx, name, fields)
	if err != nil {
		return document.Item{}, err
	}
	return document.Item{ID: id, Fields: fields}, nil
}

func (c *collectionController) Update(ctx context.Context, name, id string, values map[string]interface{}) error {
	coll, err := c.Collection(name)
	if err != nil {
		return err
	}
	if id == "" {
		return errors.ErrInvalidInput.WithReason("id cannot be empty")
	}

	fields, fieldErrs := NormalizeFields(coll, values)
	if fieldErrs != nil {
		return errors.ErrInvalidInput.WithReason(fieldErrs.Error())
	}
	return c.store.Update(ctx, name, id, fields)
}

func (c *collectionController) Delete(ctx context.Context, name, id string) error {
	if _, err := c.Collection(name); err != nil {
		return err
	}
	return c.store.Delete(ctx, name, id)
}

func (c *collectionController) SetRead(ctx context.Context, name, id string, read bool) error {
	coll, err := c.Collection(name)
	if err != nil {
		return err
	}
	if !coll.Inbox {
		return errors.ErrInvalidRequest.WithReason(fmt.Sprintf("%s has no read flag", name))
	}
	return c.store.Update(ctx, name, id, document.Fields{ReadField: read})
}

func (c *collectionController) CountUnread(ctx context.Context) (int64, error) {
	var unread int64
	for _, name := range c.registry.Names() {
		coll, _ := c.registry.Get(name)
		if !coll.Inbox {
			continue
		}
		total, err := c.store.Count(ctx, name, nil)
		if err != nil {
			return 0, err
		}
		read, err := c.store.Count(ctx, name, query.New().AddWhere(ReadField, "=", true))
		if err != nil {
			return 0, err
		}
		unread += total - read
	}
	return unread, nil
}
