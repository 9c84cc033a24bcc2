package controllers

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
)

const (
	MessagesCollection = "messages"
	// OverviewSize is how many entries of each section the home page shows.
	OverviewSize = 3
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// Overview is the home page digest.
type Overview struct {
	News         []document.Item `json:"news"`
	Publications []document.Item `json:"publications"`
	Team         []document.Item `json:"team"`
}

// ContentController serves the public side of the site.
type ContentController interface {
	// List returns a public collection in its default order, capped at
	// limit when limit > 0.
	List(ctx context.Context, name string, limit int) ([]document.Item, error)
	Overview(ctx context.Context) (*Overview, error)
	SubmitMessage(ctx context.Context, msg Message) (string, error)
}

type contentController struct {
	collections CollectionController
	store       document.Store
	now         func() time.Time
}

func NewContentController(collections CollectionController, store document.Store) ContentController {
	return &contentController{
		collections: collections,
		store:       store,
		now:         time.Now,
	}
}

func (c *contentController) List(ctx context.Context, name string, limit int) ([]document.Item, error) {
	coll, err := c.collections.Collection(name)
	if err != nil {
		return nil, err
	}
	if coll.Inbox {
		return nil, errors.ErrCollectionNotFound.WithReason(name)
	}
	if limit < 0 {
		return nil, errors.ErrInvalidInput.WithReason("limit must not be negative")
	}

	params := DefaultQuery(coll)
	if limit > 0 {
		if params == nil {
			params = query.New()
		}
		params.WithLimit(limit)
	}
	return c.collections.List(ctx, name, params)
}

func (c *contentController) Overview(ctx context.Context) (*Overview, error) {
	var overview Overview
	g, ctx := errgroup.WithContext(ctx)

	sections := []struct {
		name string
		dst  *[]document.Item
	}{
		{"news", &overview.News},
		{"publications", &overview.Publications},
		{"team", &overview.Team},
	}
	for _, s := range sections {
		s := s
		g.Go(func() error {
			items, err := c.List(ctx, s.name, OverviewSize)
			if err != nil {
				return err
			}
			*s.dst = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *contentController) SubmitMessage(ctx context.Context, msg Message) (string, error) {
	coll, err := c.collections.Collection(MessagesCollection)
	if err != nil {
		return "", err
	}

	email := strings.TrimSpace(msg.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return "", errors.ErrInvalidInput.WithReason("email is not a valid address")
		}
	}

	fields, fieldErrs := NormalizeFields(coll, map[string]interface{}{
		"name":    msg.Name,
		"email":   email,
		"message": msg.Message,
		"date":    c.now().UTC().Format(time.RFC3339),
	})
	if fieldErrs != nil {
		return "", errors.ErrInvalidInput.WithReason(fieldErrs.Error())
	}
	fields[ReadField] = false

	id, err := c.store.Create(ctx, coll.Name, fields)
	if err != nil {
		return "", err
	}
	return id, nil
}
