package controllers

import (
	"context"

	"go.uber.org/zap"

	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
)

const (
	NoticeAdded   = "Item added successfully!"
	NoticeUpdated = "Item updated successfully!"
	NoticeDeleted = "Item deleted successfully!"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown once to the admin.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

type FormState struct {
	// Values holds the form input by field key. Empty means a fresh form.
	Values map[string]string
	Errors FieldErrors
}

// ViewState is the admin view of one session. Engine operations take a
// state and return the next one.
type ViewState struct {
	Collection string
	// EditingID is the item shown in the form, "" in create mode.
	EditingID string
	// Items is the collection as of the last fetch.
	Items       []document.Item
	Form        FormState
	Notices     []Notice
	UnreadCount int64
}

func (st ViewState) withNotice(kind NoticeKind, text string) ViewState {
	notices := make([]Notice, len(st.Notices), len(st.Notices)+1)
	copy(notices, st.Notices)
	st.Notices = append(notices, Notice{Kind: kind, Text: text})
	return st
}

func (st ViewState) cachedItem(id string) (document.Item, bool) {
	for _, it := range st.Items {
		if it.ID == id {
			return it, true
		}
	}
	return document.Item{}, false
}

// DeleteRequest carries the admin's answers to the delete confirmation.
type DeleteRequest struct {
	ID        string
	Confirmed bool
	Session   *auth.Session
	// Secret is the password entered to re-authenticate.
	Secret string
}

type EngineOption func(*Engine)

// WithDeleteReauth makes DeleteItem re-verify the session password first.
func WithDeleteReauth(enabled bool) EngineOption {
	return func(e *Engine) {
		e.reauthOnDelete = enabled
	}
}

// Engine renders and mutates one collection at a time from its schema.
type Engine struct {
	collections    CollectionController
	auth           auth.Authenticator
	logger         *zap.Logger
	reauthOnDelete bool
}

func NewEngine(collections CollectionController, authn auth.Authenticator, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		collections: collections,
		auth:        authn,
		logger:      logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Collections() CollectionController {
	return e.collections
}

// RenderCollection makes name the active collection and fetches its items.
// A failed fetch is logged and shows as an empty list.
func (e *Engine) RenderCollection(ctx context.Context, st ViewState, name string) (ViewState, error) {
	coll, err := e.collections.Collection(name)
	if err != nil {
		return st, err
	}

	items, err := e.collections.List(ctx, name, nil)
	if err != nil {
		e.logger.Warn("failed to fetch collection", zap.String("collection", name), zap.Error(err))
		items = []document.Item{}
	}

	st.Collection = name
	st.EditingID = ""
	st.Items = items
	st.Form = FormState{}
	if coll.Inbox {
		st.UnreadCount = countUnread(items)
	}
	return st, nil
}

// SubmitForm updates the item in edit, or creates one. values must already
// have passed ParseSubmission.
func (e *Engine) SubmitForm(ctx context.Context, st ViewState, values document.Fields) (ViewState, error) {
	coll, err := e.collections.Collection(st.Collection)
	if err != nil {
		return st, err
	}

	var notice string
	if st.EditingID != "" {
		err = e.collections.Update(ctx, coll.Name, st.EditingID, values)
		notice = NoticeUpdated
	} else {
		_, err = e.collections.Create(ctx, coll.Name, values)
		notice = NoticeAdded
	}
	if err != nil {
		e.logger.Info("mutation failed",
			zap.String("collection", coll.Name),
			zap.String("id", st.EditingID),
			zap.Error(err))
		st.Form = FormState{Values: formValues(coll, values)}
		return st.withNotice(NoticeError, "Error: "+errors.Message(err)), nil
	}

	return e.RenderCollection(ctx, st.withNotice(NoticeSuccess, notice), coll.Name)
}

// RejectSubmission keeps the raw input in the form alongside the reasons it
// was rejected.
func (e *Engine) RejectSubmission(st ViewState, raw map[string]string, fieldErrs FieldErrors) ViewState {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	st.Form = FormState{Values: values, Errors: fieldErrs}
	return st
}

// BeginEdit loads a cached item into the form. Ids missing from the cache
// are ignored.
func (e *Engine) BeginEdit(st ViewState, id string) ViewState {
	item, ok := st.cachedItem(id)
	if !ok {
		return st
	}
	coll, err := e.collections.Collection(st.Collection)
	if err != nil {
		return st
	}

	st.EditingID = id
	st.Form = FormState{Values: formValues(coll, item.Fields)}
	return st
}

func (e *Engine) CancelEdit(st ViewState) ViewState {
	st.EditingID = ""
	st.Form = FormState{}
	return st
}

// DeleteItem deletes req.ID once the admin confirmed, re-authenticating
// first when configured to.
func (e *Engine) DeleteItem(ctx context.Context, st ViewState, req DeleteRequest) (ViewState, error) {
	if !req.Confirmed {
		return st, nil
	}
	coll, err := e.collections.Collection(st.Collection)
	if err != nil {
		return st, err
	}

	if e.reauthOnDelete {
		if err := e.auth.Reauthenticate(ctx, req.Session, req.Secret); err != nil {
			return st.withNotice(NoticeError, "Error deleting: "+errors.Message(err)), nil
		}
	}

	if err := e.collections.Delete(ctx, coll.Name, req.ID); err != nil {
		e.logger.Info("delete failed", zap.String("collection", coll.Name), zap.String("id", req.ID), zap.Error(err))
		return st.withNotice(NoticeError, "Error deleting: "+errors.Message(err)), nil
	}

	return e.RenderCollection(ctx, st.withNotice(NoticeSuccess, NoticeDeleted), coll.Name)
}

// ToggleRead sets the read flag of an inbox item and recounts unread items
// from the cache.
func (e *Engine) ToggleRead(ctx context.Context, st ViewState, id string, read bool) (ViewState, error) {
	coll, err := e.collections.Collection(st.Collection)
	if err != nil {
		return st, err
	}
	if !coll.Inbox {
		return st, errors.ErrInvalidRequest.WithReason(coll.Name + " has no read flag")
	}

	if err := e.collections.SetRead(ctx, coll.Name, id, read); err != nil {
		return st.withNotice(NoticeError, "Error: "+errors.Message(err)), nil
	}

	items := make([]document.Item, len(st.Items))
	for i, it := range st.Items {
		if it.ID == id {
			fields := it.Fields.Clone()
			fields[ReadField] = read
			it = document.Item{ID: it.ID, Fields: fields}
		}
		items[i] = it
	}
	st.Items = items
	st.UnreadCount = countUnread(items)
	return st, nil
}

// RefreshUnread reloads the unread count from the store. Failures keep the
// previous count.
func (e *Engine) RefreshUnread(ctx context.Context, st ViewState) ViewState {
	n, err := e.collections.CountUnread(ctx)
	if err != nil {
		e.logger.Warn("failed to count unread messages", zap.Error(err))
		return st
	}
	st.UnreadCount = n
	return st
}
