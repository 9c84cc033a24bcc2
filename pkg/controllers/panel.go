package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/sukryu/labsite/pkg/auth"
)

// Panel is the admin panel of one session. Commands are applied to the
// session's ViewState one at a time; store I/O happens outside the lock.
//
// Selecting a tab starts a new generation. A command that finishes after a
// newer tab selection only contributes its notices; its view is dropped.
// Every change to the state bumps its version. A command that finishes after
// a local change in the same tab (an edit began, notices were drained)
// contributes its notices and refreshed items but keeps the current form.
type Panel struct {
	engine  *Engine
	session *auth.Session

	mu         sync.Mutex
	state      ViewState
	generation uint64
	version    uint64
}

type stamp struct {
	generation uint64
	version    uint64
}

func NewPanel(engine *Engine, session *auth.Session) *Panel {
	return &Panel{engine: engine, session: session}
}

func (p *Panel) Session() *auth.Session {
	return p.session
}

func (p *Panel) Engine() *Engine {
	return p.engine
}

func (p *Panel) snapshot() (ViewState, stamp) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, stamp{generation: p.generation, version: p.version}
}

// set replaces the state. Callers hold p.mu.
func (p *Panel) set(st ViewState) {
	p.state = st
	p.version++
}

func (p *Panel) commit(before, after ViewState, at stamp) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case at.generation != p.generation:
		if len(after.Notices) > len(before.Notices) {
			p.set(p.state.withNotices(after.Notices[len(before.Notices):]))
		}
	case at.version != p.version:
		st := p.state
		st.Items = after.Items
		st.UnreadCount = after.UnreadCount
		if len(after.Notices) > len(before.Notices) {
			st = st.withNotices(after.Notices[len(before.Notices):])
		}
		p.set(st)
	default:
		p.set(after)
	}
}

func (st ViewState) withNotices(notices []Notice) ViewState {
	out := make([]Notice, 0, len(st.Notices)+len(notices))
	out = append(out, st.Notices...)
	st.Notices = append(out, notices...)
	return st
}

func (p *Panel) OnSelectTab(ctx context.Context, name string) error {
	if _, err := p.engine.Collections().Collection(name); err != nil {
		return err
	}

	p.mu.Lock()
	p.generation++
	at := stamp{generation: p.generation, version: p.version}
	before := p.state
	p.mu.Unlock()

	after, err := p.engine.RenderCollection(ctx, before, name)
	if err != nil {
		return err
	}
	p.commit(before, after, at)
	return nil
}

// OnSubmit validates raw form input and submits it. Invalid input is kept
// in the form with its field errors and nothing is stored.
func (p *Panel) OnSubmit(ctx context.Context, raw map[string]string) error {
	before, at := p.snapshot()
	coll, err := p.engine.Collections().Collection(before.Collection)
	if err != nil {
		return err
	}

	values, fieldErrs := ParseSubmission(coll, raw)
	if fieldErrs != nil {
		p.commit(before, p.engine.RejectSubmission(before, raw, fieldErrs), at)
		return nil
	}

	after, err := p.engine.SubmitForm(ctx, before, values)
	if err != nil {
		return err
	}
	p.commit(before, after, at)
	return nil
}

func (p *Panel) OnEdit(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(p.engine.BeginEdit(p.state, id))
}

func (p *Panel) OnCancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(p.engine.CancelEdit(p.state))
}

func (p *Panel) OnDelete(ctx context.Context, id string, confirmed bool, secret string) error {
	before, at := p.snapshot()
	after, err := p.engine.DeleteItem(ctx, before, DeleteRequest{
		ID:        id,
		Confirmed: confirmed,
		Session:   p.session,
		Secret:    secret,
	})
	if err != nil {
		return err
	}
	p.commit(before, after, at)
	return nil
}

func (p *Panel) OnToggleRead(ctx context.Context, id string, read bool) error {
	before, at := p.snapshot()
	after, err := p.engine.ToggleRead(ctx, before, id, read)
	if err != nil {
		return err
	}
	p.commit(before, after, at)
	return nil
}

// RefreshUnread reloads the unread message count.
func (p *Panel) RefreshUnread(ctx context.Context) {
	before, at := p.snapshot()
	p.commit(before, p.engine.RefreshUnread(ctx, before), at)
}

// State returns a copy of the current view state.
func (p *Panel) State() ViewState {
	st, _ := p.snapshot()
	return st
}

func (p *Panel) View() (View, error) {
	return p.engine.View(p.State())
}

// DrainNotices returns pending notices and clears them.
func (p *Panel) DrainNotices() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	notices := p.state.Notices
	if len(notices) > 0 {
		st := p.state
		st.Notices = nil
		p.set(st)
	}
	return notices
}

// Panels keeps one Panel per signed-in session and forgets it on sign-out.
type Panels struct {
	engine      *Engine
	now         func() time.Time
	unsubscribe func()

	mu     sync.Mutex
	panels map[string]*Panel
}

func NewPanels(engine *Engine, authn auth.Authenticator) *Panels {
	ps := &Panels{
		engine: engine,
		now:    time.Now,
		panels: make(map[string]*Panel),
	}
	ps.unsubscribe = authn.OnSessionChange(func(e auth.SessionEvent) {
		if e.Type == auth.SessionEnded && e.Session != nil {
			ps.Drop(e.Session.TokenID)
		}
	})
	return ps
}

// Get returns the session's panel, creating it on first use. Panels of
// expired sessions are dropped on the way.
func (ps *Panels) Get(session *auth.Session) *Panel {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := ps.now()
	for id, p := range ps.panels {
		if !p.session.ExpiresAt.IsZero() && p.session.ExpiresAt.Before(now) {
			delete(ps.panels, id)
		}
	}

	p, ok := ps.panels[session.TokenID]
	if !ok {
		p = NewPanel(ps.engine, session)
		ps.panels[session.TokenID] = p
	}
	return p
}

func (ps *Panels) Drop(tokenID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.panels, tokenID)
}

func (ps *Panels) Len() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.panels)
}

func (ps *Panels) Close() {
	ps.unsubscribe()
}
