package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/middleware"
	"github.com/sukryu/labsite/pkg/render"
)

// AdminHandler serves the HTML admin panel. Every POST redirects back to
// the collection page, which drains pending notices into toasts.
type AdminHandler struct {
	authn          auth.Authenticator
	panels         *controllers.Panels
	cookieName     string
	reauthOnDelete bool
}

func NewAdminHandler(authn auth.Authenticator, panels *controllers.Panels, cookieName string, reauthOnDelete bool) *AdminHandler {
	return &AdminHandler{
		authn:          authn,
		panels:         panels,
		cookieName:     cookieName,
		reauthOnDelete: reauthOnDelete,
	}
}

func collectionPath(name string) string {
	return "/admin/" + name
}

func (h *AdminHandler) setSessionCookie(c *gin.Context, session *auth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, session.Token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (h *AdminHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}

// pageError reports a failed admin request as plain text.
func pageError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	if se, ok := errors.Status(err); ok {
		code = se.Code
	}
	c.Error(err)
	c.String(code, errors.Message(err))
}

func (h *AdminHandler) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		if _, err := h.authn.Validate(c.Request.Context(), token); err == nil {
			c.Redirect(http.StatusSeeOther, "/admin")
			return
		}
	}
	c.HTML(http.StatusOK, render.LoginTemplate, render.LoginPage{})
}

func (h *AdminHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	session, err := h.authn.SignIn(c.Request.Context(), email, password)
	if err != nil {
		code := http.StatusUnauthorized
		if se, ok := errors.Status(err); ok {
			code = se.Code
		}
		c.HTML(code, render.LoginTemplate, render.LoginPage{
			Email: email,
			Error: errors.Message(err),
		})
		return
	}

	h.setSessionCookie(c, session)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) Logout(c *gin.Context) {
	session, err := middleware.SessionFrom(c)
	if err == nil {
		if err := h.authn.SignOut(c.Request.Context(), session); err != nil {
			c.Error(err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AdminHandler) panel(c *gin.Context) (*controllers.Panel, bool) {
	session, err := middleware.SessionFrom(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return nil, false
	}
	return h.panels.Get(session), true
}

// activate makes name the panel's collection unless it already is, so a
// form posted from another tab acts on the right collection.
func activate(c *gin.Context, p *controllers.Panel, name string) error {
	if p.State().Collection == name {
		return nil
	}
	return p.OnSelectTab(c.Request.Context(), name)
}

func (h *AdminHandler) show(c *gin.Context, p *controllers.Panel) {
	p.RefreshUnread(c.Request.Context())
	notices := p.DrainNotices()

	view, err := p.View()
	if err != nil {
		pageError(c, err)
		return
	}
	view.Notices = notices

	c.HTML(http.StatusOK, render.DashboardTemplate, render.DashboardPage{
		Email:          p.Session().Email,
		View:           view,
		ReauthOnDelete: h.reauthOnDelete,
	})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	h.show(c, p)
}

// Collection shows a collection. Following a tab link always refetches;
// a redirect after a command keeps the current state, edit included.
func (h *AdminHandler) Collection(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")

	var err error
	if c.Query("reload") != "" {
		err = p.OnSelectTab(c.Request.Context(), name)
	} else {
		err = activate(c, p, name)
	}
	if err != nil {
		pageError(c, err)
		return
	}
	h.show(c, p)
}

func (h *AdminHandler) Submit(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")
	if err := activate(c, p, name); err != nil {
		pageError(c, err)
		return
	}

	coll, err := p.Engine().Collections().Collection(name)
	if err != nil {
		pageError(c, err)
		return
	}
	raw := make(map[string]string, len(coll.Schema))
	for _, key := range coll.Schema.Keys() {
		raw[key] = c.PostForm(key)
	}

	if err := p.OnSubmit(c.Request.Context(), raw); err != nil {
		pageError(c, err)
		return
	}
	target := collectionPath(name)
	if len(p.State().Form.Errors) > 0 {
		target += "#" + controllers.FormAnchor
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *AdminHandler) Edit(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")
	if err := activate(c, p, name); err != nil {
		pageError(c, err)
		return
	}
	p.OnEdit(c.Param("id"))
	c.Redirect(http.StatusSeeOther, collectionPath(name)+"#"+controllers.FormAnchor)
}

func (h *AdminHandler) Cancel(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")
	if err := activate(c, p, name); err != nil {
		pageError(c, err)
		return
	}
	p.OnCancel()
	c.Redirect(http.StatusSeeOther, collectionPath(name))
}

func (h *AdminHandler) Delete(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")
	if err := activate(c, p, name); err != nil {
		pageError(c, err)
		return
	}

	confirmed := c.PostForm("confirm") == "yes"
	if err := p.OnDelete(c.Request.Context(), c.Param("id"), confirmed, c.PostForm("password")); err != nil {
		pageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, collectionPath(name))
}

func (h *AdminHandler) ToggleRead(c *gin.Context) {
	p, ok := h.panel(c)
	if !ok {
		return
	}
	name := c.Param("collection")
	if err := activate(c, p, name); err != nil {
		pageError(c, err)
		return
	}

	read := c.PostForm("read") == "true"
	if err := p.OnToggleRead(c.Request.Context(), c.Param("id"), read); err != nil {
		pageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, collectionPath(name))
}
