package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/errors"
)

const sessionKey = "session"

// LoginPath is where page requests without a session are sent.
const LoginPath = "/admin/login"

// bearerToken returns the token of an "Authorization: Bearer" header, or
// the session cookie.
func bearerToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// JWTAuth rejects API requests without a valid session.
func JWTAuth(authn auth.Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authn.Validate(c.Request.Context(), bearerToken(c, cookieName))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// PageAuth sends page requests without a valid session to the login page.
func PageAuth(authn auth.Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authn.Validate(c.Request.Context(), bearerToken(c, cookieName))
		if err != nil {
			c.SetCookie(cookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session set by JWTAuth or PageAuth.
func SessionFrom(c *gin.Context) (*auth.Session, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, errors.ErrUnauthenticated
	}
	session, ok := v.(*auth.Session)
	if !ok {
		return nil, errors.ErrUnauthenticated
	}
	return session, nil
}
