package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/errors"
)

// RequireRole lets the request through when the session has any of roles.
// It must run after JWTAuth or PageAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := SessionFrom(c)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.HasRole(role) {
				c.Next()
				return
			}
		}

		c.Error(errors.ErrForbidden.WithReason("requires role " + strings.Join(roles, " or ")))
		c.Abort()
	}
}
