package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/mocks"
)

const testCookie = "session"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(authn auth.Authenticator, page bool, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.Use(ErrorMiddleware(zap.NewNop()))
	if page {
		r.Use(PageAuth(authn, testCookie))
	} else {
		r.Use(JWTAuth(authn, testCookie))
	}
	if len(roles) > 0 {
		r.Use(RequireRole(roles...))
	}
	r.GET("/", func(c *gin.Context) {
		session, err := SessionFrom(c)
		if err != nil {
			c.Error(err)
			return
		}
		c.String(http.StatusOK, session.Email)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	session := &auth.Session{Email: "admin@lab.example", Roles: []string{"admin"}}

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		mockSetup  func(m *mocks.MockAuthenticator)
		wantStatus int
		wantBody   string
	}{
		{
			name: "bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer good")
			},
			mockSetup: func(m *mocks.MockAuthenticator) {
				m.On("Validate", mock.Anything, "good").Return(session, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "admin@lab.example",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: testCookie, Value: "from-cookie"})
			},
			mockSetup: func(m *mocks.MockAuthenticator) {
				m.On("Validate", mock.Anything, "from-cookie").Return(session, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "admin@lab.example",
		},
		{
			name:  "no credentials",
			setup: func(r *http.Request) {},
			mockSetup: func(m *mocks.MockAuthenticator) {
				m.On("Validate", mock.Anything, "").Return(nil, errors.ErrUnauthenticated)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"authentication required"`,
		},
		{
			name: "malformed header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Token abc")
			},
			mockSetup: func(m *mocks.MockAuthenticator) {
				m.On("Validate", mock.Anything, "").Return(nil, errors.ErrUnauthenticated)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer old")
			},
			mockSetup: func(m *mocks.MockAuthenticator) {
				m.On("Validate", mock.Anything, "old").Return(nil, errors.ErrTokenExpired)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"message":"token expired"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mocks.NewMockAuthenticator()
			tt.mockSetup(m)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			newEngine(m, false).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestPageAuth_RedirectsToLogin(t *testing.T) {
	m := mocks.NewMockAuthenticator()
	m.On("Validate", mock.Anything, "stale").Return(nil, errors.ErrInvalidToken)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
	w := httptest.NewRecorder()
	newEngine(m, true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, testCookie, cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		required   []string
		wantStatus int
	}{
		{"has role", []string{"admin"}, []string{"admin"}, http.StatusOK},
		{"any of", []string{"editor"}, []string{"admin", "editor"}, http.StatusOK},
		{"missing", []string{"editor"}, []string{"admin"}, http.StatusForbidden},
		{"no roles", nil, []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mocks.NewMockAuthenticator()
			m.On("Validate", mock.Anything, "tok").Return(&auth.Session{Email: "a@lab.example", Roles: tt.roles}, nil)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer tok")
			w := httptest.NewRecorder()
			newEngine(m, false, tt.required...).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), `"reason":"requires role`)
			}
		})
	}
}

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "status error with reason",
			err:        errors.ErrNotFound.WithReason("news/abc"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":{"code":404,"message":"resource not found","reason":"news/abc"}}`,
		},
		{
			name:       "status error without reason",
			err:        errors.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":{"code":403,"message":"forbidden"}}`,
		},
		{
			name:       "plain error",
			err:        stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":{"code":500,"message":"Internal server error"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorMiddleware(zap.NewNop()))
			r.GET("/", func(c *gin.Context) { c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestErrorMiddleware_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		c.Error(errors.ErrNotFound)
		c.String(http.StatusNotFound, "missing")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "missing", w.Body.String())
}
