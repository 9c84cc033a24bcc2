package auth

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/interfaces"
	jwtutil "github.com/sukryu/labsite/pkg/utils/jwt"
)

// MinPasswordLength is the shortest password accepted for new accounts.
const MinPasswordLength = 6

// Session is a signed-in admin.
type Session struct {
	Token       string
	TokenID     string
	AccountName string
	Email       string
	Roles       []string
	ExpiresAt   time.Time
}

func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type SessionEventType int

const (
	SessionStarted SessionEventType = iota
	SessionEnded
)

type SessionEvent struct {
	Type    SessionEventType
	Session *Session
}

// Authenticator signs admins in and out and re-verifies them before
// destructive actions.
type Authenticator interface {
	SignIn(ctx context.Context, identifier, secret string) (*Session, error)
	SignOut(ctx context.Context, session *Session) error
	// OnSessionChange registers fn for sign-in and sign-out events. The
	// returned func removes it.
	OnSessionChange(fn func(SessionEvent)) (unsubscribe func())
	Reauthenticate(ctx context.Context, session *Session, secret string) error
	Validate(ctx context.Context, token string) (*Session, error)
}

type service struct {
	accounts interfaces.AccountStore
	tokens   *jwtutil.JWTManager
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners map[int]func(SessionEvent)
	nextID    int
}

func NewAuthenticator(accounts interfaces.AccountStore, tokens *jwtutil.JWTManager, logger *zap.Logger) Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		accounts:  accounts,
		tokens:    tokens,
		logger:    logger.Named("auth"),
		now:       time.Now,
		revoked:   make(map[string]time.Time),
		listeners: make(map[int]func(SessionEvent)),
	}
}

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.ErrInvalidInput.WithReason("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.ErrInternal.WithReason(err.Error())
	}
	return string(hash), nil
}

// CheckPassword compares password with a bcrypt hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *service) SignIn(ctx context.Context, identifier, secret string) (*Session, error) {
	if identifier == "" || secret == "" {
		return nil, errors.ErrInvalidCredentials.WithReason("email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, errors.ErrAccountNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}
	if CheckPassword(account.Spec.PasswordHash, secret) != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if !account.Status.Active {
		return nil, errors.ErrForbidden.WithReason("account is disabled")
	}

	token, claims, err := s.tokens.Issue(account.Name, account.Spec.Roles)
	if err != nil {
		return nil, errors.ErrInternal.WithReason(err.Error())
	}

	if err := s.accounts.RecordLogin(ctx, account.Name, s.now()); err != nil {
		s.logger.Warn("failed to record login", zap.String("account", account.Name), zap.Error(err))
	}

	session := &Session{
		Token:       token,
		TokenID:     claims.ID,
		AccountName: account.Name,
		Email:       account.Spec.Email,
		Roles:       account.Spec.Roles,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	s.logger.Info("signed in", zap.String("account", account.Name))
	s.notify(SessionEvent{Type: SessionStarted, Session: session})
	return session, nil
}

func (s *service) SignOut(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}

	s.mu.Lock()
	now := s.now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[session.TokenID] = session.ExpiresAt
	s.mu.Unlock()

	s.logger.Info("signed out", zap.String("account", session.AccountName))
	s.notify(SessionEvent{Type: SessionEnded, Session: session})
	return nil
}

func (s *service) OnSessionChange(fn func(SessionEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *service) notify(event SessionEvent) {
	s.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (s *service) Reauthenticate(ctx context.Context, session *Session, secret string) error {
	if session == nil {
		return errors.ErrUnauthenticated
	}
	if secret == "" {
		return errors.ErrReauthFailed.WithReason("password is required")
	}

	account, err := s.accounts.Get(ctx, session.AccountName)
	if err != nil {
		if stderrors.Is(err, errors.ErrAccountNotFound) {
			return errors.ErrReauthFailed.WithReason("account no longer exists")
		}
		return err
	}
	if CheckPassword(account.Spec.PasswordHash, secret) != nil {
		return errors.ErrReauthFailed.WithReason("incorrect password")
	}
	return nil
}

func (s *service) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, errors.ErrUnauthenticated
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		var ve *jwt.ValidationError
		if stderrors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken.WithReason(err.Error())
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, errors.ErrInvalidToken.WithReason("session has ended")
	}

	account, err := s.accounts.Get(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, errors.ErrAccountNotFound) {
			return nil, errors.ErrUnauthenticated.WithReason("account no longer exists")
		}
		return nil, err
	}
	if !account.Status.Active {
		return nil, errors.ErrForbidden.WithReason("account is disabled")
	}

	return &Session{
		Token:       token,
		TokenID:     claims.ID,
		AccountName: account.Name,
		Email:       account.Spec.Email,
		Roles:       account.Spec.Roles,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
