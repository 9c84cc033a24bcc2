package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sukryu/labsite/pkg/auth"
)

// MockAuthenticator implements auth.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (m *MockAuthenticator) SignIn(ctx context.Context, identifier, secret string) (*auth.Session, error) {
	args := m.Called(ctx, identifier, secret)
	if session, ok := args.Get(0).(*auth.Session); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) SignOut(ctx context.Context, session *auth.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAuthenticator) OnSessionChange(fn func(auth.SessionEvent)) func() {
	args := m.Called(fn)
	if unsubscribe, ok := args.Get(0).(func()); ok {
		return unsubscribe
	}
	return func() {}
}

func (m *MockAuthenticator) Reauthenticate(ctx context.Context, session *auth.Session, secret string) error {
	args := m.Called(ctx, session, secret)
	return args.Error(0)
}

func (m *MockAuthenticator) Validate(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	if session, ok := args.Get(0).(*auth.Session); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}
