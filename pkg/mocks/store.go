package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
)

// MockAccountStore implements interfaces.AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{}
}

func (m *MockAccountStore) Create(ctx context.Context, account *v1alpha1.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) Get(ctx context.Context, name string) (*v1alpha1.Account, error) {
	args := m.Called(ctx, name)
	if account, ok := args.Get(0).(*v1alpha1.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*v1alpha1.Account, error) {
	args := m.Called(ctx, email)
	if account, ok := args.Get(0).(*v1alpha1.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, account *v1alpha1.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockAccountStore) List(ctx context.Context) (*v1alpha1.AccountList, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).(*v1alpha1.AccountList); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) RecordLogin(ctx context.Context, name string, at time.Time) error {
	args := m.Called(ctx, name, at)
	return args.Error(0)
}

// MockDocumentStore implements document.Store.
type MockDocumentStore struct {
	mock.Mock
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{}
}

func (m *MockDocumentStore) List(ctx context.Context, collection string, params *query.QueryParams) ([]document.Item, error) {
	args := m.Called(ctx, collection, params)
	if items, ok := args.Get(0).([]document.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection string, id string) (document.Item, error) {
	args := m.Called(ctx, collection, id)
	if item, ok := args.Get(0).(document.Item); ok {
		return item, args.Error(1)
	}
	return document.Item{}, args.Error(1)
}

func (m *MockDocumentStore) Create(ctx context.Context, collection string, fields document.Fields) (string, error) {
	args := m.Called(ctx, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection string, id string, fields document.Fields) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockDocumentStore) Count(ctx context.Context, collection string, params *query.QueryParams) (int64, error) {
	args := m.Called(ctx, collection, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
