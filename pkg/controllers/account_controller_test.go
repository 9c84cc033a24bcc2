package controllers

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/mocks"
)

func existingAccount(t *testing.T, password string) *v1alpha1.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &v1alpha1.Account{
		ObjectMeta: metav1.ObjectMeta{Name: "acct-1"},
		Spec: v1alpha1.AccountSpec{
			Email:        "admin@lab.example",
			PasswordHash: string(hash),
			Roles:        []string{v1alpha1.RoleAdmin},
		},
		Status: v1alpha1.AccountStatus{Active: true},
	}
}

func TestAccountController_CreateAccount(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		roles     []string
		setupMock func(*mocks.MockAccountStore)
		wantErr   error
	}{
		{
			name:     "successful creation",
			email:    "admin@lab.example",
			password: "password123",
			roles:    []string{v1alpha1.RoleAdmin},
			setupMock: func(ms *mocks.MockAccountStore) {
				ms.On("Create", mock.Anything, mock.MatchedBy(func(a *v1alpha1.Account) bool {
					return a.Spec.Email == "admin@lab.example" &&
						a.Spec.PasswordHash != "password123" &&
						bcrypt.CompareHashAndPassword([]byte(a.Spec.PasswordHash), []byte("password123")) == nil &&
						a.TypeMeta.Kind == "Account" &&
						a.Status.Active
				})).Return(nil)
			},
		},
		{
			name:     "account already exists",
			email:    "admin@lab.example",
			password: "password123",
			roles:    []string{v1alpha1.RoleEditor},
			setupMock: func(ms *mocks.MockAccountStore) {
				ms.On("Create", mock.Anything, mock.Anything).Return(errors.ErrAccountExists)
			},
			wantErr: errors.ErrAccountExists,
		},
		{
			name:      "empty email",
			password:  "password123",
			roles:     []string{v1alpha1.RoleAdmin},
			setupMock: func(ms *mocks.MockAccountStore) {},
			wantErr:   errors.ErrInvalidInput,
		},
		{
			name:      "short password",
			email:     "admin@lab.example",
			password:  "abc",
			roles:     []string{v1alpha1.RoleAdmin},
			setupMock: func(ms *mocks.MockAccountStore) {},
			wantErr:   errors.ErrInvalidInput,
		},
		{
			name:      "unknown role",
			email:     "admin@lab.example",
			password:  "password123",
			roles:     []string{"root"},
			setupMock: func(ms *mocks.MockAccountStore) {},
			wantErr:   errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := mocks.NewMockAccountStore()
			tt.setupMock(mockStore)

			controller := NewAccountController(mockStore)
			_, err := controller.CreateAccount(context.Background(), tt.email, tt.password, tt.roles)

			if tt.wantErr != nil {
				assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAccountController_EnsureAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("existing account is kept", func(t *testing.T) {
		mockStore := mocks.NewMockAccountStore()
		mockStore.On("FindByEmail", mock.Anything, "admin@lab.example").Return(existingAccount(t, "password123"), nil)

		account, created, err := NewAccountController(mockStore).EnsureAccount(ctx, "admin@lab.example", "password123", []string{v1alpha1.RoleAdmin})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "acct-1", account.Name)
		mockStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing account is created", func(t *testing.T) {
		mockStore := mocks.NewMockAccountStore()
		mockStore.On("FindByEmail", mock.Anything, "admin@lab.example").Return(nil, errors.ErrAccountNotFound.WithReason("email: admin@lab.example"))
		mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, created, err := NewAccountController(mockStore).EnsureAccount(ctx, "admin@lab.example", "password123", []string{v1alpha1.RoleAdmin})
		require.NoError(t, err)
		assert.True(t, created)
		mockStore.AssertExpectations(t)
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockStore := mocks.NewMockAccountStore()
		mockStore.On("FindByEmail", mock.Anything, "admin@lab.example").Return(nil, errors.ErrStorageOperation)

		_, _, err := NewAccountController(mockStore).EnsureAccount(ctx, "admin@lab.example", "password123", []string{v1alpha1.RoleAdmin})
		assert.True(t, stderrors.Is(err, errors.ErrStorageOperation))
	})
}

func TestAccountController_ChangePassword(t *testing.T) {
	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		setupMock   func(*testing.T, *mocks.MockAccountStore)
		wantErr     error
	}{
		{
			name:        "successful change",
			oldPassword: "password123",
			newPassword: "newpassword456",
			setupMock: func(t *testing.T, ms *mocks.MockAccountStore) {
				ms.On("Get", mock.Anything, "acct-1").Return(existingAccount(t, "password123"), nil)
				ms.On("Update", mock.Anything, mock.MatchedBy(func(a *v1alpha1.Account) bool {
					return bcrypt.CompareHashAndPassword([]byte(a.Spec.PasswordHash), []byte("newpassword456")) == nil
				})).Return(nil)
			},
		},
		{
			name:        "wrong old password",
			oldPassword: "wrongpassword",
			newPassword: "newpassword456",
			setupMock: func(t *testing.T, ms *mocks.MockAccountStore) {
				ms.On("Get", mock.Anything, "acct-1").Return(existingAccount(t, "password123"), nil)
			},
			wantErr: errors.ErrInvalidCredentials,
		},
		{
			name:        "account not found",
			oldPassword: "password123",
			newPassword: "newpassword456",
			setupMock: func(t *testing.T, ms *mocks.MockAccountStore) {
				ms.On("Get", mock.Anything, "acct-1").Return(nil, errors.ErrAccountNotFound)
			},
			wantErr: errors.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := mocks.NewMockAccountStore()
			tt.setupMock(t, mockStore)

			err := NewAccountController(mockStore).ChangePassword(context.Background(), "acct-1", tt.oldPassword, tt.newPassword)
			if tt.wantErr != nil {
				assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAccountController_AssignRolesAndSetActive(t *testing.T) {
	ctx := context.Background()
	mockStore := mocks.NewMockAccountStore()
	mockStore.On("Get", mock.Anything, "acct-1").Return(existingAccount(t, "password123"), nil)
	mockStore.On("Update", mock.Anything, mock.MatchedBy(func(a *v1alpha1.Account) bool {
		return len(a.Spec.Roles) == 1 && a.Spec.Roles[0] == v1alpha1.RoleEditor
	})).Return(nil).Once()
	mockStore.On("Update", mock.Anything, mock.MatchedBy(func(a *v1alpha1.Account) bool {
		return !a.Status.Active
	})).Return(nil).Once()

	controller := NewAccountController(mockStore)
	require.NoError(t, controller.AssignRoles(ctx, "acct-1", []string{v1alpha1.RoleEditor}))
	require.NoError(t, controller.SetActive(ctx, "acct-1", false))
	assert.True(t, stderrors.Is(controller.AssignRoles(ctx, "acct-1", nil), errors.ErrInvalidInput))
	mockStore.AssertExpectations(t)
}

func TestAccountController_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	mockStore := mocks.NewMockAccountStore()
	mockStore.On("Delete", mock.Anything, "acct-1").Return(nil)
	mockStore.On("Delete", mock.Anything, "missing").Return(errors.ErrAccountNotFound)
	mockStore.On("List", mock.Anything).Return(&v1alpha1.AccountList{Items: []*v1alpha1.Account{existingAccount(t, "password123")}}, nil)

	controller := NewAccountController(mockStore)
	assert.NoError(t, controller.DeleteAccount(ctx, "acct-1"))
	assert.True(t, stderrors.Is(controller.DeleteAccount(ctx, "missing"), errors.ErrAccountNotFound))
	assert.True(t, stderrors.Is(controller.DeleteAccount(ctx, ""), errors.ErrInvalidInput))

	list, err := controller.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
