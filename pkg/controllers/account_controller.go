package controllers

import (
	"context"
	stderrors "errors"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/interfaces"
)

var validRoles = map[string]bool{
	v1alpha1.RoleAdmin:  true,
	v1alpha1.RoleEditor: true,
}

// AccountController manages admin panel accounts.
type AccountController interface {
	CreateAccount(ctx context.Context, email, password string, roles []string) (*v1alpha1.Account, error)
	// EnsureAccount creates the account unless one with the email exists.
	EnsureAccount(ctx context.Context, email, password string, roles []string) (*v1alpha1.Account, bool, error)
	GetAccount(ctx context.Context, name string) (*v1alpha1.Account, error)
	ListAccounts(ctx context.Context) (*v1alpha1.AccountList, error)
	DeleteAccount(ctx context.Context, name string) error
	ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error
	AssignRoles(ctx context.Context, name string, roles []string) error
	SetActive(ctx context.Context, name string, active bool) error
}

type accountController struct {
	store interfaces.AccountStore
}

func NewAccountController(store interfaces.AccountStore) AccountController {
	return &accountController{
		store: store,
	}
}

func validateRoles(roles []string) error {
	if len(roles) == 0 {
		return errors.ErrInvalidInput.WithReason("at least one role is required")
	}
	for _, r := range roles {
		if !validRoles[r] {
			return errors.ErrInvalidInput.WithReason(fmt.Sprintf("unknown role %q", r))
		}
	}
	return nil
}

func (c *accountController) CreateAccount(ctx context.Context, email, password string, roles []string) (*v1alpha1.Account, error) {
	if email == "" {
		return nil, errors.ErrInvalidInput.WithReason("email cannot be empty")
	}
	if err := validateRoles(roles); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &v1alpha1.Account{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "auth.labsite/v1alpha1",
			Kind:       "Account",
		},
		Spec: v1alpha1.AccountSpec{
			Email:        email,
			PasswordHash: hash,
			Roles:        roles,
		},
		Status: v1alpha1.AccountStatus{
			Active: true,
		},
	}

	if err := c.store.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (c *accountController) EnsureAccount(ctx context.Context, email, password string, roles []string) (*v1alpha1.Account, bool, error) {
	existing, err := c.store.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, errors.ErrAccountNotFound) {
		return nil, false, fmt.Errorf("failed to look up account: %w", err)
	}

	account, err := c.CreateAccount(ctx, email, password, roles)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (c *accountController) GetAccount(ctx context.Context, name string) (*v1alpha1.Account, error) {
	if name == "" {
		return nil, errors.ErrInvalidInput.WithReason("account name cannot be empty")
	}

	account, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (c *accountController) ListAccounts(ctx context.Context) (*v1alpha1.AccountList, error) {
	accounts, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (c *accountController) DeleteAccount(ctx context.Context, name string) error {
	if name == "" {
		return errors.ErrInvalidInput.WithReason("account name cannot be empty")
	}

	if err := c.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (c *accountController) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	account, err := c.store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if err := auth.CheckPassword(account.Spec.PasswordHash, oldPassword); err != nil {
		return errors.ErrInvalidCredentials.WithReason("old password does not match")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.Spec.PasswordHash = hash

	if err := c.store.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (c *accountController) AssignRoles(ctx context.Context, name string, roles []string) error {
	if err := validateRoles(roles); err != nil {
		return err
	}

	account, err := c.store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account.Spec.Roles = roles

	if err := c.store.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to assign roles: %w", err)
	}
	return nil
}

func (c *accountController) SetActive(ctx context.Context, name string, active bool) error {
	account, err := c.store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account.Status.Active = active

	if err := c.store.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}
