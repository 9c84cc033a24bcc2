package interfaces

import (
	"context"
	"time"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
)

type AccountStore interface {
	Create(ctx context.Context, account *v1alpha1.Account) error
	Get(ctx context.Context, name string) (*v1alpha1.Account, error)
	FindByEmail(ctx context.Context, email string) (*v1alpha1.Account, error)
	Update(ctx context.Context, account *v1alpha1.Account) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) (*v1alpha1.AccountList, error)

	// RecordLogin sets the account's last login time.
	RecordLogin(ctx context.Context, name string, at time.Time) error
}
