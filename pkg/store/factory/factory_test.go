package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukryu/labsite/internal/config"
	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/store/document"
)

func TestNewStores(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) config.DatabaseConfig
	}{
		{
			name: "sqlite file",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "lab.db")}
			},
		},
		{
			name: "memory",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Driver: "memory"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			stores, err := NewStores(ctx, tt.cfg(t))
			require.NoError(t, err)
			defer stores.Close()

			id, err := stores.Documents.Create(ctx, "news", document.Fields{"title": "Hello"})
			require.NoError(t, err)
			item, err := stores.Documents.Get(ctx, "news", id)
			require.NoError(t, err)
			assert.Equal(t, "Hello", item.Fields["title"])

			acct := &v1alpha1.Account{Spec: v1alpha1.AccountSpec{Email: "a@lab.example", PasswordHash: "x", Roles: []string{v1alpha1.RoleAdmin}}}
			require.NoError(t, stores.Accounts.Create(ctx, acct))
			found, err := stores.Accounts.FindByEmail(ctx, "a@lab.example")
			require.NoError(t, err)
			assert.Equal(t, acct.Name, found.Name)

			assert.Equal(t, 1, stores.GetStats()["max_open_connections"])
		})
	}
}

func TestNewStores_UnknownDriver(t *testing.T) {
	_, err := NewStores(context.Background(), config.DatabaseConfig{Driver: "postgres", DSN: ":memory:"})
	assert.Error(t, err)
}
