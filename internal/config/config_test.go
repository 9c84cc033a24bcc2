package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: 127.0.0.1
database:
  driver: memory
auth:
  jwtSecret: s3cret
  tokenExpiration: 15
  reauthOnDelete: false
logging:
  level: debug
admin:
  email: admin@lab.example
  password: hunter2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Auth.ReauthOnDelete)
	assert.Equal(t, "labsite_session", cfg.Auth.CookieName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "admin@lab.example", cfg.Admin.Email)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwtSecret: from-file\n")
	t.Setenv("LABSITE_AUTH_JWTSECRET", "from-env")
	t.Setenv("LABSITE_SERVER_PORT", "7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Auth.ReauthOnDelete)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "labsite.db", cfg.Database.DSN)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing secret", body: "server:\n  port: 8080\n", wantErr: "auth.jwtSecret"},
		{name: "bad driver", body: "auth:\n  jwtSecret: x\ndatabase:\n  driver: postgres\n", wantErr: "unsupported database.driver"},
		{name: "bad port", body: "auth:\n  jwtSecret: x\nserver:\n  port: 70000\n", wantErr: "out of range"},
		{name: "half admin", body: "auth:\n  jwtSecret: x\nadmin:\n  email: a@b.c\n", wantErr: "set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
