package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "LABSITE"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port int
	Host string
	// Mode is the gin mode: debug, release or test.
	Mode string
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string
	DSN    string
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	// TokenExpiration is the session lifetime in minutes.
	TokenExpiration int    `mapstructure:"tokenExpiration"`
	CookieName      string `mapstructure:"cookieName"`
	ReauthOnDelete  bool   `mapstructure:"reauthOnDelete"`
}

type LoggingConfig struct {
	Level       string
	Development bool
}

// AdminConfig seeds the first admin account on startup when both fields are
// set.
type AdminConfig struct {
	Email    string
	Password string
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenExpiration) * time.Minute
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "labsite.db")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenExpiration", 60)
	v.SetDefault("auth.cookieName", "labsite_session")
	v.SetDefault("auth.reauthOnDelete", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
}

// LoadConfig reads configuration from defaults, an optional YAML file and
// LABSITE_* environment variables, in increasing priority. With an empty
// path, config.yaml is looked up in the working directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn must be set for the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret must be set")
	}
	if c.Auth.TokenExpiration <= 0 {
		return fmt.Errorf("auth.tokenExpiration must be positive")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("admin.email and admin.password must be set together")
	}
	return nil
}
