package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sukryu/labsite/internal/config"
	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/store/factory"
	"github.com/sukryu/labsite/pkg/store/schema"
	jwtutil "github.com/sukryu/labsite/pkg/utils/jwt"
)

// app is the wired service: stores, controllers and the authenticator.
type app struct {
	stores      *factory.Stores
	collections controllers.CollectionController
	accounts    controllers.AccountController
	content     controllers.ContentController
	authn       auth.Authenticator
	engine      *controllers.Engine
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	stores, err := factory.NewStores(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}

	collections := controllers.NewCollectionController(schema.DefaultRegistry(), stores.Documents)
	tokens := jwtutil.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authn := auth.NewAuthenticator(stores.Accounts, tokens, logger.Named("auth"))

	a := &app{
		stores:      stores,
		collections: collections,
		accounts:    controllers.NewAccountController(stores.Accounts),
		content:     controllers.NewContentController(collections, stores.Documents),
		authn:       authn,
		engine:      controllers.NewEngine(collections, authn, logger, controllers.WithDeleteReauth(cfg.Auth.ReauthOnDelete)),
	}

	if err := a.bootstrapAdmin(ctx, cfg.Admin, logger); err != nil {
		stores.Close()
		return nil, err
	}
	return a, nil
}

// bootstrapAdmin creates the configured admin account on first start.
func (a *app) bootstrapAdmin(ctx context.Context, admin config.AdminConfig, logger *zap.Logger) error {
	if admin.Email == "" {
		return nil
	}
	account, created, err := a.accounts.EnsureAccount(ctx, admin.Email, admin.Password, []string{v1alpha1.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}
	if created {
		logger.Info("created admin account", zap.String("email", account.Spec.Email))
	}
	return nil
}

func (a *app) Close() error {
	return a.stores.Close()
}
