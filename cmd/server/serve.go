package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sukryu/labsite/internal/config"
	"github.com/sukryu/labsite/pkg/apis/handlers"
	"github.com/sukryu/labsite/pkg/apis/router"
	"github.com/sukryu/labsite/pkg/controllers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, logger)
	},
}

func newHandler(a *app, cfg *config.Config, logger *zap.Logger) (http.Handler, func(), error) {
	gin.SetMode(cfg.Server.Mode)

	panels := controllers.NewPanels(a.engine, a.authn)
	r := router.NewRouter(a.authn, cfg.Auth.CookieName, logger, router.Handlers{
		Admin:      handlers.NewAdminHandler(a.authn, panels, cfg.Auth.CookieName, cfg.Auth.ReauthOnDelete),
		Auth:       handlers.NewAuthHandler(a.authn, a.accounts),
		Collection: handlers.NewCollectionHandler(a.collections),
		Content:    handlers.NewContentHandler(a.content),
		Health:     handlers.NewHealthHandler(a.stores.Manager),
	})
	h, err := r.Setup()
	if err != nil {
		panels.Close()
		return nil, nil, err
	}
	return h, panels.Close, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	h, closePanels, err := newHandler(a, cfg, logger)
	if err != nil {
		return err
	}
	defer closePanels()

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
