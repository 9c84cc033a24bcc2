package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/apis/handlers"
	"github.com/sukryu/labsite/pkg/auth"
	"github.com/sukryu/labsite/pkg/middleware"
	"github.com/sukryu/labsite/pkg/render"
)

type Router struct {
	authn             auth.Authenticator
	cookieName        string
	logger            *zap.Logger
	adminHandler      *handlers.AdminHandler
	authHandler       *handlers.AuthHandler
	collectionHandler *handlers.CollectionHandler
	contentHandler    *handlers.ContentHandler
	healthHandler     *handlers.HealthHandler
}

type Handlers struct {
	Admin      *handlers.AdminHandler
	Auth       *handlers.AuthHandler
	Collection *handlers.CollectionHandler
	Content    *handlers.ContentHandler
	Health     *handlers.HealthHandler
}

func NewRouter(authn auth.Authenticator, cookieName string, logger *zap.Logger, h Handlers) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		authn:             authn,
		cookieName:        cookieName,
		logger:            logger,
		adminHandler:      h.Admin,
		authHandler:       h.Auth,
		collectionHandler: h.Collection,
		contentHandler:    h.Content,
		healthHandler:     h.Health,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.logger.Named("http")))
	router.Use(middleware.ErrorMiddleware(r.logger.Named("http")))

	tmpl, err := render.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", r.healthHandler.Health)

	// Public site
	public := router.Group("/api")
	{
		public.GET("/content/:collection", r.contentHandler.List)
		public.GET("/overview", r.contentHandler.Overview)
		public.POST("/contact", r.contentHandler.Contact)
	}

	// Admin pages
	router.GET("/admin/login", r.adminHandler.LoginPage)
	router.POST("/admin/login", r.adminHandler.Login)

	pages := router.Group("/admin")
	pages.Use(middleware.PageAuth(r.authn, r.cookieName))
	pages.Use(middleware.RequireRole(v1alpha1.RoleAdmin, v1alpha1.RoleEditor))
	{
		pages.POST("/logout", r.adminHandler.Logout)
		pages.GET("", r.adminHandler.Dashboard)
		pages.GET("/:collection", r.adminHandler.Collection)
		pages.POST("/:collection/submit", r.adminHandler.Submit)
		pages.POST("/:collection/cancel", r.adminHandler.Cancel)
		pages.POST("/:collection/:id/edit", r.adminHandler.Edit)
		pages.POST("/:collection/:id/delete", r.adminHandler.Delete)
		pages.POST("/:collection/:id/read", r.adminHandler.ToggleRead)
	}

	// Admin API
	router.POST("/api/v1alpha1/auth/login", r.authHandler.Login)

	api := router.Group("/api/v1alpha1")
	api.Use(middleware.JWTAuth(r.authn, r.cookieName))
	{
		api.POST("/auth/logout", r.authHandler.Logout)
		api.GET("/auth/me", r.authHandler.Me)
		api.PUT("/auth/password", r.authHandler.ChangePassword)

		content := api.Group("")
		content.Use(middleware.RequireRole(v1alpha1.RoleAdmin, v1alpha1.RoleEditor))
		content.GET("/collections", r.collectionHandler.ListCollections)
		content.GET("/collections/:collection", r.collectionHandler.GetCollection)
		content.GET("/collections/:collection/items", r.collectionHandler.ListItems)
		content.POST("/collections/:collection/items", r.collectionHandler.CreateItem)
		content.GET("/collections/:collection/items/:id", r.collectionHandler.GetItem)
		content.PUT("/collections/:collection/items/:id", r.collectionHandler.UpdateItem)
		content.DELETE("/collections/:collection/items/:id", r.collectionHandler.DeleteItem)
		content.PUT("/collections/:collection/items/:id/read", r.collectionHandler.SetRead)
		content.GET("/unread", r.collectionHandler.UnreadCount)

		accounts := api.Group("/accounts")
		accounts.Use(middleware.RequireRole(v1alpha1.RoleAdmin))
		accounts.GET("", r.authHandler.ListAccounts)
		accounts.POST("", r.authHandler.CreateAccount)
		accounts.GET("/:name", r.authHandler.GetAccount)
		accounts.DELETE("/:name", r.authHandler.DeleteAccount)
		accounts.PUT("/:name/roles", r.authHandler.AssignRoles)
		accounts.PUT("/:name/active", r.authHandler.SetActive)
	}

	return router, nil
}
