package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(auth.IdentityMiddleware(cfg.SessionManager))
	}

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/api/health", healthController.Status)

	if cfg.AuthService != nil && cfg.SessionManager != nil {
		var bootstrapper auth.ProfileBootstrapper
		if cfg.Profiles != nil {
			bootstrapper = cfg.Profiles
		}
		onSignOut := func(userID string) {
			if cfg.Sessions != nil {
				cfg.Sessions.Close(userID)
			}
		}
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, bootstrapper, onSignOut)
		authController.RegisterRoutes(router)
	}

	if cfg.PublicReader != nil {
		publicController := NewPublicController(cfg.PublicReader)
		publicController.RegisterRoutes(router)
	}

	authed := router.Group("/", auth.RequireAuth())

	if cfg.Sessions != nil {
		libraryController := NewLibraryController(cfg.Sessions, cfg.TaskClient)
		libraryController.RegisterRoutes(authed)
	}
	if cfg.Profiles != nil {
		profileController := NewProfileController(cfg.Profiles)
		authed.GET("/api/profile", profileController.Get)
		authed.PUT("/api/profile", profileController.Update)
	}
	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog)
		authed.GET("/api/catalog/search", catalogController.Search)
	}
	if cfg.SessionManager != nil {
		preferencesController := NewPreferencesController(cfg.SessionManager)
		authed.GET("/api/preferences/library-path", preferencesController.GetLibraryPath)
		authed.PUT("/api/preferences/library-path", preferencesController.SetLibraryPath)
	}

	return router
}
