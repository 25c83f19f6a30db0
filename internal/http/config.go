package http

import (
	"gorm.io/gorm"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/catalog"
	"github.com/mlobanov/bookshelf/internal/library"
	"github.com/mlobanov/bookshelf/internal/profile"
	"github.com/mlobanov/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies needed to create the HTTP
// router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Sessions     *library.Manager
	PublicReader *library.PublicReader
	Profiles     *profile.Service
	Catalog      *catalog.Client

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Health check
	Database *gorm.DB

	// Application info
	Version string
}
