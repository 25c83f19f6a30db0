package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/auth"
)

// PreferencesController persists small client preferences in the cookie
// session. The library path remembers which browsing context the client
// was last in: its own library or someone's public one.
type PreferencesController struct {
	sessionManager *auth.SessionManager
}

func NewPreferencesController(sm *auth.SessionManager) *PreferencesController {
	return &PreferencesController{sessionManager: sm}
}

type libraryPathRequest struct {
	LibraryPath string `json:"library_path" binding:"required"`
}

func validLibraryPath(path string) bool {
	if path == auth.DefaultLibraryPath {
		return true
	}
	return strings.HasPrefix(path, "/public-library/") && len(path) > len("/public-library/")
}

// GetLibraryPath returns the stored library path.
// GET /api/preferences/library-path
func (controller *PreferencesController) GetLibraryPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"library_path": controller.sessionManager.LibraryPath(c.Request)})
}

// SetLibraryPath stores the library path for the next visit.
// PUT /api/preferences/library-path
func (controller *PreferencesController) SetLibraryPath(c *gin.Context) {
	var req libraryPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "library_path is required")
		return
	}
	if !validLibraryPath(req.LibraryPath) {
		respondBadRequest(c, "library_path must be /library or /public-library/<id>")
		return
	}
	controller.sessionManager.SetLibraryPath(c.Request, req.LibraryPath)
	c.JSON(http.StatusOK, gin.H{"library_path": req.LibraryPath})
}
