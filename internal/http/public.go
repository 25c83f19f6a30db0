package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/library"
)

// PublicController serves the read-only public projection. No
// authentication is required; a private or missing library produces the
// same 404 so account existence never leaks.
type PublicController struct {
	reader *library.PublicReader
}

func NewPublicController(reader *library.PublicReader) *PublicController {
	return &PublicController{reader: reader}
}

// GetPublicLibrary returns the profile, shelves and books of a public
// library.
// GET /api/public-library/:userID
func (controller *PublicController) GetPublicLibrary(c *gin.Context) {
	projection, err := controller.reader.Open(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, library.ErrPublicLibraryUnavailable) {
			respondNotFound(c, "public library")
			return
		}
		respondInternalError(c, err, "open public library")
		return
	}
	c.IndentedJSON(http.StatusOK, projection)
}

// RegisterRoutes attaches the public projection endpoint.
func (controller *PublicController) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/public-library/:userID", controller.GetPublicLibrary)
}
