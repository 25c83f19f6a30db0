package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/catalog"
	"github.com/mlobanov/bookshelf/internal/entities"
)

// CatalogController proxies book searches to the external catalog.
type CatalogController struct {
	client *catalog.Client
}

func NewCatalogController(client *catalog.Client) *CatalogController {
	return &CatalogController{client: client}
}

// Search looks up catalog records by free-text query.
// GET /api/catalog/search?q=
func (controller *CatalogController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	records, err := controller.client.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrNoResults) {
			records = []entities.BookRecord{}
		} else {
			respondInternalError(c, err, "catalog search")
			return
		}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"results": records, "count": len(records)})
}
