package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlobanov/bookshelf/internal/auth"
)

func setupLibraryRouter(t *testing.T) (*gin.Engine, *testStack) {
	t.Helper()
	stack := setupStack(t)

	router := gin.New()
	router.Use(testIdentity(testUserID))
	router.Use(auth.RequireAuth())
	NewLibraryController(stack.sessions, nil).RegisterRoutes(router)
	return router, stack
}

func TestGetLibraryBootstrapsDefaultShelf(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	shelves := body["shelves"].([]any)
	require.Len(t, shelves, 1)
	assert.Equal(t, "My Bookshelf", shelves[0].(map[string]any)["title"])
	assert.Empty(t, body["books"])
	assert.Nil(t, body["selected"])
}

func TestGetLibraryRequiresAuth(t *testing.T) {
	stack := setupStack(t)

	router := gin.New()
	router.Use(testIdentity(""))
	router.Use(auth.RequireAuth())
	NewLibraryController(stack.sessions, nil).RegisterRoutes(router)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateShelf(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "POST", "/api/library/shelves", gin.H{"title": "Sci-Fi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	shelf := decodeBody(t, w)
	assert.Equal(t, "Sci-Fi", shelf["title"])
	assert.NotEmpty(t, shelf["id"])

	w = jsonRequest(t, router, "GET", "/api/library", nil)
	body := decodeBody(t, w)
	assert.Len(t, body["shelves"].([]any), 2)
}

func TestCreateShelfRejectsBlankTitle(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "POST", "/api/library/shelves", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddBook(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "POST", "/api/library/shelves", gin.H{"title": "Sci-Fi"})
	require.Equal(t, http.StatusCreated, w.Code)
	shelfID := decodeBody(t, w)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	book := decodeBody(t, w)
	assert.Equal(t, shelfID, book["shelfId"])
	assert.NotEmpty(t, book["id"])
}

func TestAddBookValidation(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	shelfID := decodeBody(t, w)["shelves"].([]any)[0].(map[string]any)["id"].(string)

	t.Run("missing title", func(t *testing.T) {
		record := validRecord()
		record.Title = ""
		w := jsonRequest(t, router, "POST", "/api/library/books", gin.H{
			"shelf_id": shelfID,
			"record":   record,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown shelf", func(t *testing.T) {
		w := jsonRequest(t, router, "POST", "/api/library/books", gin.H{
			"shelf_id": "shelf_missing",
			"record":   validRecord(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateBook(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	shelfID := decodeBody(t, w)["shelves"].([]any)[0].(map[string]any)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	bookID := decodeBody(t, w)["id"].(string)

	updated := validRecord()
	updated.Review = "A classic."
	w = jsonRequest(t, router, "PUT", "/api/library/books/"+bookID, gin.H{"record": updated})
	assert.Equal(t, http.StatusOK, w.Code)

	book := decodeBody(t, w)
	assert.Equal(t, "A classic.", book["data"].(map[string]any)["review"])
}

func TestDeleteBook(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	shelfID := decodeBody(t, w)["shelves"].([]any)[0].(map[string]any)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	bookID := decodeBody(t, w)["id"].(string)

	w = jsonRequest(t, router, "DELETE", "/api/library/books/"+bookID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, "DELETE", "/api/library/books/"+bookID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = jsonRequest(t, router, "GET", "/api/library", nil)
	assert.Empty(t, decodeBody(t, w)["books"])
}

func TestDeleteShelfCascades(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "POST", "/api/library/shelves", gin.H{"title": "Sci-Fi"})
	shelfID := decodeBody(t, w)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, router, "DELETE", "/api/library/shelves/"+shelfID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, "GET", "/api/library", nil)
	body := decodeBody(t, w)
	assert.Len(t, body["shelves"].([]any), 1)
	assert.Empty(t, body["books"])
}

func TestSelection(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	shelfID := decodeBody(t, w)["shelves"].([]any)[0].(map[string]any)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	bookID := decodeBody(t, w)["id"].(string)

	w = jsonRequest(t, router, "GET", "/api/library/selection", nil)
	assert.Nil(t, decodeBody(t, w)["selected"])

	w = jsonRequest(t, router, "POST", "/api/library/books/"+bookID+"/select", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	selected := decodeBody(t, w)["selected"].(map[string]any)
	assert.Equal(t, bookID, selected["id"])

	// Unknown id leaves the selection untouched.
	w = jsonRequest(t, router, "POST", "/api/library/books/book_missing/select", nil)
	selected = decodeBody(t, w)["selected"].(map[string]any)
	assert.Equal(t, bookID, selected["id"])

	w = jsonRequest(t, router, "DELETE", "/api/library/selection", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, "GET", "/api/library/selection", nil)
	assert.Nil(t, decodeBody(t, w)["selected"])
}

func TestEnrichBookWithoutTaskQueue(t *testing.T) {
	router, _ := setupLibraryRouter(t)

	w := jsonRequest(t, router, "GET", "/api/library", nil)
	shelfID := decodeBody(t, w)["shelves"].([]any)[0].(map[string]any)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books", gin.H{
		"shelf_id": shelfID,
		"record":   validRecord(),
	})
	bookID := decodeBody(t, w)["id"].(string)

	w = jsonRequest(t, router, "POST", "/api/library/books/"+bookID+"/enrich", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
