package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
	"github.com/mlobanov/bookshelf/internal/tasks"
)

// LibraryController exposes the authenticated user's shelves, books and
// selection state. Every handler goes through the session manager, which
// opens the library session on first touch.
type LibraryController struct {
	sessions *library.Manager
	tasks    *tasks.Client
}

func NewLibraryController(sessions *library.Manager, taskClient *tasks.Client) *LibraryController {
	return &LibraryController{
		sessions: sessions,
		tasks:    taskClient,
	}
}

// session resolves the caller's library session, or writes the error
// response and returns false.
func (controller *LibraryController) session(c *gin.Context) (*library.Session, bool) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return nil, false
	}
	sess, err := controller.sessions.Session(c.Request.Context(), userID)
	if err != nil {
		respondLibraryError(c, err, "open library session")
		return nil, false
	}
	return sess, true
}

type createShelfRequest struct {
	Title string `json:"title"`
}

type addBookRequest struct {
	ShelfID string              `json:"shelf_id" binding:"required"`
	Record  entities.BookRecord `json:"record"`
}

type updateBookRequest struct {
	Record entities.BookRecord `json:"record"`
}

func selectionPayload(sess *library.Session) any {
	if selected, ok := sess.Selected(); ok {
		return selected
	}
	return nil
}

// GetLibrary returns the caller's full library view.
// GET /api/library
func (controller *LibraryController) GetLibrary(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"shelves":  sess.Shelves(),
		"books":    sess.Books(),
		"selected": selectionPayload(sess),
	})
}

// CreateShelf adds an empty shelf.
// POST /api/library/shelves
func (controller *LibraryController) CreateShelf(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	var req createShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	shelf, err := sess.CreateShelf(req.Title)
	if err != nil {
		respondLibraryError(c, err, "create shelf")
		return
	}
	respondCreated(c, shelf)
}

// DeleteShelf removes a shelf and every book on it.
// DELETE /api/library/shelves/:id
func (controller *LibraryController) DeleteShelf(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	if err := sess.RemoveShelf(c.Param("id")); err != nil {
		respondLibraryError(c, err, "delete shelf")
		return
	}
	respondSuccess(c, "shelf deleted")
}

// AddBook places a new book on a shelf.
// POST /api/library/books
func (controller *LibraryController) AddBook(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "shelf_id and record are required")
		return
	}
	book, err := sess.AddBook(req.Record, req.ShelfID)
	if err != nil {
		respondLibraryError(c, err, "add book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook replaces a book's record in place.
// PUT /api/library/books/:id
func (controller *LibraryController) UpdateBook(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	book, err := sess.UpdateBook(c.Param("id"), req.Record)
	if err != nil {
		respondLibraryError(c, err, "update book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// DeleteBook removes a book and its shelf membership.
// DELETE /api/library/books/:id
func (controller *LibraryController) DeleteBook(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	if err := sess.RemoveBook(c.Param("id")); err != nil {
		respondLibraryError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// SelectBook moves the selection cursor. Unknown ids leave the current
// selection untouched.
// POST /api/library/books/:id/select
func (controller *LibraryController) SelectBook(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	sess.SelectBook(c.Param("id"))
	c.IndentedJSON(http.StatusOK, gin.H{"selected": selectionPayload(sess)})
}

// GetSelection returns the currently selected book, if any.
// GET /api/library/selection
func (controller *LibraryController) GetSelection(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"selected": selectionPayload(sess)})
}

// ClearSelection drops the selection cursor.
// DELETE /api/library/selection
func (controller *LibraryController) ClearSelection(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	sess.ClearSelection()
	respondSuccess(c, "selection cleared")
}

// EnrichBook queues a background cover lookup for a book without one.
// POST /api/library/books/:id/enrich
func (controller *LibraryController) EnrichBook(c *gin.Context) {
	sess, ok := controller.session(c)
	if !ok {
		return
	}
	if controller.tasks == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue is not enabled"})
		return
	}

	bookID := c.Param("id")
	book, found := findBook(sess.Books(), bookID)
	if !found {
		respondNotFound(c, "book")
		return
	}
	if book.Data.Cover() != "" {
		respondSuccess(c, "book already has a cover")
		return
	}

	task := tasks.EnrichCoverTask{UserID: sess.UserID(), BookID: bookID}
	if _, err := controller.tasks.Add(task).Save(); err != nil {
		respondInternalError(c, err, "enqueue cover enrichment")
		return
	}
	respondAccepted(c, "cover enrichment queued", gin.H{"book_id": bookID})
}

func findBook(books []entities.Book, id string) (entities.Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return entities.Book{}, false
}

// RegisterRoutes attaches the library endpoints.
func (controller *LibraryController) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/library", controller.GetLibrary)
	router.POST("/api/library/shelves", controller.CreateShelf)
	router.DELETE("/api/library/shelves/:id", controller.DeleteShelf)
	router.POST("/api/library/books", controller.AddBook)
	router.PUT("/api/library/books/:id", controller.UpdateBook)
	router.DELETE("/api/library/books/:id", controller.DeleteBook)
	router.POST("/api/library/books/:id/select", controller.SelectBook)
	router.GET("/api/library/selection", controller.GetSelection)
	router.DELETE("/api/library/selection", controller.ClearSelection)
	router.POST("/api/library/books/:id/enrich", controller.EnrichBook)
}
