package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/library"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 without exposing it.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response, used for async work.
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// respondLibraryError maps the library error taxonomy onto HTTP statuses.
func respondLibraryError(c *gin.Context, err error, context string) {
	var validation *library.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: gin.H{"field": validation.Field, "reason": validation.Reason},
		})
		return
	}
	var invalidState *library.InvalidStateError
	if errors.As(err, &invalidState) {
		respondNotFound(c, invalidState.Kind)
		return
	}
	var remote *library.RemoteUnavailableError
	if errors.As(err, &remote) {
		log.Printf("Remote store error (%s): %v", context, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "document store unavailable"})
		return
	}
	if errors.Is(err, library.ErrNotReady) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "library session is not ready"})
		return
	}
	respondInternalError(c, err, context)
}
