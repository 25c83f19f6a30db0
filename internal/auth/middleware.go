package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// IdentityMiddleware resolves the cookie session to a (userID,
// authenticated) pair and injects it into the request context. It never
// rejects a request by itself; see RequireAuth.
func IdentityMiddleware(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := sm.UserID(c.Request); userID != "" {
			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyUsername, sm.GetString(c.Request.Context(), SessionKeyUsername))
		}
		c.Next()
	}
}

// RequireAuth aborts unauthenticated requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "" when anonymous.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetUsername returns the authenticated user's username, or "".
func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUsername); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
