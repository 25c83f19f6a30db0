package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfileBootstrapper creates the profile document for a new account.
type ProfileBootstrapper interface {
	Bootstrap(ctx context.Context, userID, username string) error
}

// Controller handles the register/login/logout endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	profiles       ProfileBootstrapper
	onSignOut      func(userID string)
}

// NewController creates an auth controller. onSignOut, if non-nil, is
// invoked after a successful logout so the caller can tear down the
// user's library session.
func NewController(service *Service, sm *SessionManager, profiles ProfileBootstrapper, onSignOut func(userID string)) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sm,
		profiles:       profiles,
		onSignOut:      onSignOut,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Register creates an account, bootstraps its profile document and signs
// the new user in.
// POST /api/auth/register
func (ac *Controller) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := ac.service.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUserExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if ac.profiles != nil {
		if err := ac.profiles.Bootstrap(c.Request.Context(), user.UserID, user.Username); err != nil {
			log.Printf("auth: profile bootstrap for %s failed: %v", user.UserID, err)
		}
	}

	if err := ac.sessionManager.SignIn(c.Request, user.UserID, user.Username); err != nil {
		log.Printf("auth: session creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{UserID: user.UserID, Username: user.Username})
}

// Login authenticates by username or email.
// POST /api/auth/login
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login and password are required"})
		return
	}

	user, err := ac.service.Authenticate(req.Login, req.Password)
	if err != nil {
		// Uniform message; do not reveal whether the account exists.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := ac.sessionManager.SignIn(c.Request, user.UserID, user.Username); err != nil {
		log.Printf("auth: session creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{UserID: user.UserID, Username: user.Username})
}

// Logout destroys the cookie session and tears down the library session.
// POST /api/auth/logout
func (ac *Controller) Logout(c *gin.Context) {
	userID := GetUserID(c)

	if err := ac.sessionManager.SignOut(c.Request); err != nil {
		log.Printf("auth: session destroy failed: %v", err)
	}
	if userID != "" && ac.onSignOut != nil {
		ac.onSignOut(userID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// RegisterRoutes attaches the auth endpoints.
func (ac *Controller) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/auth/register", ac.Register)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
}
