package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/profile"
)

// ProfileController reads and updates the caller's profile document.
type ProfileController struct {
	profiles *profile.Service
}

func NewProfileController(profiles *profile.Service) *ProfileController {
	return &ProfileController{profiles: profiles}
}

type updateProfileRequest struct {
	Username    *string `json:"username"`
	AvatarType  *string `json:"avatarType"`
	AvatarImage *string `json:"avatarImage"`
	AvatarColor *string `json:"avatarColor"`
	IsPublic    *bool   `json:"isPublic"`
}

// Get returns the caller's profile.
// GET /api/profile
func (controller *ProfileController) Get(c *gin.Context) {
	summary, err := controller.profiles.Get(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "read profile")
		return
	}
	c.IndentedJSON(http.StatusOK, summary)
}

// Update applies a partial profile update; absent fields are untouched.
// PUT /api/profile
func (controller *ProfileController) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	userID := auth.GetUserID(c)
	params := profile.UpdateParams{
		Username:    req.Username,
		AvatarType:  req.AvatarType,
		AvatarImage: req.AvatarImage,
		AvatarColor: req.AvatarColor,
		IsPublic:    req.IsPublic,
	}
	if err := controller.profiles.Update(c.Request.Context(), userID, params); err != nil {
		respondInternalError(c, err, "update profile")
		return
	}

	summary, err := controller.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "read profile after update")
		return
	}
	c.IndentedJSON(http.StatusOK, summary)
}
