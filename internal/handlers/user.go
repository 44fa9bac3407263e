package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camphub/campus-events-api/internal/dto"
	apierrors "github.com/camphub/campus-events-api/internal/errors"
	"github.com/camphub/campus-events-api/internal/logger"
	"github.com/camphub/campus-events-api/internal/middleware"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/services"
	"github.com/camphub/campus-events-api/internal/validation"
)

// UserHandler coordinates profile and administrative user HTTP handlers.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		Username     *string  `json:"username"`
		Preferences  []string `json:"preferences"`
		ProfileImage *string  `json:"profile_image"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Username:     req.Username,
		Preferences:  req.Preferences,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdatePassword changes the authenticated user's password after re-verifying
// the current one.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdatePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.BadRequest(c, "Current password is incorrect")
			return
		}
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}

// RegisteredEvents returns the events the authenticated user has RSVP'd to.
func (h *UserHandler) RegisteredEvents(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	events, err := h.userService.ListRegisteredEvents(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	result := make([]dto.EventDTO, len(events))
	for i, event := range events {
		result[i] = dto.ToEventDTO(event)
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePreferences replaces the authenticated user's preference list.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdatePreferencesRequest struct {
		Preferences []string `json:"preferences" binding:"required"`
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Preferences must be an array")
		return
	}

	user, err := h.userService.UpdatePreferences(userID, req.Preferences)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// List returns all users. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateStatus sets a user's account status. Admin only.
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "User not found")
		return
	}

	type UpdateStatusRequest struct {
		Status models.UserStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateStatus(targetID, req.Status)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func respondUserError(c *gin.Context, err error) {
	var fields validation.FieldErrors

	switch {
	case errors.As(err, &fields):
		apierrors.ValidationFailed(c, fields)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrDuplicateUsername):
		apierrors.BadRequest(c, "Username already exists")
	case errors.Is(err, services.ErrInvalidUserStatus):
		apierrors.BadRequest(c, "Invalid user status")
	case errors.Is(err, services.ErrInvalidPreference):
		apierrors.BadRequest(c, "Invalid preference category")
	default:
		logger.Error("user request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
