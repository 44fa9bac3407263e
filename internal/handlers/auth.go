package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/dto"
	apierrors "github.com/camphub/campus-events-api/internal/errors"
	"github.com/camphub/campus-events-api/internal/logger"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/services"
	"github.com/camphub/campus-events-api/internal/validation"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string          `json:"username" binding:"required"`
		Email    string          `json:"email" binding:"required"`
		Password string          `json:"password" binding:"required"`
		Role     models.UserRole `json:"role"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(*user, pair))
}

// Login authenticates a user and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(*user, pair))
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unauthorized(c, "Refresh token required")
		return
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid refresh token")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RequestPasswordReset issues a reset token. The response is identical
// whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	type ResetRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		logger.Error("password reset request failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If a user with this email exists, a password reset link will be sent.",
	})
}

// ResetPassword consumes a reset token and sets the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(c.Param("token"), req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful",
	})
}

// Logout is a stateless no-op: tokens stay valid until expiry and the client
// discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func respondAuthError(c *gin.Context, err error) {
	var fields validation.FieldErrors

	switch {
	case errors.As(err, &fields):
		apierrors.ValidationFailed(c, fields)
	case errors.Is(err, services.ErrDuplicateEmail):
		apierrors.BadRequest(c, "Email already registered")
	case errors.Is(err, services.ErrDuplicateUsername):
		apierrors.BadRequest(c, "Username already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, "Invalid or expired password reset token")
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenInvalid):
		apierrors.Unauthorized(c, "Invalid token")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		logger.Error("auth request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
