package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/constants"
	apierrors "github.com/camphub/campus-events-api/internal/errors"
	"github.com/camphub/campus-events-api/internal/models"
)

// RequireAuth verifies the bearer token and attaches the authenticated
// identity to the request context.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "Token is missing")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apierrors.Unauthorized(c, "Token has expired")
			} else {
				apierrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects non-admin identities. It always runs after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetUserRole(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			apierrors.Forbidden(c, "Access denied. Admin privileges required.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	userID, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return userID, true
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}

	role, ok := value.(models.UserRole)
	if !ok {
		return "", false
	}
	return role, true
}
