package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/constants"
	apierrors "github.com/kawasemi/task-tracker-api/internal/errors"
	"github.com/kawasemi/task-tracker-api/internal/services"
)

// RequireAuth authenticates the request via the Authorization header.
// The header must carry a bearer token issued by the token service;
// anything else ends the request with 401.
func RequireAuth(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "Authentication token is missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.Unauthorized(c, "Invalid token format")
			c.Abort()
			return
		}

		userID, err := tokenService.ValidateToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
