package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"guardian-chat/internal/auth"
	"guardian-chat/internal/models"
)

// AuthMiddleware validates the Authorization header and stores the caller's
// identity on the gin context.
func AuthMiddleware(validator *auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := validator.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireMonitor allows only monitoring roles through. Must run after
// AuthMiddleware.
func RequireMonitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != models.RoleParent && role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "monitor role required"})
			return
		}
		c.Next()
	}
}
