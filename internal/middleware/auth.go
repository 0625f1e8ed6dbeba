package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khetsetu/stubble-hub/internal/services"
)

type AuthMiddleware struct {
	tokenService *services.TokenService
	testMode     bool
}

func NewAuthMiddleware(tokenService *services.TokenService, testMode bool) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		testMode:     testMode,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.testMode {
			userIDStr := c.GetHeader("X-Test-User")
			role := c.GetHeader("X-Test-Role")
			if userIDStr == "" || role == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Test-User and X-Test-Role headers required in test mode"})
				c.Abort()
				return
			}
			userID, err := strconv.ParseUint(userIDStr, 10, 32)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Test-User must be numeric"})
				c.Abort()
				return
			}
			c.Set("user_id", uint(userID))
			c.Set("role", role)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// GetUserID returns the authenticated caller's id from the context.
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			return id
		}
	}
	return 0
}

func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
