package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/pkg/jwt"
	"github.com/bandhub/server/pkg/logger"
)

// Auth JWT authentication middleware. Validates the bearer token and
// stores user identity in the gin context for downstream handlers.
// WebSocket clients cannot set headers, so a "token" query parameter
// is accepted as a fallback.
func Auth(manager *jwt.Manager, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing authorization token",
				},
				"request_id": GetRequestID(c),
			})
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(tokenString)
		if err != nil {
			log.Warn("JWT validation failed",
				logger.String("request_id", GetRequestID(c)),
				logger.Error(err),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired token",
				},
				"request_id": GetRequestID(c),
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
