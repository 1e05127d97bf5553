package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/models"
	"service-marketplace-server/utils"
)

// AuthMiddleware validates JWT tokens and sets the actor's identity in the
// request context. The marketplace engine trusts whatever identity reaches
// it; this is the only place tokens are checked.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		c.Set("actor_id", claims.ActorID)
		c.Set("actor_name", claims.Name)
		c.Set("actor_role", claims.Role)
		c.Set("actor_email", claims.Email)
		c.Set("actor_phone", claims.Phone)

		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("actor_role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "Your role does not permit this operation",
		})
		c.Abort()
	}
}

// RequireAdmin is shorthand for the admin-only route groups
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// WebSocketAuthMiddleware validates JWT tokens from query parameters, since
// browser WebSocket clients cannot set an Authorization header
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Token required",
				"message": "Please provide a valid token in query parameters",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		c.Set("actor_id", claims.ActorID)
		c.Set("actor_name", claims.Name)
		c.Set("actor_role", claims.Role)

		c.Next()
	}
}
