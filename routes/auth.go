package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/config"
	"service-marketplace-server/models"
	"service-marketplace-server/utils"
)

// TokenRequest is the request body for issuing an access token
type TokenRequest struct {
	ActorID  string `json:"actor_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=requester provider admin"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	AdminKey string `json:"admin_key"`
}

// RegisterAuthRoutes registers the token endpoint. There is no account store;
// identity comes from the upstream app and is signed into a JWT here. Admin
// tokens additionally require the deployment's admin key.
func RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/token", issueToken)
}

func issueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == models.RoleAdmin {
		hash := config.AppConfig.Admin.KeyHash
		if hash == "" || !utils.CheckAdminKey(req.AdminKey, hash) {
			log.Printf("🚫 Rejected admin token request for %s", req.ActorID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
			return
		}
	}

	token, err := utils.GenerateToken(req.ActorID, req.Name, req.Role, req.Email, req.Phone)
	if err != nil {
		log.Printf("❌ Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"actor_id":     req.ActorID,
		"role":         req.Role,
		"expiry_hours": config.AppConfig.JWT.ExpiryHours,
	})
}
