package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/marketplace"
	"service-marketplace-server/middleware"
	"service-marketplace-server/models"
)

// RegisterProviderRoutes registers provider directory routes. Reads are
// public; provider contact is a business detail, not gated PII.
func RegisterProviderRoutes(rg *gin.RouterGroup, s *marketplace.MarketplaceStore) {
	store = s

	rg.GET("", listProviders)
	rg.GET("/:id", getProvider)
	rg.POST("", middleware.AuthMiddleware(), middleware.RequireAdmin(), createProvider)
	rg.PUT("/:id", middleware.AuthMiddleware(), updateProvider)

	// Category membership management
	rg.POST("/:id/categories/:categoryId", middleware.AuthMiddleware(), middleware.RequireAdmin(), addProviderCategory)
	rg.DELETE("/:id/categories/:categoryId", middleware.AuthMiddleware(), middleware.RequireAdmin(), removeProviderCategory)
}

// listProviders returns all providers, optionally filtered to one category
func listProviders(c *gin.Context) {
	providers := store.ListProviders(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"providers":   providers,
		"total_count": len(providers),
	})
}

func getProvider(c *gin.Context) {
	provider, err := store.GetProvider(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": provider})
}

func createProvider(c *gin.Context) {
	var input models.ServiceProviderCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider, err := store.CreateProvider(input)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Provider %s registered: %s", provider.ID, provider.Name)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Provider registered successfully",
		"provider": provider,
	})
}

// updateProvider lets a provider edit its own profile; admins can edit anyone
func updateProvider(c *gin.Context) {
	actorID := c.GetString("actor_id")
	role := c.GetString("actor_role")
	providerID := c.Param("id")

	if role != models.RoleAdmin && actorID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var input models.ServiceProviderUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider, err := store.UpdateProvider(providerID, input)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider updated",
		"provider": provider,
	})
}

func addProviderCategory(c *gin.Context) {
	provider, err := store.AssignProviderToCategory(c.Param("id"), c.Param("categoryId"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider added to category",
		"provider": provider,
	})
}

func removeProviderCategory(c *gin.Context) {
	provider, err := store.RemoveProviderFromCategory(c.Param("id"), c.Param("categoryId"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider removed from category",
		"provider": provider,
	})
}
