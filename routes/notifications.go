package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/marketplace"
	"service-marketplace-server/models"
)

// RegisterNotificationRoutes registers notification feed routes. Each actor
// reads the feed for its own role's audience.
func RegisterNotificationRoutes(rg *gin.RouterGroup, s *marketplace.MarketplaceStore) {
	store = s

	rg.GET("", listNotifications)
	rg.GET("/unread-count", unreadCount)
	rg.POST("/mark-read/:id", markNotificationRead)
	rg.POST("/mark-all-read", markAllNotificationsRead)
}

// actorAudience maps the actor's role onto the notification audience it
// reads. Admins may inspect any audience via the query parameter.
func actorAudience(c *gin.Context) models.NotificationAudience {
	switch c.GetString("actor_role") {
	case models.RoleProvider:
		return models.AudienceProvider
	case models.RoleAdmin:
		if audience := c.Query("audience"); audience != "" {
			return models.NotificationAudience(audience)
		}
		return models.AudienceAdmin
	default:
		return models.AudienceRequester
	}
}

func listNotifications(c *gin.Context) {
	notifications := store.ListNotifications(actorAudience(c))
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total_count":   len(notifications),
	})
}

func unreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"unread_count": store.UnreadCount(actorAudience(c)),
	})
}

func markNotificationRead(c *gin.Context) {
	if err := store.MarkNotificationRead(c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	count := store.MarkAllNotificationsRead(actorAudience(c))
	c.JSON(http.StatusOK, gin.H{
		"message":      "All notifications marked as read",
		"marked_count": count,
	})
}
