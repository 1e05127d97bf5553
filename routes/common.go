package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/marketplace"
)

// store is the shared marketplace engine, injected by the Register functions
var store *marketplace.MarketplaceStore

// respondStoreError maps store sentinel errors onto HTTP status codes
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marketplace.ErrRequestNotFound),
		errors.Is(err, marketplace.ErrOfferNotFound),
		errors.Is(err, marketplace.ErrProviderNotFound),
		errors.Is(err, marketplace.ErrCategoryNotFound),
		errors.Is(err, marketplace.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, marketplace.ErrCategoryExists),
		errors.Is(err, marketplace.ErrOfferAlreadyAccepted),
		errors.Is(err, marketplace.ErrManualAcceptance):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, marketplace.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
