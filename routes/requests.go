package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-marketplace-server/marketplace"
	"service-marketplace-server/middleware"
	"service-marketplace-server/models"
)

// RegisterRequestRoutes registers all service request routes
func RegisterRequestRoutes(rg *gin.RouterGroup, s *marketplace.MarketplaceStore) {
	store = s

	rg.POST("", createRequest)
	rg.GET("", listRequests)
	rg.GET("/:id", getRequest)

	rg.POST("/:id/offers", middleware.RequireRole(models.RoleProvider), submitOffer)
	rg.POST("/:id/offers/:offerId/respond", respondToOffer)
	rg.PUT("/:id/status", updateRequestStatus)

	// Admin assignment for private requests
	rg.POST("/:id/assign", middleware.RequireAdmin(), assignProvider)
}

// redactFor blanks requester contact details the actor is not allowed to see
func redactFor(req models.ServiceRequest, actorID, role string) models.ServiceRequest {
	if req.ContactVisibleTo(actorID, role) {
		return req
	}
	return req.Redacted()
}

// createRequest creates a new service request for the authenticated actor
func createRequest(c *gin.Context) {
	actorID := c.GetString("actor_id")
	actorName := c.GetString("actor_name")
	contact := models.Contact{
		Email: c.GetString("actor_email"),
		Phone: c.GetString("actor_phone"),
	}

	var input models.ServiceRequestCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := store.CreateRequest(input, actorID, actorName, contact)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Service request %s created by %s (%s)", request.ID, actorName, input.Type)

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Service request created successfully",
		"service_request": request,
	})
}

// listRequests returns the requests visible to the authenticated actor.
// Providers see public requests plus anything they are involved in; requesters
// and admins browse the full registry with optional type/status filters.
func listRequests(c *gin.Context) {
	actorID := c.GetString("actor_id")
	role := c.GetString("actor_role")

	var requests []models.ServiceRequest
	if role == models.RoleProvider {
		requests = store.ListRequestsForProvider(actorID)
	} else {
		filter := marketplace.RequestFilter{
			Type:   models.ServiceRequestType(c.Query("type")),
			Status: models.ServiceRequestStatus(c.Query("status")),
		}
		if c.Query("mine") == "true" || role == models.RoleRequester {
			filter.RequesterID = actorID
		}
		requests = store.ListRequests(filter)
	}

	out := make([]models.ServiceRequest, 0, len(requests))
	for _, req := range requests {
		out = append(out, redactFor(req, actorID, role))
	}

	c.JSON(http.StatusOK, gin.H{
		"service_requests": out,
		"total_count":      len(out),
	})
}

// getRequest returns a single request with contact details redacted unless
// the actor is the requester, an admin, or the assigned provider after release
func getRequest(c *gin.Context) {
	actorID := c.GetString("actor_id")
	role := c.GetString("actor_role")

	request, err := store.GetRequest(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_request": redactFor(request, actorID, role),
	})
}

// submitOffer lets a provider bid on a request
func submitOffer(c *gin.Context) {
	providerID := c.GetString("actor_id")
	requestID := c.Param("id")

	var input models.ServiceOfferCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := store.SubmitOffer(requestID, providerID, input.Message, input.Price)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Provider %s submitted an offer on request %s", providerID, requestID)

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Offer submitted successfully",
		"service_request": redactFor(request, providerID, models.RoleProvider),
		"request_status":  request.Status,
	})
}

// respondToOffer applies the requester's accept or reject decision
func respondToOffer(c *gin.Context) {
	actorID := c.GetString("actor_id")
	role := c.GetString("actor_role")
	requestID := c.Param("id")
	offerID := c.Param("offerId")

	var input models.OfferDecisionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := store.GetRequest(requestID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if role != models.RoleAdmin && current.RequesterID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester can decide on offers"})
		return
	}

	request, err := store.RespondToOffer(requestID, offerID, input.Decision)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Offer %s on request %s: %s", offerID, requestID, input.Decision)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Decision applied successfully",
		"service_request": redactFor(request, actorID, role),
		"request_status":  request.Status,
	})
}

// updateRequestStatus performs a manual status transition
func updateRequestStatus(c *gin.Context) {
	actorID := c.GetString("actor_id")
	role := c.GetString("actor_role")
	requestID := c.Param("id")

	var input models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := store.GetRequest(requestID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if role != models.RoleAdmin && current.RequesterID != actorID && !involvedProvider(current, actorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	request, err := store.UpdateStatus(requestID, input.Status, input.Note)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Request %s moved to %s by %s", requestID, input.Status, actorID)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Status updated",
		"service_request": redactFor(request, actorID, role),
		"request_status":  request.Status,
	})
}

// assignProvider is the admin path for staffing private requests
func assignProvider(c *gin.Context) {
	requestID := c.Param("id")

	var input models.AssignProviderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := store.AssignProvider(requestID, input.ProviderID, input.Note)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Provider %s assigned to request %s", input.ProviderID, requestID)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Provider assigned",
		"service_request": request,
		"request_status":  request.Status,
	})
}

func involvedProvider(req models.ServiceRequest, actorID string) bool {
	if req.AssignedProviderID != nil && *req.AssignedProviderID == actorID {
		return true
	}
	if req.DirectProviderID != nil && *req.DirectProviderID == actorID {
		return true
	}
	for _, offer := range req.Offers {
		if offer.ProviderID == actorID {
			return true
		}
	}
	return false
}
