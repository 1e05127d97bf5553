package marketplace

import (
	"fmt"
	"strings"

	"service-marketplace-server/models"
)

// CreateRequest registers a new service request for the given requester.
// The request type fixes the initial status: public and private requests
// start Open, direct requests start AwaitingApproval with an implicit pending
// offer from the targeted provider so that the provider's confirmation flows
// through RespondToOffer like every other acceptance.
func (s *MarketplaceStore) CreateRequest(input models.ServiceRequestCreate, requesterID, requesterName string, contact models.Contact) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(input.Title) == "" {
		return models.ServiceRequest{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.ServiceRequest{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	switch input.Type {
	case models.RequestTypePublic, models.RequestTypePrivate:
	case models.RequestTypeDirect:
		if input.DirectProviderID == "" {
			return models.ServiceRequest{}, fmt.Errorf("%w: direct requests need a direct_provider_id", ErrInvalidInput)
		}
	default:
		return models.ServiceRequest{}, fmt.Errorf("%w: unknown request type %q", ErrInvalidInput, input.Type)
	}
	if _, ok := s.categories[input.CategoryID]; !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, input.CategoryID)
	}

	req := &models.ServiceRequest{
		ID:               s.newRequestID(),
		Type:             input.Type,
		CategoryID:       input.CategoryID,
		Title:            input.Title,
		Description:      input.Description,
		Location:         input.Location,
		PriceOffer:       input.PriceOffer,
		RequesterID:      requesterID,
		RequesterName:    requesterName,
		RequesterContact: contact,
		CreatedAt:        s.now(),
		UpdatedAt:        s.now(),
	}

	switch input.Type {
	case models.RequestTypePublic:
		s.appendTimeline(req, models.StatusOpen, "Request posted")
		s.emit(models.AudienceProvider, fmt.Sprintf("%s is now open for offers", req.Title), req.ID)
	case models.RequestTypePrivate:
		s.appendTimeline(req, models.StatusOpen, "Admin notified about new request")
		s.emit(models.AudienceAdmin, fmt.Sprintf("%s requires an assignment", req.Title), req.ID)
	case models.RequestTypeDirect:
		provider, ok := s.providers[input.DirectProviderID]
		if !ok {
			return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrProviderNotFound, input.DirectProviderID)
		}
		directID := provider.ID
		req.DirectProviderID = &directID
		req.Offers = append(req.Offers, models.ServiceOffer{
			ID:         s.newOfferID(),
			RequestID:  req.ID,
			ProviderID: provider.ID,
			Message:    "Direct booking request",
			Price:      priceOrZero(req.PriceOffer),
			Status:     models.OfferPending,
			CreatedAt:  s.now(),
		})
		s.appendTimeline(req, models.StatusAwaitingApproval, "Awaiting provider response")
		s.emit(models.AudienceProvider, "Direct request sent to provider", req.ID)
	}

	s.requests[req.ID] = req
	s.requestOrder = append(s.requestOrder, req.ID)
	s.persistRequest(req)

	return cloneRequest(req), nil
}

// SubmitOffer appends a pending offer from a provider. Repeat offers from the
// same provider are allowed; a provider can revise by submitting again. The
// first offer on an Open request moves it to AwaitingApproval.
func (s *MarketplaceStore) SubmitOffer(requestID, providerID, message string, price float64) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	req.Offers = append(req.Offers, models.ServiceOffer{
		ID:         s.newOfferID(),
		RequestID:  req.ID,
		ProviderID: providerID,
		Message:    message,
		Price:      price,
		Status:     models.OfferPending,
		CreatedAt:  s.now(),
	})
	if req.Status == models.StatusOpen {
		s.appendTimeline(req, models.StatusAwaitingApproval, "Collecting offers from providers")
	}
	req.UpdatedAt = s.now()
	s.persistRequest(req)

	s.emit(models.AudienceRequester, fmt.Sprintf("%s sent an offer", provider.Name), req.ID)

	return cloneRequest(req), nil
}

// RespondToOffer applies the requester's decision on a single offer.
//
// Rejecting flips only the targeted offer and is idempotent. Accepting is the
// one code path that releases contact details: the targeted offer becomes
// accepted, every other offer is rejected, the provider is assigned, and the
// request moves to Accepted.
func (s *MarketplaceStore) RespondToOffer(requestID, offerID, decision string) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if decision != "accept" && decision != "reject" {
		return models.ServiceRequest{}, fmt.Errorf("%w: decision must be accept or reject", ErrInvalidInput)
	}
	req, ok := s.requests[requestID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	offer := findOffer(req, offerID)
	if offer == nil {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s on request %s", ErrOfferNotFound, offerID, requestID)
	}

	if decision == "reject" {
		if offer.Status == models.OfferAccepted {
			return models.ServiceRequest{}, fmt.Errorf("%w: offer %s was already accepted", ErrOfferAlreadyAccepted, offerID)
		}
		offer.Status = models.OfferRejected
		req.UpdatedAt = s.now()
		s.persistRequest(req)
		s.emit(models.AudienceProvider, "Your offer was rejected", req.ID)
		return cloneRequest(req), nil
	}

	for i := range req.Offers {
		if req.Offers[i].Status == models.OfferAccepted && req.Offers[i].ID != offerID {
			return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrOfferAlreadyAccepted, req.Offers[i].ID)
		}
	}

	offer.Status = models.OfferAccepted
	for i := range req.Offers {
		if req.Offers[i].ID != offerID {
			req.Offers[i].Status = models.OfferRejected
		}
	}
	assignedID := offer.ProviderID
	req.AssignedProviderID = &assignedID
	req.ContactReleased = true
	s.appendTimeline(req, models.StatusAccepted, "Requester selected a helper")
	req.UpdatedAt = s.now()
	s.persistRequest(req)

	s.emit(models.AudienceProvider, "Your offer was accepted!", req.ID)
	s.emit(models.AudienceRequester, "Contact details shared with your selected helper", req.ID)

	return cloneRequest(req), nil
}

// UpdateStatus performs a manual status transition. The transition model is
// deliberately permissive (any authorized caller may move a request to any
// state, including Open -> Cancelled) with a single structural exception:
// Accepted is reserved for the offer-acceptance path, because only that path
// assigns a provider and releases contact details.
func (s *MarketplaceStore) UpdateStatus(requestID string, status models.ServiceRequestStatus, note string) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidStatus(status) {
		return models.ServiceRequest{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if status == models.StatusAccepted {
		return models.ServiceRequest{}, ErrManualAcceptance
	}
	req, ok := s.requests[requestID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}

	s.appendTimeline(req, status, note)
	req.UpdatedAt = s.now()
	s.persistRequest(req)

	if status == models.StatusCompleted && req.AssignedProviderID != nil {
		if provider, ok := s.providers[*req.AssignedProviderID]; ok {
			provider.JobsCompleted++
			s.persistProvider(provider)
		}
	}

	s.emit(models.AudienceRequester, fmt.Sprintf("%s update shared", status), req.ID)

	return cloneRequest(req), nil
}

// AssignProvider is the admin path for private requests: it pre-selects a
// provider without going through public offers. The provider still has to
// confirm via RespondToOffer, so contact details are NOT released here.
func (s *MarketplaceStore) AssignProvider(requestID, providerID, note string) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	assignedID := provider.ID
	req.AssignedProviderID = &assignedID
	req.Offers = append(req.Offers, models.ServiceOffer{
		ID:         s.newOfferID(),
		RequestID:  req.ID,
		ProviderID: provider.ID,
		Message:    "Admin assigned you to this request",
		Price:      priceOrZero(req.PriceOffer),
		Status:     models.OfferPending,
		CreatedAt:  s.now(),
	})
	if note == "" {
		note = "Waiting for provider confirmation"
	}
	s.appendTimeline(req, models.StatusAwaitingApproval, note)
	req.UpdatedAt = s.now()
	s.persistRequest(req)

	s.emit(models.AudienceProvider, "An admin assigned you to a private request", req.ID)

	return cloneRequest(req), nil
}

// GetRequest returns a copy of the request with the given id
func (s *MarketplaceStore) GetRequest(requestID string) (models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return models.ServiceRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	return cloneRequest(req), nil
}

// RequestFilter narrows ListRequests results; zero fields match everything
type RequestFilter struct {
	Type        models.ServiceRequestType
	Status      models.ServiceRequestStatus
	RequesterID string
}

// ListRequests returns requests in creation order, optionally filtered
func (s *MarketplaceStore) ListRequests(filter RequestFilter) []models.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServiceRequest
	for _, id := range s.requestOrder {
		req := s.requests[id]
		if filter.Type != "" && req.Type != filter.Type {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out
}

// ListRequestsForProvider returns the requests a provider may browse: every
// public request, plus any request the provider is involved in through an
// offer, a direct targeting, or an assignment. Private requests stay hidden
// until an admin assignment pulls the provider in.
func (s *MarketplaceStore) ListRequestsForProvider(providerID string) []models.ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServiceRequest
	for _, id := range s.requestOrder {
		req := s.requests[id]
		if providerInvolved(req, providerID) || req.Type == models.RequestTypePublic {
			out = append(out, cloneRequest(req))
		}
	}
	return out
}

func providerInvolved(req *models.ServiceRequest, providerID string) bool {
	if req.AssignedProviderID != nil && *req.AssignedProviderID == providerID {
		return true
	}
	if req.DirectProviderID != nil && *req.DirectProviderID == providerID {
		return true
	}
	for _, offer := range req.Offers {
		if offer.ProviderID == providerID {
			return true
		}
	}
	return false
}

func findOffer(req *models.ServiceRequest, offerID string) *models.ServiceOffer {
	for i := range req.Offers {
		if req.Offers[i].ID == offerID {
			return &req.Offers[i]
		}
	}
	return nil
}

func priceOrZero(price *float64) float64 {
	if price == nil {
		return 0
	}
	return *price
}
