package models

import (
	"time"
)

// ServiceRequestType controls visibility and the initial status of a request
type ServiceRequestType string

const (
	RequestTypePublic  ServiceRequestType = "public"
	RequestTypePrivate ServiceRequestType = "private"
	RequestTypeDirect  ServiceRequestType = "direct"
)

// ServiceRequestStatus represents the current lifecycle state of a request
type ServiceRequestStatus string

const (
	StatusOpen             ServiceRequestStatus = "Open"
	StatusAwaitingApproval ServiceRequestStatus = "AwaitingApproval"
	StatusAccepted         ServiceRequestStatus = "Accepted"
	StatusInProgress       ServiceRequestStatus = "InProgress"
	StatusCompleted        ServiceRequestStatus = "Completed"
	StatusCancelled        ServiceRequestStatus = "Cancelled"
)

// ValidStatus reports whether s is one of the known lifecycle states
func ValidStatus(s ServiceRequestStatus) bool {
	switch s {
	case StatusOpen, StatusAwaitingApproval, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OfferStatus represents the acceptance state of a single provider offer
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Contact holds reachable details for a requester or provider
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ServiceRequest is the central marketplace entity
type ServiceRequest struct {
	ID                 string               `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Type               ServiceRequestType   `json:"type" gorm:"type:varchar(10);not null"`
	CategoryID         string               `json:"category_id" gorm:"type:varchar(80);not null"`
	Title              string               `json:"title" gorm:"type:varchar(200);not null"`
	Description        string               `json:"description" gorm:"type:text;not null"`
	Location           string               `json:"location" gorm:"type:varchar(200)"`
	PriceOffer         *float64             `json:"price_offer" gorm:"type:decimal(12,2)"`
	RequesterID        string               `json:"requester_id" gorm:"type:varchar(80);not null"`
	RequesterName      string               `json:"requester_name" gorm:"type:varchar(120);not null"`
	RequesterContact   Contact              `json:"requester_contact" gorm:"embedded;embeddedPrefix:requester_"`
	Status             ServiceRequestStatus `json:"status" gorm:"type:varchar(20);not null"`
	AssignedProviderID *string              `json:"assigned_provider_id" gorm:"type:varchar(40)"`
	DirectProviderID   *string              `json:"direct_provider_id" gorm:"type:varchar(40)"`
	ContactReleased    bool                 `json:"contact_released" gorm:"not null;default:false"`
	Offers             []ServiceOffer       `json:"offers" gorm:"foreignKey:RequestID;references:ID"`
	Timeline           []TimelineEntry      `json:"timeline" gorm:"foreignKey:RequestID;references:ID"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ServiceOffer is a provider's bid on a request. Offers are never deleted;
// their status is the only mutable field.
type ServiceOffer struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(40)"`
	RequestID  string      `json:"request_id" gorm:"type:varchar(40);not null;index"`
	ProviderID string      `json:"provider_id" gorm:"type:varchar(40);not null"`
	Message    string      `json:"message" gorm:"type:text"`
	Price      float64     `json:"price" gorm:"type:decimal(12,2)"`
	Status     OfferStatus `json:"status" gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TimelineEntry is one append-only audit record of a status change
type TimelineEntry struct {
	ID        uint                 `json:"-" gorm:"primaryKey"`
	RequestID string               `json:"-" gorm:"type:varchar(40);not null;index"`
	Status    ServiceRequestStatus `json:"status" gorm:"type:varchar(20);not null"`
	Timestamp time.Time            `json:"timestamp" gorm:"not null"`
	Note      string               `json:"note" gorm:"type:text"`
}

// ContactVisibleTo reports whether the requester's contact details may be
// shown to the given actor. Contact is released to the assigned provider only
// after an offer acceptance; the requester and admins always see it.
func (r *ServiceRequest) ContactVisibleTo(actorID, role string) bool {
	if role == RoleAdmin || actorID == r.RequesterID {
		return true
	}
	return r.ContactReleased && r.AssignedProviderID != nil && *r.AssignedProviderID == actorID
}

// Redacted returns a copy of the request with the requester's contact blanked
func (r *ServiceRequest) Redacted() ServiceRequest {
	clone := *r
	clone.RequesterContact = Contact{}
	return clone
}

// ServiceRequestCreate is the request body for creating a service request
type ServiceRequestCreate struct {
	Type             ServiceRequestType `json:"type" binding:"required,oneof=public private direct"`
	CategoryID       string             `json:"category_id" binding:"required"`
	Title            string             `json:"title" binding:"required"`
	Description      string             `json:"description" binding:"required"`
	Location         string             `json:"location"`
	PriceOffer       *float64           `json:"price_offer"`
	DirectProviderID string             `json:"direct_provider_id"`
}

// ServiceOfferCreate is the request body for submitting an offer
type ServiceOfferCreate struct {
	Message string  `json:"message"`
	Price   float64 `json:"price" binding:"required"`
}

// OfferDecisionRequest is the request body for accepting or rejecting an offer
type OfferDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
}

// StatusUpdateRequest is the request body for a manual status transition
type StatusUpdateRequest struct {
	Status ServiceRequestStatus `json:"status" binding:"required"`
	Note   string               `json:"note"`
}

// AssignProviderRequest is the request body for an admin assignment
type AssignProviderRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
	Note       string `json:"note"`
}
