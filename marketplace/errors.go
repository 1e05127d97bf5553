package marketplace

import "errors"

// Sentinel errors returned by store operations. Handlers map these onto HTTP
// status codes with errors.Is.
var (
	ErrRequestNotFound      = errors.New("service request not found")
	ErrOfferNotFound        = errors.New("offer not found for request")
	ErrProviderNotFound     = errors.New("provider not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCategoryExists       = errors.New("category already exists")
	ErrOfferAlreadyAccepted = errors.New("request already has an accepted offer")
	ErrManualAcceptance     = errors.New("accepted status can only be reached through offer acceptance or assignment")
)
