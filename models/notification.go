package models

import (
	"time"
)

// NotificationAudience identifies who a notification record targets
type NotificationAudience string

const (
	AudienceRequester NotificationAudience = "requester"
	AudienceProvider  NotificationAudience = "provider"
	AudienceAdmin     NotificationAudience = "admin"
)

// ServiceNotification is a derived output record created by every mutating
// marketplace operation. The engine never reads notifications back into its
// decision logic; an external dispatcher is responsible for delivery.
type ServiceNotification struct {
	ID               string               `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Audience         NotificationAudience `json:"audience" gorm:"type:varchar(10);not null;index"`
	Message          string               `json:"message" gorm:"type:text;not null"`
	RelatedRequestID string               `json:"related_request_id" gorm:"type:varchar(40);index"`
	Read             bool                 `json:"read" gorm:"not null;default:false"`
	Timestamp        time.Time            `json:"timestamp" gorm:"not null"`
}
