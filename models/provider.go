package models

import (
	"time"

	"github.com/lib/pq"
)

// Actor roles carried in JWT claims and trusted by the engine as-is
const (
	RoleRequester = "requester"
	RoleProvider  = "provider"
	RoleAdmin     = "admin"
)

// ServiceProvider is a business offering services in one or more categories.
// Provider records are admin/self-managed; the engine only reads provider
// identity to resolve offers and assignments.
type ServiceProvider struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Name          string         `json:"name" gorm:"type:varchar(120);not null"`
	Bio           string         `json:"bio" gorm:"type:text"`
	Location      string         `json:"location" gorm:"type:varchar(200)"`
	Avatar        string         `json:"avatar" gorm:"type:varchar(255)"`
	Rating        float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	JobsCompleted int            `json:"jobs_completed" gorm:"default:0"`
	Contact       Contact        `json:"contact" gorm:"embedded;embeddedPrefix:contact_"`
	Services      pq.StringArray `json:"services" gorm:"type:text[]"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ServicesCategory reports whether the provider lists the given category id
func (p *ServiceProvider) ServicesCategory(categoryID string) bool {
	for _, id := range p.Services {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ServiceProviderCreate is the request body for registering a provider
type ServiceProviderCreate struct {
	Name     string   `json:"name" binding:"required"`
	Bio      string   `json:"bio"`
	Location string   `json:"location"`
	Avatar   string   `json:"avatar"`
	Email    string   `json:"email" binding:"required,email"`
	Phone    string   `json:"phone"`
	Services []string `json:"services"`
}

// ServiceProviderUpdate is the request body for updating a provider profile
type ServiceProviderUpdate struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
