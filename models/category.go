package models

import (
	"strings"
	"time"
)

// ServiceCategory is static reference data maintained by administrators.
// The id is a slug derived from the name at creation time.
type ServiceCategory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(80)"`
	Name      string    `json:"name" gorm:"type:varchar(120);not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	Image     string    `json:"image" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategorySlug derives a category id from its display name ("Home Repairs" -> "home-repairs")
func CategorySlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ServiceCategoryCreate is the request body for creating a category
type ServiceCategoryCreate struct {
	Name    string `json:"name" binding:"required"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
}

// ServiceCategoryUpdate is the request body for updating a category
type ServiceCategoryUpdate struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
}
