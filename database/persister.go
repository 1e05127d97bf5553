package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"service-marketplace-server/models"
)

// GormPersister writes marketplace mutations through to Postgres. It
// implements marketplace.Persister; the in-memory store stays the source of
// truth for the running process, this keeps the rows in sync for restarts.
type GormPersister struct {
	db *gorm.DB
}

// NewGormPersister creates a persister bound to the given connection
func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

// SaveRequest upserts a request together with its offers and timeline.
// Timeline rows are append-only so existing ids are left untouched.
func (p *GormPersister) SaveRequest(req *models.ServiceRequest) error {
	return p.db.Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(req).Error
}

// SaveCategory upserts a category row
func (p *GormPersister) SaveCategory(cat *models.ServiceCategory) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Save(cat).Error
}

// DeleteCategory removes a category row
func (p *GormPersister) DeleteCategory(id string) error {
	return p.db.Delete(&models.ServiceCategory{}, "id = ?", id).Error
}

// SaveProvider upserts a provider row
func (p *GormPersister) SaveProvider(provider *models.ServiceProvider) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Save(provider).Error
}

// SaveNotification upserts a notification record
func (p *GormPersister) SaveNotification(n *models.ServiceNotification) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Save(n).Error
}

// DeleteNotifications removes pruned notification rows
func (p *GormPersister) DeleteNotifications(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return p.db.Delete(&models.ServiceNotification{}, "id IN ?", ids).Error
}
