package jobs

import (
	"log"
	"time"

	"service-marketplace-server/config"
	"service-marketplace-server/marketplace"
)

// StartNotificationRetentionJob prunes read notifications older than the
// configured retention window. Runs once at startup, then hourly.
func StartNotificationRetentionJob(store *marketplace.MarketplaceStore) {
	go func() {
		pruneNotifications(store)

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			pruneNotifications(store)
		}
	}()

	log.Println("🕐 Notification retention job started (runs every hour)")
}

func pruneNotifications(store *marketplace.MarketplaceStore) {
	days := config.AppConfig.Retention.NotificationDays
	if days <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	if count := store.PruneNotifications(cutoff); count > 0 {
		log.Printf("🧹 Pruned %d read notifications older than %d days", count, days)
	}
}
