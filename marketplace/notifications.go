package marketplace

import (
	"fmt"
	"log"
	"time"

	"service-marketplace-server/models"
)

// ListNotifications returns emitted notifications in emission order,
// optionally filtered by audience
func (s *MarketplaceStore) ListNotifications(audience models.NotificationAudience) []models.ServiceNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServiceNotification
	for _, n := range s.notifications {
		if audience != "" && n.Audience != audience {
			continue
		}
		out = append(out, *n)
	}
	return out
}

// UnreadCount returns the number of unread notifications for an audience
func (s *MarketplaceStore) UnreadCount(audience models.NotificationAudience) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if audience != "" && n.Audience != audience {
			continue
		}
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkNotificationRead flags a single notification as read
func (s *MarketplaceStore) MarkNotificationRead(notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == notificationID {
			if !n.Read {
				n.Read = true
				s.persistNotification(n)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
}

// MarkAllNotificationsRead flags every notification for an audience as read
// and returns how many were flipped
func (s *MarketplaceStore) MarkAllNotificationsRead(audience models.NotificationAudience) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if audience != "" && n.Audience != audience {
			continue
		}
		if !n.Read {
			n.Read = true
			s.persistNotification(n)
			count++
		}
	}
	return count
}

// PruneNotifications drops read notifications emitted before the cutoff and
// returns how many were removed. Unread records are never pruned.
func (s *MarketplaceStore) PruneNotifications(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*models.ServiceNotification
	var prunedIDs []string
	for _, n := range s.notifications {
		if n.Read && n.Timestamp.Before(cutoff) {
			prunedIDs = append(prunedIDs, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	if len(prunedIDs) == 0 {
		return 0
	}
	s.notifications = kept
	if s.persister != nil {
		if err := s.persister.DeleteNotifications(prunedIDs); err != nil {
			// In-memory state moved on; the rows will age out on a later tick
			log.Printf("⚠️ Failed to delete %d pruned notifications: %v", len(prunedIDs), err)
		}
	}
	return len(prunedIDs)
}
