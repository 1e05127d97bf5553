package marketplace

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"service-marketplace-server/models"
)

// Persister writes marketplace state changes to a durable store. The engine
// treats persistence as best-effort: write failures are logged, not surfaced,
// so the in-memory state stays authoritative for the running process.
type Persister interface {
	SaveRequest(req *models.ServiceRequest) error
	SaveCategory(cat *models.ServiceCategory) error
	DeleteCategory(id string) error
	SaveProvider(p *models.ServiceProvider) error
	SaveNotification(n *models.ServiceNotification) error
	DeleteNotifications(ids []string) error
}

// Dispatcher receives every notification record the engine emits, for
// real-time delivery. Implementations must not block.
type Dispatcher interface {
	Dispatch(n models.ServiceNotification)
}

// MarketplaceStore owns all marketplace state: the request registry, the
// per-request offer ledgers and timelines, reference data (categories,
// providers), and the emitted notification list. A single mutex gives every
// operation atomic, single-writer semantics.
type MarketplaceStore struct {
	mu sync.Mutex

	requests      map[string]*models.ServiceRequest
	requestOrder  []string
	categories    map[string]*models.ServiceCategory
	categoryOrder []string
	providers     map[string]*models.ServiceProvider
	providerOrder []string
	notifications []*models.ServiceNotification

	nextRequestID      int
	nextOfferID        int
	nextNotificationID int
	nextProviderID     int

	now        func() time.Time
	persister  Persister
	dispatcher Dispatcher
}

// NewStore creates an empty marketplace store
func NewStore() *MarketplaceStore {
	return &MarketplaceStore{
		requests:   make(map[string]*models.ServiceRequest),
		categories: make(map[string]*models.ServiceCategory),
		providers:  make(map[string]*models.ServiceProvider),
		now:        time.Now,
	}
}

// SetPersister attaches a durable store written through on every mutation
func (s *MarketplaceStore) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persister = p
}

// SetDispatcher attaches a real-time consumer for emitted notifications
func (s *MarketplaceStore) SetDispatcher(d Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

// Restore hydrates the store from previously persisted state. Insertion order
// follows the given slices; id counters resume past the highest seen suffix.
func (s *MarketplaceStore) Restore(
	categories []models.ServiceCategory,
	providers []models.ServiceProvider,
	requests []models.ServiceRequest,
	notifications []models.ServiceNotification,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range categories {
		cat := categories[i]
		s.categories[cat.ID] = &cat
		s.categoryOrder = append(s.categoryOrder, cat.ID)
	}
	for i := range providers {
		p := providers[i]
		s.providers[p.ID] = &p
		s.providerOrder = append(s.providerOrder, p.ID)
		bumpCounter(&s.nextProviderID, p.ID)
	}
	for i := range requests {
		req := requests[i]
		s.requests[req.ID] = &req
		s.requestOrder = append(s.requestOrder, req.ID)
		bumpCounter(&s.nextRequestID, req.ID)
		for _, offer := range req.Offers {
			bumpCounter(&s.nextOfferID, offer.ID)
		}
	}
	for i := range notifications {
		n := notifications[i]
		s.notifications = append(s.notifications, &n)
		bumpCounter(&s.nextNotificationID, n.ID)
	}
}

// bumpCounter advances counter past the numeric suffix of ids like "req-12"
func bumpCounter(counter *int, id string) {
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return
	}
	if n, err := strconv.Atoi(id[idx+1:]); err == nil && n > *counter {
		*counter = n
	}
}

func (s *MarketplaceStore) newRequestID() string {
	s.nextRequestID++
	return fmt.Sprintf("req-%d", s.nextRequestID)
}

func (s *MarketplaceStore) newOfferID() string {
	s.nextOfferID++
	return fmt.Sprintf("offer-%d", s.nextOfferID)
}

func (s *MarketplaceStore) newNotificationID() string {
	s.nextNotificationID++
	return fmt.Sprintf("note-%d", s.nextNotificationID)
}

func (s *MarketplaceStore) newProviderID() string {
	s.nextProviderID++
	return fmt.Sprintf("prov-%d", s.nextProviderID)
}

// appendTimeline sets the request status and records it in the audit log.
// This is the only code path that mutates either field, which keeps the
// "last timeline entry equals current status" invariant structural.
func (s *MarketplaceStore) appendTimeline(req *models.ServiceRequest, status models.ServiceRequestStatus, note string) {
	req.Status = status
	req.Timeline = append(req.Timeline, models.TimelineEntry{
		RequestID: req.ID,
		Status:    status,
		Timestamp: s.now(),
		Note:      note,
	})
}

// emit records a notification and hands it to the dispatcher if one is attached
func (s *MarketplaceStore) emit(audience models.NotificationAudience, message, requestID string) {
	n := &models.ServiceNotification{
		ID:               s.newNotificationID(),
		Audience:         audience,
		Message:          message,
		RelatedRequestID: requestID,
		Timestamp:        s.now(),
	}
	s.notifications = append(s.notifications, n)
	s.persistNotification(n)
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(*n)
	}
}

func (s *MarketplaceStore) persistRequest(req *models.ServiceRequest) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveRequest(req); err != nil {
		log.Printf("⚠️ Failed to persist request %s: %v", req.ID, err)
	}
}

func (s *MarketplaceStore) persistCategory(cat *models.ServiceCategory) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveCategory(cat); err != nil {
		log.Printf("⚠️ Failed to persist category %s: %v", cat.ID, err)
	}
}

func (s *MarketplaceStore) persistProvider(p *models.ServiceProvider) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveProvider(p); err != nil {
		log.Printf("⚠️ Failed to persist provider %s: %v", p.ID, err)
	}
}

func (s *MarketplaceStore) persistNotification(n *models.ServiceNotification) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveNotification(n); err != nil {
		log.Printf("⚠️ Failed to persist notification %s: %v", n.ID, err)
	}
}

// cloneRequest returns a deep copy safe to hand to callers outside the lock
func cloneRequest(req *models.ServiceRequest) models.ServiceRequest {
	clone := *req
	clone.Offers = append([]models.ServiceOffer(nil), req.Offers...)
	clone.Timeline = append([]models.TimelineEntry(nil), req.Timeline...)
	if req.AssignedProviderID != nil {
		id := *req.AssignedProviderID
		clone.AssignedProviderID = &id
	}
	if req.DirectProviderID != nil {
		id := *req.DirectProviderID
		clone.DirectProviderID = &id
	}
	if req.PriceOffer != nil {
		price := *req.PriceOffer
		clone.PriceOffer = &price
	}
	return clone
}

// cloneProvider returns a copy safe to hand to callers outside the lock
func cloneProvider(p *models.ServiceProvider) models.ServiceProvider {
	clone := *p
	clone.Services = append(pq.StringArray(nil), p.Services...)
	return clone
}
