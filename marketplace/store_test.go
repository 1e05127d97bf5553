package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-marketplace-server/models"
)

// newTestStore returns a store with a deterministic, strictly increasing clock
func newTestStore() *MarketplaceStore {
	s := NewStore()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	s.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return s
}

func seedCatalog(t *testing.T, s *MarketplaceStore) (repairs models.ServiceCategory, providerA, providerB models.ServiceProvider) {
	t.Helper()

	repairs, err := s.CreateCategory(models.ServiceCategoryCreate{Name: "Repairs", Summary: "Fix things"})
	require.NoError(t, err)

	providerA, err = s.CreateProvider(models.ServiceProviderCreate{
		Name:     "FixIt Brothers",
		Email:    "support@fixitbrothers.example",
		Services: []string{repairs.ID},
	})
	require.NoError(t, err)

	providerB, err = s.CreateProvider(models.ServiceProviderCreate{
		Name:     "CleanQuick Crew",
		Email:    "hello@cleanquick.example",
		Services: []string{repairs.ID},
	})
	require.NoError(t, err)

	return repairs, providerA, providerB
}

func createPublicRequest(t *testing.T, s *MarketplaceStore, categoryID, title string) models.ServiceRequest {
	t.Helper()
	req, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePublic,
		CategoryID:  categoryID,
		Title:       title,
		Description: "Something needs doing",
		Location:    "Lekki Phase 1",
	}, "user-1", "Adaeze U.", models.Contact{Email: "adaeze@example.com", Phone: "+234 808 111 2211"})
	require.NoError(t, err)
	return req
}

func TestCreatePublicRequest(t *testing.T) {
	s := newTestStore()
	repairs, _, _ := seedCatalog(t, s)

	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	assert.Equal(t, models.StatusOpen, req.Status)
	assert.False(t, req.ContactReleased)
	assert.Empty(t, req.Offers)
	require.Len(t, req.Timeline, 1)
	assert.Equal(t, models.StatusOpen, req.Timeline[0].Status)
	assert.Equal(t, "Request posted", req.Timeline[0].Note)

	notes := s.ListNotifications(models.AudienceProvider)
	require.Len(t, notes, 1)
	assert.Equal(t, "Fix sink is now open for offers", notes[0].Message)
	assert.Equal(t, req.ID, notes[0].RelatedRequestID)
}

func TestCreatePrivateRequestNotifiesAdmin(t *testing.T) {
	s := newTestStore()
	repairs, _, _ := seedCatalog(t, s)

	req, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePrivate,
		CategoryID:  repairs.ID,
		Title:       "Quarterly office deep clean",
		Description: "Discreet team on Friday night",
	}, "user-2", "Exec Suite Admin", models.Contact{Email: "ops@execsuite.example"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusOpen, req.Status)
	assert.Equal(t, "Admin notified about new request", req.Timeline[0].Note)

	notes := s.ListNotifications(models.AudienceAdmin)
	require.Len(t, notes, 1)
	assert.Equal(t, "Quarterly office deep clean requires an assignment", notes[0].Message)
}

func TestCreateRequestValidation(t *testing.T) {
	s := newTestStore()
	repairs, _, _ := seedCatalog(t, s)

	_, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePublic,
		CategoryID:  repairs.ID,
		Title:       "   ",
		Description: "desc",
	}, "user-1", "A", models.Contact{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePublic,
		CategoryID:  repairs.ID,
		Title:       "Title",
		Description: "",
	}, "user-1", "A", models.Contact{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePublic,
		CategoryID:  "no-such-category",
		Title:       "Title",
		Description: "desc",
	}, "user-1", "A", models.Contact{})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypeDirect,
		CategoryID:  repairs.ID,
		Title:       "Title",
		Description: "desc",
	}, "user-1", "A", models.Contact{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// No partial state left behind by rejected creations
	assert.Empty(t, s.ListRequests(RequestFilter{}))
	assert.Empty(t, s.ListNotifications(""))
}

// Scenario A: two competing offers, accepting one rejects the other and
// releases contact atomically.
func TestAcceptOfferExclusivity(t *testing.T) {
	s := newTestStore()
	repairs, providerA, providerB := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	_, err := s.SubmitOffer(req.ID, providerA.ID, "Can come today", 100)
	require.NoError(t, err)
	updated, err := s.SubmitOffer(req.ID, providerB.ID, "Tomorrow morning", 120)
	require.NoError(t, err)
	require.Len(t, updated.Offers, 2)

	offerA := updated.Offers[0]
	result, err := s.RespondToOffer(req.ID, offerA.ID, "accept")
	require.NoError(t, err)

	assert.Equal(t, models.OfferAccepted, result.Offers[0].Status)
	assert.Equal(t, models.OfferRejected, result.Offers[1].Status)
	require.NotNil(t, result.AssignedProviderID)
	assert.Equal(t, providerA.ID, *result.AssignedProviderID)
	assert.True(t, result.ContactReleased)
	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Equal(t, models.StatusAccepted, result.Timeline[len(result.Timeline)-1].Status)

	// Exclusivity holds for any later decision attempts
	_, err = s.RespondToOffer(req.ID, result.Offers[1].ID, "accept")
	assert.ErrorIs(t, err, ErrOfferAlreadyAccepted)
}

// Scenario B: admin assignment does not release contact; the provider's own
// acceptance does.
func TestAssignProviderThenAccept(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)

	req, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePrivate,
		CategoryID:  repairs.ID,
		Title:       "Office clean",
		Description: "After hours",
		PriceOffer:  floatPtr(80000),
	}, "user-2", "Exec Suite Admin", models.Contact{Email: "ops@execsuite.example"})
	require.NoError(t, err)

	assigned, err := s.AssignProvider(req.ID, providerA.ID, "")
	require.NoError(t, err)

	require.NotNil(t, assigned.AssignedProviderID)
	assert.Equal(t, providerA.ID, *assigned.AssignedProviderID)
	assert.False(t, assigned.ContactReleased, "assignment alone must not release contact")
	assert.Equal(t, models.StatusAwaitingApproval, assigned.Status)
	assert.Equal(t, "Waiting for provider confirmation", assigned.Timeline[len(assigned.Timeline)-1].Note)
	require.Len(t, assigned.Offers, 1)
	assert.Equal(t, models.OfferPending, assigned.Offers[0].Status)
	assert.Equal(t, "Admin assigned you to this request", assigned.Offers[0].Message)
	assert.Equal(t, 80000.0, assigned.Offers[0].Price)

	accepted, err := s.RespondToOffer(req.ID, assigned.Offers[0].ID, "accept")
	require.NoError(t, err)
	assert.True(t, accepted.ContactReleased)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
}

// Scenario C: direct requests start AwaitingApproval with an implicit pending
// offer; rejecting it leaves the status untouched.
func TestDirectRequestFlow(t *testing.T) {
	s := newTestStore()
	repairs, _, providerB := seedCatalog(t, s)

	req, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:             models.RequestTypeDirect,
		CategoryID:       repairs.ID,
		Title:            "Home spa session",
		Description:      "Sunday afternoon",
		DirectProviderID: providerB.ID,
	}, "user-3", "Ireti A.", models.Contact{Email: "ireti@example.com"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAwaitingApproval, req.Status)
	require.NotNil(t, req.DirectProviderID)
	assert.Equal(t, providerB.ID, *req.DirectProviderID)
	assert.Nil(t, req.AssignedProviderID)
	require.Len(t, req.Offers, 1)
	assert.Equal(t, models.OfferPending, req.Offers[0].Status)

	notes := s.ListNotifications(models.AudienceProvider)
	require.Len(t, notes, 1)
	assert.Equal(t, "Direct request sent to provider", notes[0].Message)

	rejected, err := s.RespondToOffer(req.ID, req.Offers[0].ID, "reject")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingApproval, rejected.Status)
	assert.Equal(t, models.OfferRejected, rejected.Offers[0].Status)
	assert.False(t, rejected.ContactReleased)
}

// Scenario D: manual cancellation appends exactly one timeline entry and
// leaves offers alone.
func TestCancelFromOpen(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	withOffer, err := s.SubmitOffer(req.ID, providerA.ID, "On my way", 100)
	require.NoError(t, err)
	timelineBefore := len(withOffer.Timeline)
	notesBefore := len(s.ListNotifications(""))

	cancelled, err := s.UpdateStatus(req.ID, models.StatusCancelled, "requester withdrew")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Len(t, cancelled.Timeline, timelineBefore+1)
	assert.Equal(t, "requester withdrew", cancelled.Timeline[len(cancelled.Timeline)-1].Note)
	assert.Equal(t, models.OfferPending, cancelled.Offers[0].Status, "offer states must not change")

	requesterNotes := s.ListNotifications(models.AudienceRequester)
	assert.Equal(t, "Cancelled update shared", requesterNotes[len(requesterNotes)-1].Message)
	assert.Equal(t, notesBefore+1, len(s.ListNotifications("")))
}

func TestSubmitOfferTransitionsOpenToAwaitingApproval(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	first, err := s.SubmitOffer(req.ID, providerA.ID, "offer one", 90)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingApproval, first.Status)
	assert.Equal(t, "Collecting offers from providers", first.Timeline[len(first.Timeline)-1].Note)

	// A second offer must not append another transition
	second, err := s.SubmitOffer(req.ID, providerA.ID, "offer two", 85)
	require.NoError(t, err)
	assert.Len(t, second.Timeline, len(first.Timeline))
	assert.Len(t, second.Offers, 2, "repeat offers from one provider are allowed")
}

func TestRejectIsIdempotent(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	withOffer, err := s.SubmitOffer(req.ID, providerA.ID, "msg", 100)
	require.NoError(t, err)
	offerID := withOffer.Offers[0].ID

	once, err := s.RespondToOffer(req.ID, offerID, "reject")
	require.NoError(t, err)
	twice, err := s.RespondToOffer(req.ID, offerID, "reject")
	require.NoError(t, err)

	assert.Equal(t, models.OfferRejected, twice.Offers[0].Status)
	assert.Equal(t, len(once.Timeline), len(twice.Timeline), "no duplicate timeline entries")
	assert.Equal(t, once.Status, twice.Status)
}

func TestRespondToOfferNotFound(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")
	_, err := s.SubmitOffer(req.ID, providerA.ID, "msg", 100)
	require.NoError(t, err)
	notesBefore := len(s.ListNotifications(""))

	_, err = s.RespondToOffer(req.ID, "offer-999", "accept")
	assert.ErrorIs(t, err, ErrOfferNotFound)

	_, err = s.RespondToOffer("req-999", "offer-1", "accept")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = s.RespondToOffer(req.ID, "offer-1", "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, notesBefore, len(s.ListNotifications("")), "failed decisions must not emit notifications")
}

func TestUpdateStatusCannotReachAccepted(t *testing.T) {
	s := newTestStore()
	repairs, _, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	_, err := s.UpdateStatus(req.ID, models.StatusAccepted, "shortcut")
	assert.ErrorIs(t, err, ErrManualAcceptance)

	_, err = s.UpdateStatus(req.ID, "Teleported", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateStatus("req-999", models.StatusCancelled, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestCompletedIncrementsProviderJobs(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	withOffer, err := s.SubmitOffer(req.ID, providerA.ID, "msg", 100)
	require.NoError(t, err)
	_, err = s.RespondToOffer(req.ID, withOffer.Offers[0].ID, "accept")
	require.NoError(t, err)

	_, err = s.UpdateStatus(req.ID, models.StatusInProgress, "on site")
	require.NoError(t, err)
	_, err = s.UpdateStatus(req.ID, models.StatusCompleted, "done")
	require.NoError(t, err)

	provider, err := s.GetProvider(providerA.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.JobsCompleted)
}

// Timeline entries only grow, timestamps never move backwards, and the last
// entry always matches the current status, across a whole request lifecycle.
func TestTimelineMonotonicity(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	check := func(r models.ServiceRequest, minLen int) {
		t.Helper()
		require.GreaterOrEqual(t, len(r.Timeline), minLen)
		assert.Equal(t, r.Status, r.Timeline[len(r.Timeline)-1].Status)
		for i := 1; i < len(r.Timeline); i++ {
			assert.False(t, r.Timeline[i].Timestamp.Before(r.Timeline[i-1].Timestamp))
		}
	}
	check(req, 1)

	r, err := s.SubmitOffer(req.ID, providerA.ID, "msg", 100)
	require.NoError(t, err)
	check(r, 2)

	r, err = s.RespondToOffer(req.ID, r.Offers[0].ID, "accept")
	require.NoError(t, err)
	check(r, 3)

	r, err = s.UpdateStatus(req.ID, models.StatusInProgress, "")
	require.NoError(t, err)
	check(r, 4)

	r, err = s.UpdateStatus(req.ID, models.StatusCompleted, "")
	require.NoError(t, err)
	check(r, 5)
}

func TestSubmitOfferUnknownIDs(t *testing.T) {
	s := newTestStore()
	repairs, providerA, _ := seedCatalog(t, s)
	req := createPublicRequest(t, s, repairs.ID, "Fix sink")

	_, err := s.SubmitOffer("req-999", providerA.ID, "msg", 10)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = s.SubmitOffer(req.ID, "prov-999", "msg", 10)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestListRequestsForProvider(t *testing.T) {
	s := newTestStore()
	repairs, providerA, providerB := seedCatalog(t, s)

	public := createPublicRequest(t, s, repairs.ID, "Fix sink")
	private, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePrivate,
		CategoryID:  repairs.ID,
		Title:       "Private job",
		Description: "Hidden from browsing",
	}, "user-2", "B", models.Contact{})
	require.NoError(t, err)

	visible := s.ListRequestsForProvider(providerA.ID)
	require.Len(t, visible, 1)
	assert.Equal(t, public.ID, visible[0].ID)

	// Assignment pulls the provider into the private request
	_, err = s.AssignProvider(private.ID, providerB.ID, "")
	require.NoError(t, err)
	visibleB := s.ListRequestsForProvider(providerB.ID)
	require.Len(t, visibleB, 2)

	// providerA still cannot see it
	visible = s.ListRequestsForProvider(providerA.ID)
	require.Len(t, visible, 1)
}

func TestRestoreResumesCounters(t *testing.T) {
	s := newTestStore()
	s.Restore(
		[]models.ServiceCategory{{ID: "repairs", Name: "Repairs"}},
		[]models.ServiceProvider{{ID: "prov-7", Name: "FixIt"}},
		[]models.ServiceRequest{{
			ID:          "req-3",
			Type:        models.RequestTypePublic,
			CategoryID:  "repairs",
			Title:       "Old request",
			Description: "restored",
			RequesterID: "user-1",
			Status:      models.StatusOpen,
			Offers:      []models.ServiceOffer{{ID: "offer-5", RequestID: "req-3", ProviderID: "prov-7", Status: models.OfferPending}},
			Timeline:    []models.TimelineEntry{{RequestID: "req-3", Status: models.StatusOpen}},
		}},
		[]models.ServiceNotification{{ID: "note-9", Audience: models.AudienceAdmin, Message: "restored"}},
	)

	req, err := s.CreateRequest(models.ServiceRequestCreate{
		Type:        models.RequestTypePublic,
		CategoryID:  "repairs",
		Title:       "New request",
		Description: "fresh",
	}, "user-1", "A", models.Contact{})
	require.NoError(t, err)
	assert.Equal(t, "req-4", req.ID)

	withOffer, err := s.SubmitOffer(req.ID, "prov-7", "msg", 5)
	require.NoError(t, err)
	assert.Equal(t, "offer-6", withOffer.Offers[0].ID)

	notes := s.ListNotifications("")
	assert.Equal(t, "note-11", notes[len(notes)-1].ID)
}

func floatPtr(v float64) *float64 { return &v }
