package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/pkg/token"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore backs all four repositories with in-memory maps. Reads return
// copies so that an aborted operation never leaks partial mutations into
// the store, mirroring transaction rollback.
type fakeStore struct {
	bookings  map[uuid.UUID]*entity.Booking
	approvals map[uuid.UUID]*entity.Approval
	events    []*entity.TimelineEvent
	parties   []*entity.ApproverParty
}

func newFakeStore() *fakeStore {
	parties := make([]*entity.ApproverParty, 0, 3)
	for _, p := range entity.AllParties() {
		parties = append(parties, &entity.ApproverParty{
			Party:               p,
			Email:               strings.ToLower(string(p)) + "@example.com",
			NotificationEnabled: true,
		})
	}
	return &fakeStore{
		bookings:  make(map[uuid.UUID]*entity.Booking),
		approvals: make(map[uuid.UUID]*entity.Approval),
		parties:   parties,
	}
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	cb := *b
	cb.Approvals = nil
	cb.TimelineEvents = nil
	return &cb
}

func cloneApproval(a *entity.Approval) *entity.Approval {
	ca := *a
	return &ca
}

func cloneEvent(e *entity.TimelineEvent) *entity.TimelineEvent {
	ce := *e
	return &ce
}

// approvalsOf returns the stored approvals for a booking sorted by party
// name, matching the repository's ORDER BY.
func (s *fakeStore) approvalsOf(bookingID uuid.UUID) []*entity.Approval {
	var out []*entity.Approval
	for _, a := range s.approvals {
		if a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Party < out[j].Party })
	return out
}

func (s *fakeStore) eventsOf(bookingID uuid.UUID) []*entity.TimelineEvent {
	var out []*entity.TimelineEvent
	for _, e := range s.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].When.After(out[j].When) })
	return out
}

type fakeBookingRepo struct{ s *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) FindWithRelations(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := r.FindByID(ctx, id)
	if err != nil || booking == nil {
		return booking, err
	}
	for _, a := range r.s.approvalsOf(id) {
		booking.Approvals = append(booking.Approvals, cloneApproval(a))
	}
	for _, e := range r.s.eventsOf(id) {
		booking.TimelineEvents = append(booking.TimelineEvents, cloneEvent(e))
	}
	return booking, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	if _, ok := r.s.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}
	r.s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindConflicts(_ context.Context, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Status.Blocking() && b.OverlapsRange(start, end) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeBookingRepo) ListForMonth(_ context.Context, year int, month time.Month) ([]*entity.Booking, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.Status.Blocking() && b.OverlapsRange(monthStart, monthEnd) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeBookingRepo) ListByRequesterEmail(_ context.Context, email string, limit int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if strings.EqualFold(b.RequesterEmail, email) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivityAt.After(out[j].LastActivityAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeApprovalRepo struct{ s *fakeStore }

func (r *fakeApprovalRepo) CreateBatch(_ context.Context, approvals []*entity.Approval) error {
	for _, a := range approvals {
		r.s.approvals[a.ID] = cloneApproval(a)
	}
	return nil
}

func (r *fakeApprovalRepo) FindByBookingAndParty(_ context.Context, bookingID uuid.UUID, party entity.Party) (*entity.Approval, error) {
	for _, a := range r.s.approvals {
		if a.BookingID == bookingID && a.Party == party {
			return cloneApproval(a), nil
		}
	}
	return nil, nil
}

func (r *fakeApprovalRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*entity.Approval, error) {
	var out []*entity.Approval
	for _, a := range r.s.approvalsOf(bookingID) {
		out = append(out, cloneApproval(a))
	}
	return out, nil
}

func (r *fakeApprovalRepo) Update(_ context.Context, approval *entity.Approval) error {
	if _, ok := r.s.approvals[approval.ID]; !ok {
		return fmt.Errorf("approval %s not found", approval.ID.String())
	}
	r.s.approvals[approval.ID] = cloneApproval(approval)
	return nil
}

func (r *fakeApprovalRepo) ResetByBooking(_ context.Context, bookingID uuid.UUID) error {
	for _, a := range r.s.approvals {
		if a.BookingID == bookingID {
			a.Decision = entity.DecisionNoResponse
			a.Comment = nil
			a.DecidedAt = nil
		}
	}
	return nil
}

type fakeTimelineRepo struct{ s *fakeStore }

func (r *fakeTimelineRepo) Create(_ context.Context, event *entity.TimelineEvent) error {
	r.s.events = append(r.s.events, cloneEvent(event))
	return nil
}

func (r *fakeTimelineRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*entity.TimelineEvent, error) {
	var out []*entity.TimelineEvent
	for _, e := range r.s.eventsOf(bookingID) {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

type fakePartyRepo struct{ s *fakeStore }

func (r *fakePartyRepo) FindAll(_ context.Context) ([]*entity.ApproverParty, error) {
	out := make([]*entity.ApproverParty, 0, len(r.s.parties))
	for _, p := range r.s.parties {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePartyRepo) FindByParty(_ context.Context, party entity.Party) (*entity.ApproverParty, error) {
	for _, p := range r.s.parties {
		if p.Party == party {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func fakeRepository(s *fakeStore) *repository.Repository {
	return &repository.Repository{
		Booking:       &fakeBookingRepo{s},
		Approval:      &fakeApprovalRepo{s},
		Timeline:      &fakeTimelineRepo{s},
		ApproverParty: &fakePartyRepo{s},
	}
}

type fakeTxManager struct{ repo *repository.Repository }

func (m *fakeTxManager) InTx(_ context.Context, fn func(r *repository.Repository) error) error {
	return fn(m.repo)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// recordingNotifier counts notifications so tests can assert they fire
// after a successful operation and not after a failed one.
type recordingNotifier struct {
	created        int
	edited         int
	lastReset      bool
	canceled       int
	decisions      []entity.Decision
	decisionStatus entity.BookingStatus
}

func (n *recordingNotifier) BookingCreated(context.Context, *entity.Booking) { n.created++ }

func (n *recordingNotifier) BookingEdited(_ context.Context, _ *entity.Booking, approvalsReset bool) {
	n.edited++
	n.lastReset = approvalsReset
}

func (n *recordingNotifier) BookingCanceled(context.Context, *entity.Booking, *string) { n.canceled++ }

func (n *recordingNotifier) DecisionRecorded(_ context.Context, booking *entity.Booking, _ entity.Party, decision entity.Decision) {
	n.decisions = append(n.decisions, decision)
	n.decisionStatus = booking.Status
}

func testConfig() utils.BookingConfig {
	return utils.BookingConfig{
		Timezone:            "Europe/Berlin",
		MaxPartySize:        10,
		FutureHorizonMonths: 18,
		LongStayWarnDays:    7,
		MaxFirstNameLen:     40,
		MaxDescriptionLen:   500,
		ApproverEmails: map[string]string{
			"Ingeborg": "ingeborg@example.com",
			"Cornelia": "cornelia@example.com",
			"Angelika": "angelika@example.com",
		},
	}
}

// testNow pins "today" to 2026-06-01 for every test.
var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store    *fakeStore
	booking  BookingService
	approval ApprovalService
	notifier *recordingNotifier
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	repo := fakeRepository(store)
	txm := &fakeTxManager{repo: repo}
	cfg := testConfig()
	clock := fixedClock{t: testNow}
	notifier := &recordingNotifier{}
	log := zap.NewNop()

	return &testEnv{
		store:    store,
		booking:  NewBookingService(repo, txm, cfg, clock, notifier, log),
		approval: NewApprovalService(repo, txm, cfg, clock, notifier, log),
		notifier: notifier,
	}
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func (e *testEnv) create(t *testing.T, firstName, email, start, end string) *response.BookingResponse {
	t.Helper()
	resp, err := e.booking.CreateBooking(context.Background(), &request.CreateBookingRequest{
		RequesterFirstName: firstName,
		RequesterEmail:     email,
		StartDate:          start,
		EndDate:            end,
		PartySize:          2,
		Affiliation:        "Ingeborg",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

// mustBooking fetches the raw stored row, bypassing the service layer.
func (e *testEnv) mustBooking(t *testing.T, id string) *entity.Booking {
	t.Helper()
	b, ok := e.store.bookings[uuid.MustParse(id)]
	require.True(t, ok, "booking %s not in store", id)
	return b
}

func (e *testEnv) storedApprovals(t *testing.T, id string) []*entity.Approval {
	t.Helper()
	return e.store.approvalsOf(uuid.MustParse(id))
}

func (e *testEnv) storedEvents(t *testing.T, id string) []*entity.TimelineEvent {
	t.Helper()
	return e.store.eventsOf(uuid.MustParse(id))
}

func requesterClaims(bookingID, email string) *token.Claims {
	return &token.Claims{Email: email, Role: token.RoleRequester, BookingID: bookingID}
}

func approverClaims(bookingID string, party entity.Party) *token.Claims {
	return &token.Claims{
		Email:     strings.ToLower(string(party)) + "@example.com",
		Role:      token.RoleApprover,
		BookingID: bookingID,
		Party:     string(party),
	}
}
