package usecase

import (
	"context"
	"testing"

	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/dto/request"
	"cabin-booking/pkg/apperr"
	"cabin-booking/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecisionConfirmsAfterAllApprove(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")

	resp, err := env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyIngeborg), &request.DecisionRequest{Decision: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", resp.Status)

	resp, err = env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyCornelia), &request.DecisionRequest{Decision: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", resp.Status)

	resp, err = env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyAngelika), &request.DecisionRequest{Decision: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", resp.Status)

	var approvedEvents int
	for _, e := range env.storedEvents(t, created.ID) {
		if e.EventType == entity.EventApproved {
			approvedEvents++
		}
	}
	assert.Equal(t, 3, approvedEvents)
	assert.Equal(t, entity.BookingStatusConfirmed, env.notifier.decisionStatus)
}

func TestRecordDecisionDenialDeniesPending(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")
	claims := approverClaims(created.ID, entity.PartyCornelia)

	// A denial without a reason is rejected.
	_, err := env.approval.RecordDecision(context.Background(), created.ID, claims,
		&request.DecisionRequest{Decision: "Denied"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, msgReasonRequired, apperr.MessageOf(err))

	resp, err := env.approval.RecordDecision(context.Background(), created.ID, claims,
		&request.DecisionRequest{Decision: "Denied", Comment: strp("Zu kurzfristig")})
	require.NoError(t, err)
	assert.Equal(t, "Denied", resp.Status)

	var note *string
	for _, e := range env.storedEvents(t, created.ID) {
		if e.EventType == entity.EventDenied {
			note = e.Note
			assert.Equal(t, "Cornelia", e.Actor)
		}
	}
	require.NotNil(t, note)
	assert.Equal(t, "Comment: Zu kurzfristig", *note)
}

func TestRecordDecisionTerminalStatusesClosed(t *testing.T) {
	for _, status := range []entity.BookingStatus{entity.BookingStatusDenied, entity.BookingStatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")
			env.mustBooking(t, created.ID).Status = status

			_, err := env.approval.RecordDecision(context.Background(), created.ID,
				approverClaims(created.ID, entity.PartyIngeborg),
				&request.DecisionRequest{Decision: "Approved"})
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, msgDecisionClosed, apperr.MessageOf(err))
		})
	}
}

func TestRecordDecisionConfirmedStaysConfirmed(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")

	// Confirmed booking whose approvals were reset by an extension.
	env.mustBooking(t, created.ID).Status = entity.BookingStatusConfirmed

	resp, err := env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyAngelika),
		&request.DecisionRequest{Decision: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", resp.Status)

	decisions := map[entity.Party]entity.Decision{}
	for _, a := range env.storedApprovals(t, created.ID) {
		decisions[a.Party] = a.Decision
	}
	assert.Equal(t, entity.DecisionApproved, decisions[entity.PartyAngelika])
	assert.Equal(t, entity.DecisionNoResponse, decisions[entity.PartyIngeborg])
}

func TestRecordDecisionOverwritesEarlierDecision(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")
	claims := approverClaims(created.ID, entity.PartyIngeborg)

	_, err := env.approval.RecordDecision(context.Background(), created.ID, claims,
		&request.DecisionRequest{Decision: "Approved"})
	require.NoError(t, err)

	// The same party can change their mind while the booking is open.
	resp, err := env.approval.RecordDecision(context.Background(), created.ID, claims,
		&request.DecisionRequest{Decision: "Denied", Comment: strp("Doch nicht")})
	require.NoError(t, err)
	assert.Equal(t, "Denied", resp.Status)
}

func TestRecordDecisionAccessControl(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")
	req := &request.DecisionRequest{Decision: "Approved"}

	_, err := env.approval.RecordDecision(context.Background(), created.ID, nil, req)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Requester tokens cannot decide.
	_, err = env.approval.RecordDecision(context.Background(), created.ID,
		requesterClaims(created.ID, "anna@example.com"), req)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Unknown party in the claims.
	badParty := &token.Claims{Email: "x@example.com", Role: token.RoleApprover, BookingID: created.ID, Party: "Helga"}
	_, err = env.approval.RecordDecision(context.Background(), created.ID, badParty, req)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Token minted for another booking.
	other := env.create(t, "Bruno", "bruno@example.com", "2026-06-20", "2026-06-22")
	_, err = env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(other.ID, entity.PartyIngeborg), req)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = env.approval.RecordDecision(context.Background(), "not-a-uuid",
		approverClaims(created.ID, entity.PartyIngeborg), req)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Invalid decision value fails shape validation.
	_, err = env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyIngeborg), &request.DecisionRequest{Decision: "Maybe"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRecordDecisionPastBookingClosed(t *testing.T) {
	env := newTestEnv()
	created := env.create(t, "Anna", "anna@example.com", "2026-06-10", "2026-06-14")

	stored := env.mustBooking(t, created.ID)
	stored.StartDate = date(2026, 5, 20)
	stored.EndDate = date(2026, 5, 24)

	_, err := env.approval.RecordDecision(context.Background(), created.ID,
		approverClaims(created.ID, entity.PartyIngeborg),
		&request.DecisionRequest{Decision: "Approved"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, msgPastReadOnly, apperr.MessageOf(err))
}
