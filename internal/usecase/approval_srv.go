package usecase

import (
	"context"
	"fmt"
	"strings"

	"cabin-booking/internal/data/entity"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/pkg/apperr"
	"cabin-booking/pkg/token"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApprovalService interface {
	RecordDecision(ctx context.Context, bookingID string, claims *token.Claims, req *request.DecisionRequest) (*response.BookingResponse, error)
}

type approvalService struct {
	repo     *repository.Repository
	txm      repository.TxManager
	cfg      utils.BookingConfig
	clock    utils.Clock
	notifier Notifier
	log      *zap.Logger
}

func NewApprovalService(
	repo *repository.Repository,
	txm repository.TxManager,
	cfg utils.BookingConfig,
	clock utils.Clock,
	notifier Notifier,
	log *zap.Logger,
) ApprovalService {
	return &approvalService{
		repo:     repo,
		txm:      txm,
		cfg:      cfg,
		clock:    clock,
		notifier: notifier,
		log:      log.With(zap.String("service", "approval")),
	}
}

// RecordDecision records one party's decision on its (booking, party)
// approval row and applies the resulting status transition: all three
// Approved confirms a Pending booking, a single denial of a Pending
// booking denies it. A Confirmed booking keeps its status even when a
// decision lands after an extension reset its approvals.
func (s *approvalService) RecordDecision(ctx context.Context, bookingID string, claims *token.Claims, req *request.DecisionRequest) (*response.BookingResponse, error) {
	if err := validateRequestShape(req); err != nil {
		return nil, err
	}

	if claims == nil {
		return nil, apperr.Unauthorized(msgInvalidLink)
	}
	if claims.Role != token.RoleApprover {
		return nil, apperr.Forbidden(msgNoAccess)
	}

	party := entity.Party(claims.Party)
	if !entity.ValidParty(party) {
		return nil, apperr.Forbidden(msgNoAccess)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}
	if claims.BookingID != id.String() {
		return nil, apperr.Forbidden(msgNoAccess)
	}

	decision := entity.Decision(req.Decision)

	var comment *string
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed != "" {
			if err := validateFreeText(trimmed, s.cfg.MaxDescriptionLen); err != nil {
				return nil, err
			}
			comment = &trimmed
		}
	}

	// A denial always carries a reason.
	if decision == entity.DecisionDenied && comment == nil {
		return nil, apperr.Validation(msgReasonRequired)
	}

	today := utils.Today(s.clock)
	now := s.clock.Now()
	var finalStatus entity.BookingStatus

	err = s.txm.InTx(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return apperr.NotFound(msgNotFound)
		}

		if booking.IsPast(today) {
			return apperr.Validation(msgPastReadOnly)
		}
		if booking.Status.Terminal() {
			return apperr.Validation(msgDecisionClosed)
		}

		approval, err := r.Approval.FindByBookingAndParty(ctx, id, party)
		if err != nil {
			return fmt.Errorf("load approval: %w", err)
		}
		if approval == nil {
			return apperr.NotFound(msgNotFound)
		}

		approval.Decision = decision
		approval.Comment = comment
		approval.DecidedAt = &now
		if err := r.Approval.Update(ctx, approval); err != nil {
			return fmt.Errorf("update approval: %w", err)
		}

		eventType := entity.EventApproved
		if decision == entity.DecisionDenied {
			eventType = entity.EventDenied
		}
		var note *string
		if comment != nil {
			n := fmt.Sprintf("Comment: %s", *comment)
			note = &n
		}
		event := &entity.TimelineEvent{
			ID:        uuid.New(),
			BookingID: id,
			When:      now,
			Actor:     string(party),
			EventType: eventType,
			Note:      note,
		}
		if err := r.Timeline.Create(ctx, event); err != nil {
			return fmt.Errorf("create decision event: %w", err)
		}

		if booking.Status == entity.BookingStatusPending {
			if decision == entity.DecisionDenied {
				booking.Status = entity.BookingStatusDenied
			} else {
				approvals, err := r.Approval.ListByBooking(ctx, id)
				if err != nil {
					return fmt.Errorf("list approvals: %w", err)
				}
				allApproved := true
				for _, a := range approvals {
					if a.Decision != entity.DecisionApproved {
						allApproved = false
						break
					}
				}
				if allApproved {
					booking.Status = entity.BookingStatusConfirmed
				}
			}
		}

		booking.UpdatedAt = now
		booking.LastActivityAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		finalStatus = booking.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Decision recorded",
		zap.String("booking_id", id.String()),
		zap.String("party", string(party)),
		zap.String("decision", string(decision)),
		zap.String("status", string(finalStatus)),
	)

	reloaded, err := s.repo.Booking.FindWithRelations(ctx, id)
	if err != nil || reloaded == nil {
		return nil, fmt.Errorf("reload booking after decision: %w", err)
	}

	s.notifier.DecisionRecorded(ctx, reloaded, party, decision)

	return response.BookingToResponse(reloaded, today), nil
}
