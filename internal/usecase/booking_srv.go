package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

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

const msgInvalidLink = "Ungültiger Zugangslink."

const noteDateLayout = "02.01.2006"

const mineListLimit = 20

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string, claims *token.Claims) (*response.BookingResponse, error)
	GetPublicBooking(ctx context.Context, bookingID string) (*response.PublicBookingResponse, error)
	ListMonth(ctx context.Context, year int, month time.Month) ([]*response.PublicBookingResponse, error)
	ListMine(ctx context.Context, claims *token.Claims) ([]*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, claims *token.Claims, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string, claims *token.Claims, req *request.CancelBookingRequest) (*response.CancelResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	txm      repository.TxManager
	cfg      utils.BookingConfig
	clock    utils.Clock
	notifier Notifier
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	txm repository.TxManager,
	cfg utils.BookingConfig,
	clock utils.Clock,
	notifier Notifier,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		txm:      txm,
		cfg:      cfg,
		clock:    clock,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validateRequestShape(req); err != nil {
		return nil, err
	}

	start, err := request.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validation(msgInvalidDate)
	}
	end, err := request.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperr.Validation(msgInvalidDate)
	}

	today := utils.Today(s.clock)
	if err := s.validateDateRange(start, end, today); err != nil {
		return nil, err
	}

	totalDays := entity.ComputeTotalDays(start, end)
	if totalDays > s.cfg.LongStayWarnDays && !req.LongStayConfirmed {
		return nil, apperr.Validation(msgLongStay(totalDays))
	}

	if req.PartySize < 1 || req.PartySize > s.cfg.MaxPartySize {
		return nil, apperr.Validation(msgPartySizeRange(s.cfg.MaxPartySize))
	}

	firstName, err := validateFirstName(req.RequesterFirstName, s.cfg.MaxFirstNameLen)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if err := validateFreeText(*req.Description, s.cfg.MaxDescriptionLen); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequesterFirstName: firstName,
		RequesterEmail:     req.RequesterEmail,
		StartDate:          start,
		EndDate:            end,
		TotalDays:          totalDays,
		PartySize:          req.PartySize,
		Affiliation:        entity.Party(req.Affiliation),
		Description:        req.Description,
		Status:             entity.BookingStatusPending,
		LastActivityAt:     now,
	}

	err = s.txm.InTx(ctx, func(r *repository.Repository) error {
		// First conflict found wins; no attempt to enumerate all of them.
		conflicts, err := r.Booking.FindConflicts(ctx, start, end, nil)
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			c := conflicts[0]
			return apperr.Conflict(msgConflict(c.RequesterFirstName, c.Status))
		}

		if err := r.Booking.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		// Fan out exactly one approval per fixed party. A requester who is
		// an approver gets their own party auto-approved.
		approvals := make([]*entity.Approval, 0, 3)
		var selfApproved []entity.Party
		for _, party := range entity.AllParties() {
			approval := &entity.Approval{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				BookingID:  booking.ID,
				Party:      party,
				Decision:   entity.DecisionNoResponse,
			}

			approverEmail := s.cfg.ApproverEmails[string(party)]
			if approverEmail != "" && strings.EqualFold(req.RequesterEmail, approverEmail) {
				decidedAt := now
				approval.Decision = entity.DecisionApproved
				approval.DecidedAt = &decidedAt
				selfApproved = append(selfApproved, party)
			}

			approvals = append(approvals, approval)
		}

		if err := r.Approval.CreateBatch(ctx, approvals); err != nil {
			return fmt.Errorf("create approvals: %w", err)
		}

		for _, party := range selfApproved {
			note := fmt.Sprintf("%s (self-approval)", party)
			event := &entity.TimelineEvent{
				ID:        uuid.New(),
				BookingID: booking.ID,
				When:      now,
				Actor:     booking.RequesterFirstName,
				EventType: entity.EventSelfApproved,
				Note:      &note,
			}
			if err := r.Timeline.Create(ctx, event); err != nil {
				return fmt.Errorf("create self-approval event: %w", err)
			}
		}

		created := &entity.TimelineEvent{
			ID:        uuid.New(),
			BookingID: booking.ID,
			When:      now,
			Actor:     booking.RequesterFirstName,
			EventType: entity.EventCreated,
		}
		if err := r.Timeline.Create(ctx, created); err != nil {
			return fmt.Errorf("create timeline event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester", booking.RequesterFirstName),
		zap.Int("total_days", totalDays),
	)

	reloaded, err := s.repo.Booking.FindWithRelations(ctx, booking.ID)
	if err != nil || reloaded == nil {
		return nil, fmt.Errorf("reload booking after create: %w", err)
	}

	s.notifier.BookingCreated(ctx, reloaded)

	return response.BookingToResponse(reloaded, today), nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string, claims *token.Claims) (*response.BookingResponse, error) {
	if claims == nil {
		return nil, apperr.Unauthorized(msgInvalidLink)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}

	booking, err := s.repo.Booking.FindWithRelations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound(msgNotFound)
	}

	// A token for another booking never grants access here.
	if claims.BookingID != booking.ID.String() {
		return nil, apperr.Forbidden(msgNoAccess)
	}

	return response.BookingToResponse(booking, utils.Today(s.clock)), nil
}

// GetPublicBooking serves the unauthenticated calendar view. Denied and
// Canceled bookings are reported as not found rather than forbidden, so
// their existence is never confirmed.
func (s *bookingService) GetPublicBooking(ctx context.Context, bookingID string) (*response.PublicBookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil || !booking.Status.Blocking() {
		return nil, apperr.NotFound(msgNotFound)
	}

	return response.BookingToPublicResponse(booking, utils.Today(s.clock)), nil
}

func (s *bookingService) ListMonth(ctx context.Context, year int, month time.Month) ([]*response.PublicBookingResponse, error) {
	if month < time.January || month > time.December || year < 2000 || year > 2200 {
		return nil, apperr.Validation(msgInvalidDate)
	}

	bookings, err := s.repo.Booking.ListForMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list bookings for month: %w", err)
	}

	today := utils.Today(s.clock)
	result := make([]*response.PublicBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, response.BookingToPublicResponse(b, today))
	}

	return result, nil
}

// ListMine returns the requester's own bookings, newest activity first.
// The requester is identified by the email bound into the link token.
func (s *bookingService) ListMine(ctx context.Context, claims *token.Claims) ([]*response.BookingResponse, error) {
	if claims == nil {
		return nil, apperr.Unauthorized(msgInvalidLink)
	}
	if claims.Role != token.RoleRequester {
		return nil, apperr.Forbidden(msgNoAccess)
	}

	bookings, err := s.repo.Booking.ListByRequesterEmail(ctx, claims.Email, mineListLimit)
	if err != nil {
		return nil, fmt.Errorf("list bookings by requester: %w", err)
	}

	today := utils.Today(s.clock)
	result := make([]*response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, response.BookingToResponse(b, today))
	}

	return result, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, claims *token.Claims, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if err := validateRequestShape(req); err != nil {
		return nil, err
	}

	id, err := s.requesterAccess(bookingID, claims)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	now := s.clock.Now()
	var approvalsReset, datesChanged bool

	err = s.txm.InTx(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindWithRelations(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return apperr.NotFound(msgNotFound)
		}

		if !strings.EqualFold(booking.RequesterEmail, claims.Email) {
			return apperr.Forbidden(msgNoAccess)
		}

		// Past bookings are read-only, checked against the stored range
		// before any field is touched.
		if booking.IsPast(today) {
			return apperr.Validation(msgPastReadOnly)
		}

		originalStart := booking.StartDate
		originalEnd := booking.EndDate

		if req.RequesterFirstName != nil {
			firstName, err := validateFirstName(*req.RequesterFirstName, s.cfg.MaxFirstNameLen)
			if err != nil {
				return err
			}
			booking.RequesterFirstName = firstName
		}
		if req.StartDate != nil {
			start, err := request.ParseDate(*req.StartDate)
			if err != nil {
				return apperr.Validation(msgInvalidDate)
			}
			booking.StartDate = start
		}
		if req.EndDate != nil {
			end, err := request.ParseDate(*req.EndDate)
			if err != nil {
				return apperr.Validation(msgInvalidDate)
			}
			booking.EndDate = end
		}
		if req.PartySize != nil {
			if *req.PartySize < 1 || *req.PartySize > s.cfg.MaxPartySize {
				return apperr.Validation(msgPartySizeRange(s.cfg.MaxPartySize))
			}
			booking.PartySize = *req.PartySize
		}
		if req.Affiliation != nil {
			if !entity.ValidParty(entity.Party(*req.Affiliation)) {
				return apperr.Validation(utils.FormatValidationErrors(map[string]string{"Affiliation": "invalid"}))
			}
			booking.Affiliation = entity.Party(*req.Affiliation)
		}
		if req.Description != nil {
			if err := validateFreeText(*req.Description, s.cfg.MaxDescriptionLen); err != nil {
				return err
			}
			booking.Description = req.Description
		}

		datesChanged = req.StartDate != nil || req.EndDate != nil
		if datesChanged {
			if err := s.validateDateRange(booking.StartDate, booking.EndDate, today); err != nil {
				return err
			}
			booking.TotalDays = entity.ComputeTotalDays(booking.StartDate, booking.EndDate)

			conflicts, err := r.Booking.FindConflicts(ctx, booking.StartDate, booking.EndDate, &booking.ID)
			if err != nil {
				return fmt.Errorf("check conflicts: %w", err)
			}
			if len(conflicts) > 0 {
				c := conflicts[0]
				return apperr.Conflict(msgConflict(c.RequesterFirstName, c.Status))
			}

			// One-way ratchet: growing the range on either side invalidates
			// all sign-off, shrinking it never does. The booking status is
			// left alone either way.
			isExtension := booking.StartDate.Before(originalStart) || booking.EndDate.After(originalEnd)
			if isExtension {
				if err := r.Approval.ResetByBooking(ctx, booking.ID); err != nil {
					return fmt.Errorf("reset approvals: %w", err)
				}
				approvalsReset = true
			}

			note := fmt.Sprintf("Zeitraum: %s – %s → %s – %s",
				originalStart.Format(noteDateLayout), originalEnd.Format(noteDateLayout),
				booking.StartDate.Format(noteDateLayout), booking.EndDate.Format(noteDateLayout))
			event := &entity.TimelineEvent{
				ID:        uuid.New(),
				BookingID: booking.ID,
				When:      now,
				Actor:     booking.RequesterFirstName,
				EventType: entity.EventEdited,
				Note:      &note,
			}
			if err := r.Timeline.Create(ctx, event); err != nil {
				return fmt.Errorf("create edited event: %w", err)
			}
		}
		// First-name-only edits stay silent in the timeline.

		booking.UpdatedAt = now
		booking.LastActivityAt = now

		if err := r.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", id.String()),
		zap.Bool("dates_changed", datesChanged),
		zap.Bool("approvals_reset", approvalsReset),
	)

	reloaded, err := s.repo.Booking.FindWithRelations(ctx, id)
	if err != nil || reloaded == nil {
		return nil, fmt.Errorf("reload booking after update: %w", err)
	}

	if datesChanged {
		s.notifier.BookingEdited(ctx, reloaded, approvalsReset)
	}

	return response.BookingToResponse(reloaded, today), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, claims *token.Claims, req *request.CancelBookingRequest) (*response.CancelResponse, error) {
	id, err := s.requesterAccess(bookingID, claims)
	if err != nil {
		return nil, err
	}

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

	today := utils.Today(s.clock)
	now := s.clock.Now()

	err = s.txm.InTx(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if booking == nil {
			return apperr.NotFound(msgNotFound)
		}

		if !strings.EqualFold(booking.RequesterEmail, claims.Email) {
			return apperr.Forbidden(msgNoAccess)
		}

		if booking.IsPast(today) {
			return apperr.Validation(msgPastReadOnly)
		}

		switch booking.Status {
		case entity.BookingStatusDenied:
			return apperr.Validation(msgCancelDenied)
		case entity.BookingStatusCanceled:
			// Idempotent: already canceled, same confirmation, no writes.
			return nil
		case entity.BookingStatusConfirmed:
			if comment == nil {
				return apperr.Validation(msgReasonRequired)
			}
		}

		booking.Status = entity.BookingStatusCanceled
		booking.UpdatedAt = now
		booking.LastActivityAt = now

		if err := r.Booking.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		var note *string
		if comment != nil {
			n := fmt.Sprintf("Comment: %s", *comment)
			note = &n
		}
		event := &entity.TimelineEvent{
			ID:        uuid.New(),
			BookingID: booking.ID,
			When:      now,
			Actor:     booking.RequesterFirstName,
			EventType: entity.EventCanceled,
			Note:      note,
		}
		if err := r.Timeline.Create(ctx, event); err != nil {
			return fmt.Errorf("create canceled event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking canceled", zap.String("booking_id", id.String()))

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err == nil && booking != nil {
		s.notifier.BookingCanceled(ctx, booking, comment)
	}

	return &response.CancelResponse{Message: msgCanceled()}, nil
}

// requesterAccess checks the token binding shared by update and cancel:
// requester role, and the token minted for this very booking.
func (s *bookingService) requesterAccess(bookingID string, claims *token.Claims) (uuid.UUID, error) {
	if claims == nil {
		return uuid.Nil, apperr.Unauthorized(msgInvalidLink)
	}
	if claims.Role != token.RoleRequester {
		return uuid.Nil, apperr.Forbidden(msgNoAccess)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return uuid.Nil, apperr.NotFound(msgNotFound)
	}

	if claims.BookingID != id.String() {
		return uuid.Nil, apperr.Forbidden(msgNoAccess)
	}

	return id, nil
}

// validateDateRange enforces the shared date policy: end >= start, the
// range has not already passed, and the start is within the horizon.
func (s *bookingService) validateDateRange(start, end, today time.Time) error {
	if end.Before(start) {
		return apperr.Validation(msgEndBeforeStart)
	}
	if end.Before(today) {
		return apperr.Validation(msgPastReadOnly)
	}
	horizon := today.AddDate(0, s.cfg.FutureHorizonMonths, 0)
	if start.After(horizon) {
		return apperr.Validation(msgFutureHorizon(s.cfg.FutureHorizonMonths))
	}
	return nil
}
