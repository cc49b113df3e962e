package repository

import (
	"context"
	"fmt"
	"time"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindWithRelations(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// Business queries
	FindConflicts(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	ListForMonth(ctx context.Context, year int, month time.Month) ([]*entity.Booking, error)
	ListByRequesterEmail(ctx context.Context, email string, limit int) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, requester_first_name, requester_email, start_date, end_date, total_days,
		       party_size, affiliation, description, status, created_at, updated_at, last_activity_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.RequesterFirstName,
		&b.RequesterEmail,
		&b.StartDate,
		&b.EndDate,
		&b.TotalDays,
		&b.PartySize,
		&b.Affiliation,
		&b.Description,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, requester_first_name, requester_email, start_date, end_date, total_days,
		                      party_size, affiliation, description, status, created_at, updated_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RequesterFirstName,
		booking.RequesterEmail,
		booking.StartDate,
		booking.EndDate,
		booking.TotalDays,
		booking.PartySize,
		booking.Affiliation,
		booking.Description,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
		booking.LastActivityAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

// FindWithRelations loads the booking together with its three approvals and
// timeline events (events newest first).
func (r *bookingRepository) FindWithRelations(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := r.FindByID(ctx, id)
	if err != nil || booking == nil {
		return booking, err
	}

	approvalQuery := `
		SELECT id, booking_id, party, decision, comment, decided_at, created_at
		FROM approvals
		WHERE booking_id = $1
		ORDER BY party
	`

	rows, err := r.db.Query(ctx, approvalQuery, id)
	if err != nil {
		r.log.Error("Failed to load approvals", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("load approvals for booking %s: %w", id.String(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.Approval
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Party, &a.Decision, &a.Comment, &a.DecidedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval row: %w", err)
		}
		booking.Approvals = append(booking.Approvals, &a)
	}

	eventQuery := `
		SELECT id, booking_id, occurred_at, actor, event_type, note
		FROM timeline_events
		WHERE booking_id = $1
		ORDER BY occurred_at DESC
	`

	eventRows, err := r.db.Query(ctx, eventQuery, id)
	if err != nil {
		r.log.Error("Failed to load timeline events", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("load timeline events for booking %s: %w", id.String(), err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var e entity.TimelineEvent
		if err := eventRows.Scan(&e.ID, &e.BookingID, &e.When, &e.Actor, &e.EventType, &e.Note); err != nil {
			return nil, fmt.Errorf("scan timeline event row: %w", err)
		}
		booking.TimelineEvents = append(booking.TimelineEvents, &e)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET requester_first_name = $2, start_date = $3, end_date = $4, total_days = $5,
		    party_size = $6, affiliation = $7, description = $8, status = $9,
		    updated_at = $10, last_activity_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RequesterFirstName,
		booking.StartDate,
		booking.EndDate,
		booking.TotalDays,
		booking.PartySize,
		booking.Affiliation,
		booking.Description,
		booking.Status,
		booking.UpdatedAt,
		booking.LastActivityAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

// FindConflicts returns bookings whose inclusive interval overlaps
// [start, end]. Only Pending and Confirmed bookings block; Denied and
// Canceled never do. The overlap predicate is
// existing.start <= $end AND existing.end >= $start.
func (r *bookingRepository) FindConflicts(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status IN ('Pending', 'Confirmed')
		  AND start_date <= $1
		  AND end_date >= $2
	`
	args := []any{end, start}

	if excludeID != nil {
		query += ` AND id != $3`
		args = append(args, *excludeID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find conflicting bookings", zap.Error(err))
		return nil, fmt.Errorf("find conflicting bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// ListForMonth returns Pending/Confirmed bookings overlapping the calendar
// month, ordered by start date.
func (r *bookingRepository) ListForMonth(ctx context.Context, year int, month time.Month) ([]*entity.Booking, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status IN ('Pending', 'Confirmed')
		  AND start_date <= $1
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query, monthEnd, monthStart)
	if err != nil {
		r.log.Error("Failed to list bookings for month",
			zap.Error(err),
			zap.Int("year", year),
			zap.Int("month", int(month)),
		)
		return nil, fmt.Errorf("list bookings for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) ListByRequesterEmail(ctx context.Context, email string, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE LOWER(requester_email) = LOWER($1)
		ORDER BY last_activity_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, email, limit)
	if err != nil {
		r.log.Error("Failed to list bookings by requester", zap.Error(err))
		return nil, fmt.Errorf("list bookings by requester: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
