package repository

import (
	"context"
	"fmt"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TimelineRepository interface {
	Create(ctx context.Context, event *entity.TimelineEvent) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.TimelineEvent, error)
}

type timelineRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTimelineRepository(db database.Querier, log *zap.Logger) TimelineRepository {
	return &timelineRepository{
		db:  db,
		log: log.With(zap.String("repository", "timeline")),
	}
}

func (r *timelineRepository) Create(ctx context.Context, event *entity.TimelineEvent) error {
	query := `
		INSERT INTO timeline_events (id, booking_id, occurred_at, actor, event_type, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.BookingID,
		event.When,
		event.Actor,
		event.EventType,
		event.Note,
	)

	if err != nil {
		r.log.Error("Failed to create timeline event",
			zap.Error(err),
			zap.String("booking_id", event.BookingID.String()),
			zap.String("event_type", event.EventType),
		)
		return fmt.Errorf("create timeline event %s: %w", event.EventType, err)
	}

	return nil
}

// ListByBooking returns events newest first (canonical audit order).
func (r *timelineRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.TimelineEvent, error) {
	query := `
		SELECT id, booking_id, occurred_at, actor, event_type, note
		FROM timeline_events
		WHERE booking_id = $1
		ORDER BY occurred_at DESC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to list timeline events",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list timeline events for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var events []*entity.TimelineEvent
	for rows.Next() {
		var e entity.TimelineEvent
		if err := rows.Scan(&e.ID, &e.BookingID, &e.When, &e.Actor, &e.EventType, &e.Note); err != nil {
			r.log.Error("Failed to scan timeline event row", zap.Error(err))
			return nil, fmt.Errorf("scan timeline event row: %w", err)
		}
		events = append(events, &e)
	}

	return events, nil
}
