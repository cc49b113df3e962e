package repository

import (
	"context"
	"fmt"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ApprovalRepository interface {
	CreateBatch(ctx context.Context, approvals []*entity.Approval) error
	FindByBookingAndParty(ctx context.Context, bookingID uuid.UUID, party entity.Party) (*entity.Approval, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Approval, error)
	Update(ctx context.Context, approval *entity.Approval) error
	ResetByBooking(ctx context.Context, bookingID uuid.UUID) error
}

type approvalRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewApprovalRepository(db database.Querier, log *zap.Logger) ApprovalRepository {
	return &approvalRepository{
		db:  db,
		log: log.With(zap.String("repository", "approval")),
	}
}

func (r *approvalRepository) CreateBatch(ctx context.Context, approvals []*entity.Approval) error {
	query := `
		INSERT INTO approvals (id, booking_id, party, decision, comment, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, approval := range approvals {
		_, err := r.db.Exec(ctx, query,
			approval.ID,
			approval.BookingID,
			approval.Party,
			approval.Decision,
			approval.Comment,
			approval.DecidedAt,
			approval.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create approval",
				zap.Error(err),
				zap.String("booking_id", approval.BookingID.String()),
				zap.String("party", string(approval.Party)),
			)
			return fmt.Errorf("create approval for %s: %w", approval.Party, err)
		}
	}

	return nil
}

func (r *approvalRepository) FindByBookingAndParty(ctx context.Context, bookingID uuid.UUID, party entity.Party) (*entity.Approval, error) {
	query := `
		SELECT id, booking_id, party, decision, comment, decided_at, created_at
		FROM approvals
		WHERE booking_id = $1 AND party = $2
	`

	var a entity.Approval
	err := r.db.QueryRow(ctx, query, bookingID, party).Scan(
		&a.ID, &a.BookingID, &a.Party, &a.Decision, &a.Comment, &a.DecidedAt, &a.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find approval",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("party", string(party)),
		)
		return nil, fmt.Errorf("find approval for booking %s party %s: %w", bookingID.String(), party, err)
	}

	return &a, nil
}

func (r *approvalRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Approval, error) {
	query := `
		SELECT id, booking_id, party, decision, comment, decided_at, created_at
		FROM approvals
		WHERE booking_id = $1
		ORDER BY party
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to list approvals",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("list approvals for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Party, &a.Decision, &a.Comment, &a.DecidedAt, &a.CreatedAt); err != nil {
			r.log.Error("Failed to scan approval row", zap.Error(err))
			return nil, fmt.Errorf("scan approval row: %w", err)
		}
		approvals = append(approvals, &a)
	}

	return approvals, nil
}

func (r *approvalRepository) Update(ctx context.Context, approval *entity.Approval) error {
	query := `
		UPDATE approvals
		SET decision = $2, comment = $3, decided_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		approval.ID,
		approval.Decision,
		approval.Comment,
		approval.DecidedAt,
	)

	if err != nil {
		r.log.Error("Failed to update approval",
			zap.Error(err),
			zap.String("approval_id", approval.ID.String()),
		)
		return fmt.Errorf("update approval %s: %w", approval.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("approval %s not found", approval.ID.String())
	}

	return nil
}

// ResetByBooking puts all three approvals of a booking back to NoResponse.
// Used when a date-range extension invalidates existing sign-off.
func (r *approvalRepository) ResetByBooking(ctx context.Context, bookingID uuid.UUID) error {
	query := `
		UPDATE approvals
		SET decision = 'NoResponse', comment = NULL, decided_at = NULL
		WHERE booking_id = $1
	`

	_, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to reset approvals",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("reset approvals for booking %s: %w", bookingID.String(), err)
	}

	return nil
}
