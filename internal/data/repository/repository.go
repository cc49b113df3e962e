package repository

import (
	"context"
	"fmt"

	"cabin-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	Booking       BookingRepository
	Approval      ApprovalRepository
	Timeline      TimelineRepository
	ApproverParty ApproverPartyRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Booking:       NewBookingRepository(db, log),
		Approval:      NewApprovalRepository(db, log),
		Timeline:      NewTimelineRepository(db, log),
		ApproverParty: NewApproverPartyRepository(db, log),
	}
}

// TxManager runs a function against a transaction-bound Repository. Every
// lifecycle operation commits all of its row mutations or none of them.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repository) error) error
}

type pgxTxManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &pgxTxManager{db: db, log: log.With(zap.String("component", "tx"))}
}

// InTx opens a serializable transaction. Serializable isolation closes the
// race between the conflict check and the insert under concurrent
// overlapping submissions: at most one of two racing transactions commits.
func (m *pgxTxManager) InTx(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(NewRepository(tx, m.log)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
