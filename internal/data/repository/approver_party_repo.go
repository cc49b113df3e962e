package repository

import (
	"context"
	"fmt"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ApproverPartyRepository interface {
	FindAll(ctx context.Context) ([]*entity.ApproverParty, error)
	FindByParty(ctx context.Context, party entity.Party) (*entity.ApproverParty, error)
}

type approverPartyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewApproverPartyRepository(db database.Querier, log *zap.Logger) ApproverPartyRepository {
	return &approverPartyRepository{
		db:  db,
		log: log.With(zap.String("repository", "approver_party")),
	}
}

func (r *approverPartyRepository) FindAll(ctx context.Context) ([]*entity.ApproverParty, error) {
	query := `SELECT party, email, notification_enabled FROM approver_parties ORDER BY party`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list approver parties", zap.Error(err))
		return nil, fmt.Errorf("list approver parties: %w", err)
	}
	defer rows.Close()

	var parties []*entity.ApproverParty
	for rows.Next() {
		var p entity.ApproverParty
		if err := rows.Scan(&p.Party, &p.Email, &p.NotificationEnabled); err != nil {
			r.log.Error("Failed to scan approver party row", zap.Error(err))
			return nil, fmt.Errorf("scan approver party row: %w", err)
		}
		parties = append(parties, &p)
	}

	return parties, nil
}

func (r *approverPartyRepository) FindByParty(ctx context.Context, party entity.Party) (*entity.ApproverParty, error) {
	query := `SELECT party, email, notification_enabled FROM approver_parties WHERE party = $1`

	var p entity.ApproverParty
	err := r.db.QueryRow(ctx, query, party).Scan(&p.Party, &p.Email, &p.NotificationEnabled)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find approver party",
			zap.Error(err),
			zap.String("party", string(party)),
		)
		return nil, fmt.Errorf("find approver party %s: %w", party, err)
	}

	return &p, nil
}
