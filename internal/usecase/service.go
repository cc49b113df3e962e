package usecase

import (
	"cabin-booking/internal/data/repository"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking  BookingService
	Approval ApprovalService
}

func NewService(
	repo *repository.Repository,
	txm repository.TxManager,
	cfg utils.BookingConfig,
	clock utils.Clock,
	notifier Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		Booking:  NewBookingService(repo, txm, cfg, clock, notifier, log),
		Approval: NewApprovalService(repo, txm, cfg, clock, notifier, log),
	}
}
