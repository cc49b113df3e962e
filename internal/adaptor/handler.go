package adaptor

import (
	"cabin-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking  *BookingHandler
	Approval *ApprovalHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:  NewBookingHandler(service.Booking, log),
		Approval: NewApprovalHandler(service.Approval, log),
	}
}
