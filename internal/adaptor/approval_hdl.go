package adaptor

import (
	"encoding/json"
	"net/http"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ApprovalHandler struct {
	service usecase.ApprovalService
	log     *zap.Logger
}

func NewApprovalHandler(service usecase.ApprovalService, log *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		service: service,
		log:     log.With(zap.String("handler", "approval")),
	}
}

// RecordDecision handles POST /api/v1/bookings/{id}/approvals (approver token)
func (h *ApprovalHandler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	claims, _ := utils.GetClaimsFromContext(r.Context())

	var req request.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", validationErrors)
		return
	}

	booking, err := h.service.RecordDecision(r.Context(), bookingID, claims, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "record decision")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
