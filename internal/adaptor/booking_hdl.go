package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/v1/bookings (public)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/v1/bookings/{id}. With a valid token it
// returns the full view; without one, the restricted public view.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	if claims, ok := utils.GetClaimsFromContext(r.Context()); ok {
		booking, err := h.service.GetBooking(r.Context(), bookingID, claims)
		if err != nil {
			writeServiceError(w, h.log, err, "get booking")
			return
		}
		utils.ResponseSuccess(w, "success", booking)
		return
	}

	booking, err := h.service.GetPublicBooking(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get public booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListMonth handles GET /api/v1/bookings?year=&month= (public calendar)
func (h *BookingHandler) ListMonth(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", nil)
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", nil)
		return
	}

	bookings, err := h.service.ListMonth(r.Context(), year, time.Month(month))
	if err != nil {
		writeServiceError(w, h.log, err, "list month")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ListMine handles GET /api/v1/bookings/mine (requester token)
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := utils.GetClaimsFromContext(r.Context())

	bookings, err := h.service.ListMine(r.Context(), claims)
	if err != nil {
		writeServiceError(w, h.log, err, "list own bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBooking handles PATCH /api/v1/bookings/{id} (requester token)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	claims, _ := utils.GetClaimsFromContext(r.Context())

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Ungültige Anfrage.", nil)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), bookingID, claims, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles DELETE /api/v1/bookings/{id} (requester token).
// The body is optional; a Confirmed booking requires a comment.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	claims, _ := utils.GetClaimsFromContext(r.Context())

	var req request.CancelBookingRequest
	if r.Body != nil {
		// An empty body is a cancel without comment, not an error.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.service.CancelBooking(r.Context(), bookingID, claims, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, result.Message, nil)
}
