package wire

import (
	"cabin-booking/internal/adaptor"
	"cabin-booking/pkg/middleware"
	"cabin-booking/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, handler *adaptor.Handler, signer *token.Signer, log *zap.Logger) {
	r.Route("/api/v1/bookings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// POST /api/v1/bookings - submit a new booking request
		r.Post("/", handler.Booking.CreateBooking)

		// GET /api/v1/bookings?year=&month= - public calendar listing
		r.Get("/", handler.Booking.ListMonth)

		// GET /api/v1/bookings/{id} - public view, full view with ?token=
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalToken(signer, log))
			r.Get("/{id}", handler.Booking.GetBooking)
		})

		// ==================== LINK-AUTHENTICATED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(signer, log))

			// GET /api/v1/bookings/mine - requester's own bookings
			r.Get("/mine", handler.Booking.ListMine)

			// PATCH /api/v1/bookings/{id} - edit (requester link)
			r.Patch("/{id}", handler.Booking.UpdateBooking)

			// DELETE /api/v1/bookings/{id} - cancel (requester link)
			r.Delete("/{id}", handler.Booking.CancelBooking)

			// POST /api/v1/bookings/{id}/approvals - decision (approver link)
			r.Post("/{id}/approvals", handler.Approval.RecordDecision)
		})
	})
}
