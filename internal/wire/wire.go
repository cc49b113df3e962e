package wire

import (
	"net/http"

	"cabin-booking/internal/adaptor"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/database"
	"cabin-booking/pkg/middleware"
	"cabin-booking/pkg/token"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(db database.PgxIface, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	loc, err := config.Booking.Location()
	if err != nil {
		return nil, err
	}

	signer := token.NewSigner(config.Token.Secret)
	clock := utils.NewTZClock(loc)
	txm := repository.NewTxManager(db, logger)
	notifier := usecase.NewLogNotifier(repo.ApproverParty, signer, config.App, logger)

	service := usecase.NewService(repo, txm, config.Booking, clock, notifier, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, signer, logger)

	return &App{Router: router}, nil
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, signer *token.Signer, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireBooking(r, handler, signer, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
