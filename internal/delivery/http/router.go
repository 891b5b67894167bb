package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"applicantdesk/internal/delivery/http/controllers"
	"applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/delivery/http/middleware"
	"applicantdesk/internal/domain"
)

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	CheckIn    *controllers.CheckInController
	Applicants *controllers.ApplicantController
	EmailLogs  *controllers.EmailLogController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except login, the provider webhook and health is organizer-only.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Check-in desk and meal stations
	mux.HandleFunc("POST /checkin", auth(c.CheckIn.CheckIn))

	// Applicants
	mux.HandleFunc("GET /applicants", auth(c.Applicants.List))
	mux.HandleFunc("POST /applicants/batch-admit", auth(c.Applicants.BatchAdmit))
	mux.HandleFunc("GET /applicants/{applicantID}", auth(c.Applicants.Get))
	mux.HandleFunc("POST /applicants/{applicantID}/decision", auth(c.Applicants.Decide))

	// Email events
	mux.HandleFunc("POST /webhooks/email", c.EmailLogs.Webhook)
	mux.HandleFunc("GET /email-logs", auth(c.EmailLogs.List))
	mux.HandleFunc("POST /email-logs/delivery-status", auth(c.EmailLogs.DeliveryStatus))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
