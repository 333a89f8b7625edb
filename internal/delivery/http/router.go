package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every attendee and ticket route requires a bearer token; mutating ticket
// routes and admin registration routes additionally require the admin role.
func NewRouter(
	attendeeController *controllers.AttendeeController,
	ticketController *controllers.TicketController,
	authController *controllers.AuthController,
	healthController *controllers.HealthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	admin := middleware.RequireRole("admin")

	// Attendees
	mux.HandleFunc("POST /attendees", auth(admin(attendeeController.Create)))
	mux.HandleFunc("POST /attendees/register", auth(attendeeController.RegisterSelf))
	mux.HandleFunc("GET /attendees", auth(attendeeController.List))
	mux.HandleFunc("GET /attendees/{id}", auth(attendeeController.GetByID))
	mux.HandleFunc("GET /attendees/event/{eventID}", auth(attendeeController.ListByEvent))
	mux.HandleFunc("GET /attendees/event/{eventID}/stats", auth(attendeeController.EventStats))
	mux.HandleFunc("GET /attendees/user/{userID}", auth(attendeeController.ListByUser))
	mux.HandleFunc("PUT /attendees/{id}", auth(admin(attendeeController.Update)))
	mux.HandleFunc("PUT /attendees/{id}/status", auth(admin(attendeeController.UpdateStatus)))
	mux.HandleFunc("PUT /attendees/{id}/payment", auth(admin(attendeeController.RecordPayment)))
	mux.HandleFunc("DELETE /attendees/{id}", auth(admin(attendeeController.Delete)))

	// Tickets
	mux.HandleFunc("POST /tickets", auth(admin(ticketController.Create)))
	mux.HandleFunc("GET /tickets", auth(ticketController.List))
	mux.HandleFunc("GET /tickets/available", auth(ticketController.ListAvailable))
	mux.HandleFunc("GET /tickets/{id}", auth(ticketController.GetByID))
	mux.HandleFunc("GET /tickets/event/{eventID}", auth(ticketController.ListByEvent))
	mux.HandleFunc("GET /tickets/event/{eventID}/available", auth(ticketController.ListAvailableByEvent))
	mux.HandleFunc("PATCH /tickets/{id}", auth(admin(ticketController.Update)))
	mux.HandleFunc("PATCH /tickets/{id}/quantity", auth(admin(ticketController.SetQuantity)))
	mux.HandleFunc("PATCH /tickets/{id}/decrease", auth(admin(ticketController.Decrease)))
	mux.HandleFunc("PATCH /tickets/{id}/increase", auth(admin(ticketController.Increase)))
	mux.HandleFunc("DELETE /tickets/{id}", auth(admin(ticketController.Delete)))

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Operational endpoints
	mux.HandleFunc("GET /health", healthController.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
