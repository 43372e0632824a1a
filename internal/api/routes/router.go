package routes

import (
	"net/http"

	"github.com/mentorloop/backend/internal/api/handlers"
	"github.com/mentorloop/backend/internal/api/middleware"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	webhookHandler      *handlers.WebhookHandler
	syncHandler         *handlers.SyncHandler
	mentorHandler       *handlers.MentorHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	webhookHandler *handlers.WebhookHandler,
	syncHandler *handlers.SyncHandler,
	mentorHandler *handlers.MentorHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		webhookHandler:      webhookHandler,
		syncHandler:         syncHandler,
		mentorHandler:       mentorHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoints
	r.mux.HandleFunc("GET /api/availability/month", r.availabilityHandler.GetMonth)
	r.mux.HandleFunc("GET /api/availability/day", r.availabilityHandler.GetDay)
	r.mux.HandleFunc("GET /api/availability/range", r.availabilityHandler.GetRange)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.Create)
	r.mux.HandleFunc("GET /api/bookings", r.bookingHandler.List)
	r.mux.HandleFunc("GET /api/bookings/{id}", r.bookingHandler.Get)
	r.mux.HandleFunc("POST /api/bookings/{id}/cancel", r.bookingHandler.Cancel)

	// Mentor listing
	r.mux.HandleFunc("GET /api/mentors", r.mentorHandler.List)

	// Scheduling provider webhook
	r.mux.HandleFunc("POST /api/webhooks/appointment", r.webhookHandler.HandleAppointmentEvent)

	// Reconciliation triggers
	r.mux.HandleFunc("POST /api/sync/bulk", r.syncHandler.SyncBulk)
	r.mux.HandleFunc("POST /api/sync/user", r.syncHandler.SyncUser)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
