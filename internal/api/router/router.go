package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/buildquick/booking-api/internal/http/handlers"
	httpmiddleware "github.com/buildquick/booking-api/internal/http/middleware"
	"github.com/buildquick/booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CalendlyHandler    *handlers.CalendlyHandler
	AdminHandler       *handlers.AdminHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.CalendlyHandler != nil {
			public.Get("/api/calendly", cfg.CalendlyHandler.Handle)
			public.Post("/api/calendly", cfg.CalendlyHandler.Handle)
			// Direct alias for provider webhook subscriptions.
			public.Post("/webhooks/calendly", cfg.CalendlyHandler.HandleWebhookDirect)
		}
	})

	// Admin endpoints (JWT-protected)
	if cfg.AdminHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/bookings", cfg.AdminHandler.ListBookings)
			admin.Get("/webhook-events", cfg.AdminHandler.ListWebhookEvents)
		})
	}

	return r
}
