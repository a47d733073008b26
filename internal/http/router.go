package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/example/appointment-scheduler/internal/jalali"
)

// RouterConfig collects the handlers and cross-cutting settings for the API.
type RouterConfig struct {
	Availability  *AvailabilityHandler
	Appointments  *AppointmentHandler
	Logger        *slog.Logger
	DefaultLocale jalali.Locale
	CORSOrigins   []string
	Healthcheck   func() error
}

// NewRouter assembles the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(RequestLogger(cfg.Logger))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	locale := cfg.DefaultLocale
	if locale == "" {
		locale = jalali.LocalePersian
	}
	router.Use(ResolveLocale(locale))

	router.Get("/healthz", healthHandler(cfg.Healthcheck))

	if cfg.Availability != nil {
		router.Route("/organizations/{orgID}/availability", func(r chi.Router) {
			r.Get("/", cfg.Availability.Day)
			r.Get("/range", cfg.Availability.Range)
		})
	}

	if cfg.Appointments != nil {
		router.Route("/appointments", func(r chi.Router) {
			r.Post("/", cfg.Appointments.Create)
			r.Get("/", cfg.Appointments.List)
			r.Get("/{id}", cfg.Appointments.Get)
			r.Patch("/{id}/status", cfg.Appointments.UpdateStatus)
		})
	}

	return router
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
