package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/handlers"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	HealthHandler  *handlers.HealthHandler
	ExportHandler  *handlers.ExportHandler
	OrgHandler     *handlers.OrgHandler
	RequireSession func(http.Handler) http.Handler // admin session cookie for app routes
	Log            zerolog.Logger
	Secure         func(http.Handler) http.Handler
	CORS           func(http.Handler) http.Handler
	IPRateLimit    func(http.Handler) http.Handler
	Metrics        bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth/webex", func(r chi.Router) {
		r.Get("/", cfg.AuthHandler.Login)
		r.Get("/callback", cfg.AuthHandler.Callback)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	// Everything below needs an authenticated admin session.
	r.Group(func(r chi.Router) {
		if cfg.RequireSession != nil {
			r.Use(cfg.RequireSession)
		}
		r.Post("/export-users", cfg.ExportHandler.ExportUsers)
		r.Post("/export-workspaces", cfg.OrgHandler.ExportWorkspaces)
		r.Get("/licenses", cfg.OrgHandler.Licenses)
		r.Get("/locations", cfg.OrgHandler.Locations)
		r.Get("/locations/{locationID}/floors", cfg.OrgHandler.Floors)
		r.Get("/my-organization", cfg.OrgHandler.MyOrganization)
		r.Get("/my-name", cfg.OrgHandler.MyName)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
