package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/worklense/hrbi-backend-go/internal/config"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/middleware"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
	"github.com/worklense/hrbi-backend-go/internal/pkg/metrics"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Dashboard DashboardHandler
	Data      DataHandler
	Events    EventsHandler
}

// NewRouter builds the API router. A nil JWTService disables authentication;
// a nil metrics manager leaves /metrics unmounted.
func NewRouter(cfg *config.Config, JWTService jwt.Service, metricsManager *metrics.Manager, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	if metricsManager != nil {
		r.Use(metricsManager.Middleware)
	}
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if metricsManager != nil {
		r.Method(http.MethodGet, "/metrics", metricsManager.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Authenticated by the ?token= query parameter
		r.Get("/events", h.Events.Stream)

		r.Group(func(r chi.Router) {
			if JWTService != nil {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			}

			r.Get("/events/token", h.Events.Token)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.Dashboard.ListReports)
				r.Post("/{reportID}/render", h.Dashboard.Render)
			})
			r.Get("/filters", h.Dashboard.FilterOptions)
			r.Get("/fiscal-years", h.Dashboard.FiscalYears)
			r.Get("/charts", h.Dashboard.Charts)
			r.Get("/status", h.Dashboard.Status)

			r.Route("/data", func(r chi.Router) {
				// Admin only
				if JWTService != nil {
					r.Use(middleware.AdminOnly)
				}
				r.Post("/reload", h.Data.Reload)
				r.Post("/{source}", h.Data.Upload)
			})
		})
	})
	return r
}
