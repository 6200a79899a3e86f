package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hillview-school/school-cms/api/controllers"
	"github.com/hillview-school/school-cms/api/middleware"
	"github.com/hillview-school/school-cms/internal/admins"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/internal/search"
	"github.com/hillview-school/school-cms/pkg/auth/session"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/metrics"
	"github.com/hillview-school/school-cms/pkg/redis"
)

// Mount registers one content collection under /api/{entity}.
type Mount func(r chi.Router, guard func(http.Handler) http.Handler, idempotent func(http.Handler) http.Handler, logg *logger.Logger)

// Content mounts the five CRUD routes of svc. Reads are public; writes need
// an admin token. Creates additionally honour Idempotency-Key.
func Content[T any](svc content.Service[T]) Mount {
	return func(r chi.Router, guard, idempotent func(http.Handler) http.Handler, logg *logger.Logger) {
		r.Route("/"+svc.Entity(), func(r chi.Router) {
			r.Get("/", controllers.ListContent(svc, logg))
			r.Get("/{id}", controllers.GetContent(svc, logg))

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.With(idempotent).Post("/", controllers.CreateContent(svc, logg))
				r.Put("/{id}", controllers.UpdateContent(svc, logg))
				r.Patch("/{id}", controllers.UpdateContent(svc, logg))
				r.Delete("/{id}", controllers.DeleteContent(svc, logg))
			})
		})
	}
}

// Deps is everything the router wires. Revocations and Idempotency are nil
// when Redis is not configured.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	Health         map[string]controllers.Pinger
	Admins         admins.Service
	Revocations    session.Checker
	Idempotency    redis.IdempotencyStore
	Search         *search.Service
	Collections    []Mount
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Health, logg))
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	guard := middleware.Auth(cfg.JWT, deps.Revocations, logg)
	idempotent := func(next http.Handler) http.Handler { return next }
	if cfg.FeatureFlags.Idempotency && deps.Idempotency != nil {
		idempotent = middleware.Idempotency(deps.Idempotency, cfg.Redis.IdempotencyTTL, logg)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.Uploads.MaxRequestBytes(), logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(deps.Admins, logg))
			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Post("/logout", controllers.AuthLogout(deps.Admins, logg))
				r.Get("/me", controllers.AuthMe(deps.Admins, logg))
			})
		})

		if deps.Search != nil {
			r.Get("/search", controllers.Search(deps.Search, logg))
		}

		for _, mount := range deps.Collections {
			mount(r, guard, idempotent, logg)
		}
	})

	return r
}
