package controllers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hillview-school/school-cms/api/responses"
	"github.com/hillview-school/school-cms/pkg/config"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is one dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SchoolCMS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency concurrently. Nil pingers are
// reported as disabled.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SchoolCMS-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		results := make(map[string]string, len(deps))
		errs := make(map[string]error, len(deps))
		type result struct {
			name string
			err  error
		}
		out := make(chan result, len(deps))

		var g errgroup.Group
		for name, dep := range deps {
			if dep == nil {
				results[name] = "disabled"
				continue
			}
			g.Go(func() error {
				out <- result{name: name, err: dep.Ping(ctx)}
				return nil
			})
		}
		_ = g.Wait()
		close(out)

		for res := range out {
			if res.err != nil {
				results[res.name] = "unavailable"
				errs[res.name] = res.err
				continue
			}
			results[res.name] = "ok"
		}

		if len(errs) > 0 {
			for name, err := range errs {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.ready.failed", err)
				}
			}
			err := pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(results)
			responses.WriteError(r.Context(), nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": results})
	}
}
