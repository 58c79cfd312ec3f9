package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mcruzdev/bundlecart-backend/api/responses"
	"github.com/mcruzdev/bundlecart-backend/pkg/config"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

const readyCheckTimeout = 3 * time.Second

// Pinger is the health probe surface shared by the datasource clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bundlecart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired datasource answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bundlecart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		probe := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				if logg != nil {
					logg.Error(ctx, "health."+name+".down", err)
				}
				return
			}
			checks[name] = "up"
		}

		probe("database", db)
		probe("redis", redis)

		if failed {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "datasource unavailable").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
