package controllers

import (
	"context"
	"net/http"

	"github.com/fixpointhq/fixpoint-backend/api/responses"
	"github.com/fixpointhq/fixpoint-backend/pkg/config"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
)

const envHeader = "X-Fixpoint-Env"

// Pinger exposes the health check surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, pubsubP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]Pinger{
			"db":     dbP,
			"redis":  redisP,
			"pubsub": pubsubP,
		}

		failed := map[string]string{}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").
				WithDetails(failed)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
