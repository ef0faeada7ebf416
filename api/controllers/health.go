package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/pkg/config"
)

type healthPinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Treadstock-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the database and cache dependencies.
func HealthReady(cfg *config.Config, dbPing, redisPing healthPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Treadstock-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"db": "ok", "redis": "ok"}
		healthy := true

		if dbPing == nil {
			checks["db"] = "not configured"
			healthy = false
		} else if err := dbPing.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			healthy = false
		}

		if redisPing == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := redisPing.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{"status": checks})
	}
}
