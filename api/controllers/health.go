package controllers

import (
	"net/http"

	"github.com/oakmont/storefront/api/responses"
	"github.com/oakmont/storefront/pkg/config"
	"github.com/oakmont/storefront/pkg/db"
	"github.com/oakmont/storefront/pkg/logger"
	"github.com/oakmont/storefront/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		status := map[string]string{"status": "ready", "db": "ok", "redis": "ok"}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				healthy = false
				status["db"] = "unreachable"
				if logg != nil {
					logg.Error(r.Context(), "db readiness check failed", err)
				}
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				healthy = false
				status["redis"] = "unreachable"
				if logg != nil {
					logg.Error(r.Context(), "redis readiness check failed", err)
				}
			}
		}

		if !healthy {
			status["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
