package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/verdemart/verdemart-backend/api/responses"
	"github.com/verdemart/verdemart-backend/pkg/db"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/logger"
	redisclient "github.com/verdemart/verdemart-backend/pkg/redis"
)

// HealthLive reports process liveness without touching any dependency.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "alive"})
	}
}

// HealthReady pings every hard dependency and aggregates the failures so a
// single probe response shows everything that is down.
func HealthReady(database db.Pinger, cache redisclient.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var errs error
		if database == nil {
			errs = multierr.Append(errs, fmt.Errorf("postgres: not configured"))
		} else if err := database.Ping(r.Context()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("postgres: %w", err))
		}
		if cache == nil {
			errs = multierr.Append(errs, fmt.Errorf("redis: not configured"))
		} else if err := cache.Ping(r.Context()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("redis: %w", err))
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, errs.Error()))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
