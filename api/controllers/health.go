package controllers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/pkg/config"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

const envHeader = "X-Warehouse-Env"

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency and fails with 503 listing the
// ones that did not answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var failed []string
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.ready.failed", err)
				}
				failed = append(failed, name)
			}
		}
		if len(failed) > 0 {
			slices.Sort(failed)
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "unavailable: "+strings.Join(failed, ", ")))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
