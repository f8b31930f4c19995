package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"obskit/internal/config"
	"obskit/internal/observability/logging"
	"obskit/internal/observability/tracing"
	"obskit/pkg/correlation"
	"obskit/pkg/obs"
	"obskit/pkg/telemetry"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status string        `json:"status"`
	Checks []CheckStatus `json:"checks"`
}

// CheckStatus reports the latest result of one named health check.
type CheckStatus struct {
	Name      string            `json:"name"`
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// newServer builds the daemon's HTTP server:
//   - GET /metrics  - Prometheus registry, including bridged sample data
//   - GET /export   - stored metrics rendered as Prometheus text directly
//   - GET /healthz  - latest stored health checks, 503 when any is unhealthy
func newServer(cfg config.ServerConfig, toolkit *obs.Toolkit, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/export", exportHandler(toolkit, logger))
	mux.HandleFunc("/healthz", healthHandler(toolkit))

	handler := correlation.Middleware(tracing.Middleware(mux))

	return &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// exportHandler serves the stored metrics in Prometheus text exposition
// format, rendered from the entities themselves rather than the registry.
func exportHandler(toolkit *obs.Toolkit, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := toolkit.ExportPrometheus()
		if res.IsFailure() {
			logging.WithCorrelationID(r.Context(), logger).Error("export failed",
				slog.Any("error", res.Err()))
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(res.Value()))
	}
}

// healthHandler aggregates the latest stored health check per name. The
// overall status is the worst individual one; unhealthy maps to 503.
func healthHandler(toolkit *obs.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := latestHealthChecks(toolkit)

		overall := telemetry.StatusHealthy
		statuses := make([]CheckStatus, 0, len(checks))
		for _, hc := range checks {
			statuses = append(statuses, CheckStatus{
				Name:      hc.Name,
				Status:    string(hc.Status),
				Message:   hc.Message,
				Details:   hc.Details,
				CheckedAt: hc.CheckedAt,
			})
			overall = worseStatus(overall, hc.Status)
		}

		code := http.StatusOK
		if overall == telemetry.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: string(overall),
			Checks: statuses,
		})
	}
}

// latestHealthChecks returns the most recent stored check per name, in the
// order each name first appeared.
func latestHealthChecks(toolkit *obs.Toolkit) []telemetry.HealthCheck {
	all := toolkit.Store().Snapshot().HealthChecks

	index := make(map[string]int, len(all))
	var latest []telemetry.HealthCheck
	for _, hc := range all {
		if i, ok := index[hc.Name]; ok {
			latest[i] = hc
			continue
		}
		index[hc.Name] = len(latest)
		latest = append(latest, hc)
	}
	return latest
}

func worseStatus(a, b telemetry.HealthStatus) telemetry.HealthStatus {
	rank := map[telemetry.HealthStatus]int{
		telemetry.StatusHealthy:   0,
		telemetry.StatusDegraded:  1,
		telemetry.StatusUnhealthy: 2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
