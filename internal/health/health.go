// Package health serves the liveness endpoint and Prometheus metrics.
package health

import (
	"encoding/json"
	"net/http"
	"time"

	"sentinel-denylist/internal/denylist"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StatsSource interface {
	Stats() denylist.Stats
}

type denylistStatus struct {
	Entries     int        `json:"entries"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Refreshes   uint64     `json:"refreshes"`
	Failures    uint64     `json:"failures"`
}

func NewRouter(stats StatsSource) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("verbose") != "1" || stats == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"denylist": toStatus(stats.Stats()),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func toStatus(stats denylist.Stats) denylistStatus {
	status := denylistStatus{
		Entries:   stats.Entries,
		Refreshes: stats.Refreshes,
		Failures:  stats.Failures,
	}
	if !stats.LastAttempt.IsZero() {
		attempt := stats.LastAttempt.UTC()
		status.LastAttempt = &attempt
	}
	if !stats.LastSuccess.IsZero() {
		success := stats.LastSuccess.UTC()
		status.LastSuccess = &success
	}
	if stats.LastError != nil {
		status.LastError = stats.LastError.Error()
	}
	return status
}
