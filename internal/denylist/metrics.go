package denylist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var refreshCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "denylist_refresh_attempts",
	Help: "Number of denylist refresh attempts, by result",
}, []string{"result"})

var refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "denylist_refresh_duration_seconds",
	Help: "Duration of denylist fetch attempts in seconds",
})

var entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "denylist_entries",
	Help: "Number of entries in the installed denylist",
})

var lastSuccessGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "denylist_last_success_unix",
	Help: "Unix time of the last successful denylist refresh",
})
