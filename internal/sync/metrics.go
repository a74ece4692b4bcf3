package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allinone_sync_passes_total",
		Help: "Reconciliation passes by outcome.",
	}, []string{"status"})

	ticksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allinone_sync_ticks_skipped_total",
		Help: "Interval ticks skipped because a pass was still in flight.",
	})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "allinone_sync_pass_duration_seconds",
		Help:    "Duration of one reconciliation pass.",
		Buckets: prometheus.DefBuckets,
	})
)
