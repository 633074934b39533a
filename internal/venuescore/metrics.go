package venuescore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "venuescore",
		Name:      "recomputes_total",
		Help:      "Single-venue recomputations by outcome.",
	}, []string{"outcome"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gatehouse",
		Subsystem: "venuescore",
		Name:      "sweep_duration_seconds",
		Help:      "Wall time of full fleet sweeps.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	sweepFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "venuescore",
		Name:      "sweep_fallbacks_total",
		Help:      "Venues written with default components because their counts could not be read.",
	})
)
