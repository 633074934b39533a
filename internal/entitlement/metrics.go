package entitlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "entitlement",
		Name:      "cache_hits_total",
		Help:      "Config document reads served from the gate's TTL cache.",
	}, []string{"document"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "entitlement",
		Name:      "cache_misses_total",
		Help:      "Config document reads that went to the store.",
	}, []string{"document"})

	safeDefaultFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "entitlement",
		Name:      "safe_default_fallbacks_total",
		Help:      "Gate decisions served from the hard-coded safe defaults because the store was unreachable.",
	}, []string{"document"})

	denials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "entitlement",
		Name:      "denials_total",
		Help:      "Gate denials by reason.",
	}, []string{"reason"})
)
