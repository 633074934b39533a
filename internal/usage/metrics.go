package usage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "usage",
		Name:      "checks_total",
		Help:      "Limit checks by outcome.",
	}, []string{"outcome"})

	increments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "usage",
		Name:      "increments_total",
		Help:      "Successful usage increments.",
	})

	storeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "usage",
		Name:      "store_failures_total",
		Help:      "Usage store operations that failed and denied the request.",
	}, []string{"op"})
)
