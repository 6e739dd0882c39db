package inspector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeOK        = "ok"
	outcomeRecovered = "recovered"
	outcomeFailed    = "failed"
)

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docinspect_operations_total",
	Help: "Inspector operations by name and outcome.",
}, []string{"operation", "outcome"})

var operationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "docinspect_operation_seconds",
	Help:    "Latency of inspector operations.",
	Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
}, []string{"operation"})
