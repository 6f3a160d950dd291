// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_requests_total",
			Help: "Total number of advisory requests by transport",
		},
		[]string{"transport"},
	)

	RequestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_request_failures_total",
			Help: "Total number of failed advisory requests by transport and error kind",
		},
		[]string{"transport", "kind"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "advisor_request_duration_seconds",
			Help: "Duration of advisory request processing in seconds",
		},
		[]string{"transport"},
	)

	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_capability_calls_total",
			Help: "Total number of capability invocations made by the advisory engine",
		},
		[]string{"capability", "outcome"},
	)
)
