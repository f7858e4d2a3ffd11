package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desynflow_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "desynflow_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desynflow_uploads_total",
			Help: "File uploads by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	StateConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desynflow_state_conflicts_total",
			Help: "Optimistic-concurrency conflicts by entity",
		},
		[]string{"entity"},
	)
)
