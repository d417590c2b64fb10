package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfilter_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listfilter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	NodeExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfilter_node_executions_total",
			Help: "Total number of node executions",
		},
		[]string{"node"},
	)

	// Items seen by a node and items it let through.
	NodeItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listfilter_node_items_total",
			Help: "Items processed by nodes, split by direction",
		},
		[]string{"node", "direction"},
	)

	RunsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listfilter_runs_pruned_total",
			Help: "Run history records removed by retention",
		},
	)
)
