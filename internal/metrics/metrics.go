// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnippetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notecode_snippets_created_total",
		Help: "no. of snippets persisted",
	})
	IDCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notecode_snippet_id_collisions_total",
		Help: "no. of generated ids rejected by the store as duplicates and regenerated",
	})
	SnippetLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notecode_snippet_lookups_total",
			Help: "no. of snippet lookups by result",
		},
		[]string{"result"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notecode_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Lookup result labels.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)
