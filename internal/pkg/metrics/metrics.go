// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incidentcommand"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// IncidentsCreated counts incidents created, by channel type.
	IncidentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "created_total",
			Help:      "Number of incidents created",
		},
		[]string{"channel"},
	)

	// IncidentsResolved counts first transitions into a terminal status.
	IncidentsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "resolved_total",
			Help:      "Number of incidents resolved or closed for the first time",
		},
	)

	// SnapshotSaveFailures counts failed snapshot flushes, by key.
	// A failed flush is logged, not fatal; the in-memory state keeps
	// the mutation.
	SnapshotSaveFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshot_save_failures_total",
			Help:      "Number of failed snapshot saves",
		},
		[]string{"key"},
	)

	// BoardMoves counts kanban drag moves that changed a status.
	BoardMoves = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "moves_total",
			Help:      "Number of kanban moves that resulted in a status change",
		},
	)
)
