package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Self-observability metrics for the store itself, labeled by entity kind.
var (
	// recordsTotal counts successful Record calls.
	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_store_records_total",
			Help: "Total number of entities recorded into the store",
		},
		[]string{"kind"},
	)

	// evictedTotal counts entities removed by batched eviction.
	evictedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_store_evicted_total",
			Help: "Total number of entities evicted from the store",
		},
		[]string{"kind"},
	)

	// evictionRunsTotal counts eviction batches.
	evictionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_store_eviction_runs_total",
			Help: "Total number of batched eviction runs",
		},
		[]string{"kind"},
	)

	// idCollisionsTotal counts rejected inserts due to duplicate ids.
	idCollisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_store_id_collisions_total",
			Help: "Total number of inserts rejected because the entity id already existed",
		},
		[]string{"kind"},
	)

	// entriesGauge tracks currently retained entities.
	entriesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "telemetry_store_entries",
			Help: "Number of entities currently retained in the store",
		},
		[]string{"kind"},
	)
)
