package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AdvertisementsReceived counts raw advertisement events handed to the pipeline
	AdvertisementsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bmap",
			Name:      "advertisements_received_total",
			Help:      "Total number of raw advertisements received from the scan source",
		},
	)

	// AdvertisementsMatched counts advertisements that matched a configured profile
	AdvertisementsMatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bmap",
			Name:      "advertisements_matched_total",
			Help:      "Total number of advertisements matched against a device profile",
		},
		[]string{"profile"},
	)

	// AdvertisementsDiscarded counts advertisements that matched no profile
	AdvertisementsDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bmap",
			Name:      "advertisements_discarded_total",
			Help:      "Total number of advertisements discarded without a profile match",
		},
	)

	// AssetsActive tracks the number of assets currently in the registry
	AssetsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bmap",
			Name:      "assets_active",
			Help:      "Number of assets currently held in the registry",
		},
	)

	// SweepRuns counts periodic status recomputation cycles
	SweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bmap",
			Name:      "sweep_runs_total",
			Help:      "Total number of periodic freshness sweeps executed",
		},
	)

	// LabelPersistFailures counts label store write failures
	LabelPersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bmap",
			Name:      "label_persist_failures_total",
			Help:      "Total number of failed label store writes",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call multiple times.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(AdvertisementsReceived)
		prometheus.DefaultRegisterer.Register(AdvertisementsMatched)
		prometheus.DefaultRegisterer.Register(AdvertisementsDiscarded)
		prometheus.DefaultRegisterer.Register(AssetsActive)
		prometheus.DefaultRegisterer.Register(SweepRuns)
		prometheus.DefaultRegisterer.Register(LabelPersistFailures)
	})
}
