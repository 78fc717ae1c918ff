// Package presentation contains sinks consuming registry signals. Rendering
// itself is out of core scope; this sink turns asset lifecycle events into
// structured log lines so any UI (or an operator's terminal) can follow the
// registry without the core knowing about it.
package presentation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// LogSink implements ports.AssetObserver over a structured logger.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink writing to the given logger.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "presentation").Logger()}
}

// OnAssetAdded logs a newly recognized asset.
func (s *LogSink) OnAssetAdded(ctx context.Context, snap domain.Snapshot) {
	s.event(snap).Msg("asset created")
}

// OnAssetUpdated logs a mutated asset.
func (s *LogSink) OnAssetUpdated(ctx context.Context, snap domain.Snapshot) {
	s.event(snap).Msg("asset updated")
}

// OnStatusRecomputed logs a periodic re-classification at debug level; these
// fire for every asset on every sweep.
func (s *LogSink) OnStatusRecomputed(ctx context.Context, snap domain.Snapshot) {
	s.log.Debug().
		Str("identity", snap.Identity).
		Str("freshness", string(snap.Freshness)).
		Str("signal", string(snap.Signal)).
		Msg("status recomputed")
}

func (s *LogSink) event(snap domain.Snapshot) *zerolog.Event {
	return s.log.Info().
		Str("identity", snap.Identity).
		Str("label", snap.Label).
		Int("rssi", snap.RSSI).
		Str("freshness", string(snap.Freshness)).
		Str("signal", string(snap.Signal)).
		Str("payload", snap.PayloadHex)
}
