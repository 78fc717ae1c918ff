// Package freshness derives discrete status bands from raw asset state.
// Both classifications are pure functions of their inputs; nothing is cached
// on the asset beyond lastSeen and the RSSI itself.
package freshness

import (
	"time"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// Thresholds configures band boundaries. ActiveWindow < InactiveWindow and
// Strong > Weak (both negative dBm) are expected.
type Thresholds struct {
	ActiveWindow   time.Duration
	InactiveWindow time.Duration
	Strong         int
	Weak           int
}

// Classify maps elapsed time since last observation to a freshness band.
// Boundaries belong to the staler band: elapsed == ActiveWindow is stale,
// elapsed == InactiveWindow is lost.
func Classify(lastSeen, now time.Time, th Thresholds) domain.FreshnessBand {
	elapsed := now.Sub(lastSeen)
	switch {
	case elapsed < th.ActiveWindow:
		return domain.FreshnessFresh
	case elapsed < th.InactiveWindow:
		return domain.FreshnessStale
	default:
		return domain.FreshnessLost
	}
}

// Signal maps RSSI to a signal-quality band. Values equal to a threshold
// fall into the medium band.
func Signal(rssi int, th Thresholds) domain.SignalBand {
	switch {
	case rssi > th.Strong:
		return domain.SignalStrong
	case rssi < th.Weak:
		return domain.SignalWeak
	default:
		return domain.SignalMedium
	}
}

// Snapshot builds the presentation view of an asset as of now.
func Snapshot(a domain.Asset, now time.Time, th Thresholds) domain.Snapshot {
	history := make([]int, len(a.History))
	copy(history, a.History)

	return domain.Snapshot{
		Identity:   a.Identity,
		Label:      a.Label,
		RSSI:       a.LastRSSI,
		Freshness:  Classify(a.LastSeen, now, th),
		Signal:     Signal(a.LastRSSI, th),
		LastSeen:   a.LastSeen,
		PayloadHex: a.LastPayloadHex,
		History:    history,
	}
}
