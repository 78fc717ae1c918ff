// Package registry holds the authoritative in-memory map of recognized
// assets, keyed by device identity. Entries are created on the first matched
// observation and never removed automatically: only their displayed status
// decays, via the freshness classifier.
package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
	"github.com/lcalzada-xor/bmap/internal/core/ports"
	"github.com/lcalzada-xor/bmap/internal/core/services/freshness"
	"github.com/lcalzada-xor/bmap/internal/telemetry"
)

// AssetRegistry implements ports.AssetRegistry.
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[string]domain.Asset

	labels     ports.LabelStore
	subject    *Subject
	thresholds freshness.Thresholds
	now        func() time.Time
	log        zerolog.Logger
}

// New creates an empty registry. The label store resolves display names at
// asset creation and persists relabels; it may be nil in tests.
func New(labels ports.LabelStore, th freshness.Thresholds, log zerolog.Logger) *AssetRegistry {
	return &AssetRegistry{
		assets:     make(map[string]domain.Asset),
		labels:     labels,
		subject:    NewSubject(),
		thresholds: th,
		now:        time.Now,
		log:        log.With().Str("component", "registry").Logger(),
	}
}

// AddObserver registers a presentation-layer observer.
func (r *AssetRegistry) AddObserver(obs ports.AssetObserver) {
	r.subject.AddObserver(obs)
}

// ApplyObservation creates or updates the asset for the observation's
// identity. Pure in-memory mutation; it never blocks and never fails under
// normal inputs.
func (r *AssetRegistry) ApplyObservation(ctx context.Context, obs domain.Observation) (domain.Asset, bool) {
	r.mu.Lock()

	a, known := r.assets[obs.Identity]
	if !known {
		a = domain.Asset{
			Identity:       obs.Identity,
			Label:          r.resolveLabel(ctx, obs.Identity),
			MatchedProfile: obs.Profile.Name,
			LastRSSI:       obs.RSSI,
			LastPayloadHex: obs.PayloadHex,
			FirstSeen:      obs.At,
			LastSeen:       obs.At,
			History:        append(make([]int, 0, domain.HistoryCap), obs.RSSI),
		}
		r.assets[obs.Identity] = a
		telemetry.AssetsActive.Set(float64(len(r.assets)))

		snap := freshness.Snapshot(a, r.now(), r.thresholds)
		r.mu.Unlock()

		r.log.Info().Str("identity", a.Identity).Str("profile", a.MatchedProfile).Msg("asset created")
		r.subject.NotifyAdded(ctx, snap)
		return a, true
	}

	// MatchedProfile is deliberately left untouched: first match wins for
	// the lifetime of the asset.
	a.LastRSSI = obs.RSSI
	a.LastSeen = obs.At
	a.LastPayloadHex = obs.PayloadHex
	a.History = append(a.History, obs.RSSI)
	if len(a.History) > domain.HistoryCap {
		a.History = a.History[len(a.History)-domain.HistoryCap:]
	}
	r.assets[obs.Identity] = a

	snap := freshness.Snapshot(a, r.now(), r.thresholds)
	r.mu.Unlock()

	r.subject.NotifyUpdated(ctx, snap)
	return a, false
}

// Relabel replaces the asset's label after trimming. The label store write is
// best-effort: a persistence failure is reported but the in-memory label
// still reflects the user's intent.
func (r *AssetRegistry) Relabel(ctx context.Context, identity, newLabel string) error {
	trimmed := strings.TrimSpace(newLabel)
	if trimmed == "" {
		return domain.ErrInvalidLabel
	}

	r.mu.Lock()
	a, known := r.assets[identity]
	if !known {
		r.mu.Unlock()
		return domain.ErrUnknownAsset
	}
	a.Label = trimmed
	r.assets[identity] = a
	snap := freshness.Snapshot(a, r.now(), r.thresholds)
	r.mu.Unlock()

	if r.labels != nil {
		if err := r.labels.Set(ctx, identity, trimmed); err != nil {
			telemetry.LabelPersistFailures.Inc()
			r.log.Warn().Str("identity", identity).Err(err).Msg("label persistence failed; in-memory label kept")
		}
	}

	r.subject.NotifyUpdated(ctx, snap)
	return nil
}

// Get returns a copy of the asset for the given identity.
func (r *AssetRegistry) Get(ctx context.Context, identity string) (domain.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[identity]
	if ok {
		a.History = copyHistory(a.History)
	}
	return a, ok
}

// All returns all known assets. Iteration order is unspecified.
func (r *AssetRegistry) All(ctx context.Context) []domain.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		a.History = copyHistory(a.History)
		all = append(all, a)
	}
	return all
}

// Snapshots returns presentation snapshots for every asset as of now.
func (r *AssetRegistry) Snapshots(ctx context.Context) []domain.Snapshot {
	now := r.now()
	r.mu.RLock()
	defer r.mu.RUnlock()
	snaps := make([]domain.Snapshot, 0, len(r.assets))
	for _, a := range r.assets {
		snaps = append(snaps, freshness.Snapshot(a, now, r.thresholds))
	}
	return snaps
}

// RecomputeStatus re-derives the bands for every asset and notifies
// observers. Ages out assets that stopped transmitting without any new
// observation arriving.
func (r *AssetRegistry) RecomputeStatus(ctx context.Context) int {
	snaps := r.Snapshots(ctx)
	for _, snap := range snaps {
		r.subject.NotifyStatusRecomputed(ctx, snap)
	}
	return len(snaps)
}

// Count returns the number of assets currently in the registry.
func (r *AssetRegistry) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}

// SetClock overrides the time source. Test hook.
func (r *AssetRegistry) SetClock(now func() time.Time) {
	r.now = now
}

func (r *AssetRegistry) resolveLabel(ctx context.Context, identity string) string {
	if r.labels == nil {
		return domain.DefaultLabel
	}
	label, found, err := r.labels.Get(ctx, identity)
	if err != nil {
		r.log.Warn().Str("identity", identity).Err(err).Msg("label lookup failed; using placeholder")
		return domain.DefaultLabel
	}
	if !found {
		return domain.DefaultLabel
	}
	return label
}

func copyHistory(h []int) []int {
	c := make([]int, len(h))
	copy(c, h)
	return c
}
