package ports

import (
	"context"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// ScanSource abstracts the host capability that produces advertisement events.
// Start may fail with domain.ErrCapabilityUnavailable when the host cannot
// scan at all, or domain.ErrUserDeclined when a consent prompt is rejected.
type ScanSource interface {
	// Start begins delivering advertisements for the given filter set.
	Start(ctx context.Context, filters domain.FilterSet) error

	// Advertisements returns the event stream. The channel is closed when the
	// source stops.
	Advertisements() <-chan domain.RawAdvertisement

	// Stop halts delivery. Best-effort; safe to call when not started.
	Stop() error
}

// LabelStore persists user-assigned labels keyed by device identity.
type LabelStore interface {
	// Get returns the stored label for an identity, or found=false if absent.
	Get(ctx context.Context, identity string) (label string, found bool, err error)

	// Set stores or replaces the label for an identity.
	Set(ctx context.Context, identity, label string) error
}

// AssetObserver receives registry lifecycle signals carrying the asset's
// current snapshot. Observers run inline on the event loop and must be fast.
type AssetObserver interface {
	OnAssetAdded(ctx context.Context, snap domain.Snapshot)
	OnAssetUpdated(ctx context.Context, snap domain.Snapshot)
	OnStatusRecomputed(ctx context.Context, snap domain.Snapshot)
}
