package ports

import (
	"context"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// AssetRegistry manages the in-memory state of recognized assets.
type AssetRegistry interface {
	// ApplyObservation creates or updates the asset for the observation's
	// identity. Returns the resulting asset and whether it was newly created.
	ApplyObservation(ctx context.Context, obs domain.Observation) (domain.Asset, bool)

	// Relabel replaces an asset's label after trimming. Fails with
	// domain.ErrInvalidLabel or domain.ErrUnknownAsset.
	Relabel(ctx context.Context, identity, newLabel string) error

	// Get returns an asset by identity.
	Get(ctx context.Context, identity string) (domain.Asset, bool)

	// All returns all known assets. Iteration order is unspecified.
	All(ctx context.Context) []domain.Asset

	// Snapshots returns presentation snapshots for all assets as of now.
	Snapshots(ctx context.Context) []domain.Snapshot

	// RecomputeStatus re-derives bands for every asset and notifies observers.
	// Returns the number of assets visited.
	RecomputeStatus(ctx context.Context) int

	// Count returns the number of assets currently in the registry.
	Count(ctx context.Context) int
}
