package registry

import (
	"context"
	"sync"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
	"github.com/lcalzada-xor/bmap/internal/core/ports"
)

// Subject manages observers and fans registry signals out to them.
// Notifications run inline: the event flow is single-threaded and ordering
// matters, so observers are expected to be fast or queue internally.
type Subject struct {
	observers []ports.AssetObserver
	mu        sync.RWMutex
}

// NewSubject creates an empty subject.
func NewSubject() *Subject {
	return &Subject{
		observers: make([]ports.AssetObserver, 0),
	}
}

// AddObserver registers a new observer.
func (s *Subject) AddObserver(observer ports.AssetObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// NotifyAdded signals that a new asset entered the registry.
func (s *Subject) NotifyAdded(ctx context.Context, snap domain.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obs := range s.observers {
		obs.OnAssetAdded(ctx, snap)
	}
}

// NotifyUpdated signals that an existing asset was mutated.
func (s *Subject) NotifyUpdated(ctx context.Context, snap domain.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obs := range s.observers {
		obs.OnAssetUpdated(ctx, snap)
	}
}

// NotifyStatusRecomputed signals a periodic re-classification of an asset.
func (s *Subject) NotifyStatusRecomputed(ctx context.Context, snap domain.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obs := range s.observers {
		obs.OnStatusRecomputed(ctx, snap)
	}
}
