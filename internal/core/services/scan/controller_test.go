package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
	"github.com/lcalzada-xor/bmap/internal/core/services/freshness"
	"github.com/lcalzada-xor/bmap/internal/core/services/match"
	"github.com/lcalzada-xor/bmap/internal/core/services/registry"
)

// fakeSource is a controllable ports.ScanSource.
type fakeSource struct {
	mu         sync.Mutex
	startCalls int
	stopCalls  int
	startErr   error
	stopErr    error
	ch         chan domain.RawAdvertisement
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan domain.RawAdvertisement, 16)}
}

func (f *fakeSource) Start(ctx context.Context, filters domain.FilterSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	return f.startErr
}

func (f *fakeSource) Advertisements() <-chan domain.RawAdvertisement {
	return f.ch
}

func (f *fakeSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stopErr
}

func (f *fakeSource) starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

// countingObserver tracks sweep notifications.
type countingObserver struct {
	mu         sync.Mutex
	recomputed int
}

func (o *countingObserver) OnAssetAdded(ctx context.Context, s domain.Snapshot)   {}
func (o *countingObserver) OnAssetUpdated(ctx context.Context, s domain.Snapshot) {}
func (o *countingObserver) OnStatusRecomputed(ctx context.Context, s domain.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recomputed++
}

func (o *countingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recomputed
}

func testProfiles() []domain.DeviceProfile {
	return []domain.DeviceProfile{
		{Name: "Battery Tag", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
	}
}

func newController(src *fakeSource, sweep time.Duration) (*Controller, *registry.AssetRegistry) {
	th := freshness.Thresholds{
		ActiveWindow:   5 * time.Second,
		InactiveWindow: 30 * time.Second,
		Strong:         -75,
		Weak:           -88,
	}
	reg := registry.New(nil, th, zerolog.Nop())
	matcher := match.New(testProfiles(), zerolog.Nop())
	return New(src, reg, matcher, sweep, zerolog.Nop()), reg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestStart_Idempotent(t *testing.T) {
	src := newFakeSource()
	c, _ := newController(src, time.Hour)
	defer c.Stop()

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()), "second start is a no-op")

	assert.Equal(t, 1, src.starts(), "scan source must receive exactly one start request")
	assert.Equal(t, StateActive, c.State())
}

func TestStart_NoValidProfiles(t *testing.T) {
	src := newFakeSource()
	th := freshness.Thresholds{ActiveWindow: time.Second, InactiveWindow: time.Minute, Strong: -75, Weak: -88}
	reg := registry.New(nil, th, zerolog.Nop())
	matcher := match.New([]domain.DeviceProfile{{Name: "Broken", MatchKind: "bogus"}}, zerolog.Nop())
	c := New(src, reg, matcher, time.Hour, zerolog.Nop())

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoValidProfiles)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, src.starts())
}

func TestStart_CapabilityUnavailable(t *testing.T) {
	src := newFakeSource()
	src.startErr = domain.ErrCapabilityUnavailable
	c, _ := newController(src, time.Hour)

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
	assert.Equal(t, StateIdle, c.State(), "rejection leaves the controller idle")
}

func TestStart_UserDeclined(t *testing.T) {
	src := newFakeSource()
	src.startErr = domain.ErrUserDeclined
	c, _ := newController(src, time.Hour)

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrUserDeclined)
	assert.Equal(t, StateIdle, c.State())
}

func TestStop_FromIdleIsNoop(t *testing.T) {
	src := newFakeSource()
	c, _ := newController(src, time.Hour)

	require.NoError(t, c.Stop())
	assert.Equal(t, 0, src.stopCalls)
}

func TestStop_SourceFailureStillForcesIdle(t *testing.T) {
	src := newFakeSource()
	src.stopErr = errors.New("radio wedged")
	c, _ := newController(src, time.Hour)

	require.NoError(t, c.Start(context.Background()))
	err := c.Stop()

	assert.Error(t, err, "stop failure is reported")
	assert.Equal(t, StateIdle, c.State(), "but the controller is idle regardless")
}

func TestPipeline_MatchedAdvertisementReachesRegistry(t *testing.T) {
	src := newFakeSource()
	c, reg := newController(src, time.Hour)
	defer c.Stop()

	require.NoError(t, c.Start(context.Background()))

	src.ch <- domain.RawAdvertisement{
		Identity:    "dev-1",
		RSSI:        -62,
		ServiceData: map[string][]byte{"180f": {0x04, 0x37}},
		At:          time.Now(),
	}

	waitFor(t, func() bool { return reg.Count(context.Background()) == 1 })

	a, found := reg.Get(context.Background(), "dev-1")
	require.True(t, found)
	assert.Equal(t, "Battery Tag", a.MatchedProfile)
	assert.Equal(t, -62, a.LastRSSI)
	assert.Equal(t, "0x04 37", a.LastPayloadHex)
}

func TestPipeline_UnmatchedAdvertisementDiscarded(t *testing.T) {
	src := newFakeSource()
	c, reg := newController(src, time.Hour)
	defer c.Stop()

	require.NoError(t, c.Start(context.Background()))

	src.ch <- domain.RawAdvertisement{
		Identity:    "stranger",
		RSSI:        -50,
		ServiceData: map[string][]byte{"2a29": {0x01}},
	}
	// A matched packet behind it proves the first was processed and dropped.
	src.ch <- domain.RawAdvertisement{
		Identity:    "dev-1",
		RSSI:        -62,
		ServiceData: map[string][]byte{"180f": {0x01}},
	}

	waitFor(t, func() bool { return reg.Count(context.Background()) == 1 })

	_, found := reg.Get(context.Background(), "stranger")
	assert.False(t, found, "no registry mutation for unmatched advertisements")
}

func TestSweep_RunsPeriodically(t *testing.T) {
	src := newFakeSource()
	c, reg := newController(src, 10*time.Millisecond)
	defer c.Stop()

	obs := &countingObserver{}
	reg.AddObserver(obs)

	require.NoError(t, c.Start(context.Background()))

	src.ch <- domain.RawAdvertisement{
		Identity:    "dev-1",
		RSSI:        -62,
		ServiceData: map[string][]byte{"180f": {0x01}},
	}

	waitFor(t, func() bool { return obs.count() >= 2 })
}

func TestStop_CancelsSweepSynchronously(t *testing.T) {
	src := newFakeSource()
	c, reg := newController(src, 10*time.Millisecond)

	obs := &countingObserver{}
	reg.AddObserver(obs)

	require.NoError(t, c.Start(context.Background()))
	src.ch <- domain.RawAdvertisement{
		Identity:    "dev-1",
		RSSI:        -62,
		ServiceData: map[string][]byte{"180f": {0x01}},
	}
	waitFor(t, func() bool { return obs.count() >= 1 })

	require.NoError(t, c.Stop())
	assert.Equal(t, StateIdle, c.State())

	// No sweep may fire after Stop has returned.
	settled := obs.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, obs.count())
}

func TestStart_AfterStopRestartsSource(t *testing.T) {
	src := newFakeSource()
	c, _ := newController(src, time.Hour)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop())
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	assert.Equal(t, 2, src.starts())
	assert.Equal(t, StateActive, c.State())
}
