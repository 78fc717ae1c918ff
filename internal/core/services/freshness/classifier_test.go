package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

func testThresholds() Thresholds {
	return Thresholds{
		ActiveWindow:   5000 * time.Millisecond,
		InactiveWindow: 30000 * time.Millisecond,
		Strong:         -75,
		Weak:           -88,
	}
}

func TestClassify_Boundaries(t *testing.T) {
	th := testThresholds()
	now := time.Now()

	assert.Equal(t, domain.FreshnessFresh, Classify(now.Add(-4999*time.Millisecond), now, th))
	assert.Equal(t, domain.FreshnessStale, Classify(now.Add(-5000*time.Millisecond), now, th))
	assert.Equal(t, domain.FreshnessStale, Classify(now.Add(-29999*time.Millisecond), now, th))
	assert.Equal(t, domain.FreshnessLost, Classify(now.Add(-30000*time.Millisecond), now, th))
}

func TestClassify_JustSeen(t *testing.T) {
	th := testThresholds()
	now := time.Now()

	assert.Equal(t, domain.FreshnessFresh, Classify(now, now, th))
}

func TestSignal_Boundaries(t *testing.T) {
	th := testThresholds()

	assert.Equal(t, domain.SignalStrong, Signal(-74, th))
	assert.Equal(t, domain.SignalMedium, Signal(-75, th))
	assert.Equal(t, domain.SignalMedium, Signal(-88, th))
	assert.Equal(t, domain.SignalWeak, Signal(-89, th))
}

func TestSnapshot_CopiesHistory(t *testing.T) {
	th := testThresholds()
	now := time.Now()

	a := domain.Asset{
		Identity: "dev-1",
		Label:    "Forklift-3",
		LastRSSI: -60,
		LastSeen: now,
		History:  []int{-70, -65, -60},
	}

	snap := Snapshot(a, now, th)
	assert.Equal(t, []int{-70, -65, -60}, snap.History)

	// Mutating the snapshot must not leak back into the asset.
	snap.History[0] = 0
	assert.Equal(t, -70, a.History[0])
}

func TestSnapshot_Bands(t *testing.T) {
	th := testThresholds()
	now := time.Now()

	a := domain.Asset{
		Identity: "dev-2",
		LastRSSI: -90,
		LastSeen: now.Add(-10 * time.Second),
	}

	snap := Snapshot(a, now, th)
	assert.Equal(t, domain.FreshnessStale, snap.Freshness)
	assert.Equal(t, domain.SignalWeak, snap.Signal)
}
