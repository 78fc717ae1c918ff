// Package mock provides a simulated scan source for development and tests.
// It emits a realistic mix of advertisements: most from a stable fleet of
// recognizable beacons, some from unrecognized bystander devices that the
// matcher is expected to discard.
package mock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// Well-known 16-bit service UUIDs seen on real asset tags
var serviceUUIDs = []string{
	"180f", // Battery Service
	"181a", // Environmental Sensing
	"feaa", // Eddystone
	"fd6f", // Exposure Notification
	"181c", // User Data
}

// Bluetooth SIG company identifiers for common tag vendors
var companyIDs = []uint16{
	0x004C, // Apple
	0x0006, // Microsoft
	0x0059, // Nordic Semiconductor
	0x02E5, // Espressif
	0x0157, // Anhui Huami
	0x0075, // Samsung
}

// beacon is one simulated advertiser with a stable identity and a slowly
// drifting signal level.
type beacon struct {
	identity    string
	serviceUUID string // empty for manufacturer-data beacons
	companyID   uint16
	rssi        int
	payload     []byte
	recognized  bool
}

// Source generates advertisement traffic on a fixed interval and implements
// ports.ScanSource. Unavailable and Declined simulate host-side start
// rejections for exercising the controller's error paths.
type Source struct {
	Unavailable bool
	Declined    bool

	out      chan domain.RawAdvertisement
	interval time.Duration
	rand     *rand.Rand
	beacons  []*beacon

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSource creates a source simulating beaconCount advertisers, emitting one
// advertisement per interval.
func NewSource(beaconCount int, interval time.Duration) *Source {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Source{
		out:      make(chan domain.RawAdvertisement, 64),
		interval: interval,
		rand:     rnd,
	}
	for i := 0; i < beaconCount; i++ {
		s.beacons = append(s.beacons, s.newBeacon(i))
	}
	return s
}

// Start begins emitting advertisements. The filter set is accepted but not
// enforced: like real hosts, the simulation leaks unrelated traffic so the
// matcher's discard path stays exercised.
func (s *Source) Start(ctx context.Context, filters domain.FilterSet) error {
	if s.Unavailable {
		return domain.ErrCapabilityUnavailable
	}
	if s.Declined {
		return domain.ErrUserDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.emit(runCtx)
	return nil
}

// Advertisements returns the event stream.
func (s *Source) Advertisements() <-chan domain.RawAdvertisement {
	return s.out
}

// Stop halts emission. Safe to call when not started.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	return nil
}

func (s *Source) emit(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b := s.beacons[s.rand.Intn(len(s.beacons))]
			s.drift(b)
			select {
			case s.out <- s.advertisement(b):
			default:
				// receiver is behind; skip this tick rather than block emission
			}
		}
	}
}

// newBeacon builds a simulated advertiser. Roughly one in four is a
// bystander device advertising a service no profile knows about.
func (s *Source) newBeacon(seq int) *beacon {
	b := &beacon{
		identity:   uuid.NewString(),
		rssi:       -45 - s.rand.Intn(45),
		payload:    s.randomPayload(),
		recognized: seq%4 != 3,
	}
	if !b.recognized {
		b.serviceUUID = "2a29" // characteristic UUID no profile matches on
		return b
	}
	if s.rand.Intn(2) == 0 {
		b.serviceUUID = serviceUUIDs[s.rand.Intn(len(serviceUUIDs))]
	} else {
		b.companyID = companyIDs[s.rand.Intn(len(companyIDs))]
	}
	return b
}

// drift nudges the beacon's signal and occasionally rewrites its payload.
func (s *Source) drift(b *beacon) {
	b.rssi += s.rand.Intn(7) - 3
	if b.rssi > -30 {
		b.rssi = -30
	}
	if b.rssi < -100 {
		b.rssi = -100
	}
	if s.rand.Intn(10) == 0 {
		b.payload = s.randomPayload()
	}
}

func (s *Source) advertisement(b *beacon) domain.RawAdvertisement {
	adv := domain.RawAdvertisement{
		Identity: b.identity,
		RSSI:     b.rssi,
		At:       time.Now(),
	}
	if b.serviceUUID != "" {
		adv.ServiceData = map[string][]byte{b.serviceUUID: b.payload}
	} else {
		adv.ManufacturerData = map[uint16][]byte{b.companyID: b.payload}
	}
	return adv
}

func (s *Source) randomPayload() []byte {
	n := s.rand.Intn(8) + 2
	p := make([]byte, n)
	s.rand.Read(p)
	return p
}
