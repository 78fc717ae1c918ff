package match

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

func TestRenderHex(t *testing.T) {
	assert.Equal(t, "0x04 37", RenderHex([]byte{0x04, 0x37}))
	assert.Equal(t, "0xFF", RenderHex([]byte{0xFF}))
	assert.Equal(t, EmptyPayloadHex, RenderHex(nil))
	assert.Equal(t, EmptyPayloadHex, RenderHex([]byte{}))
}

func TestMatcher_ServiceMatch(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Battery Tag", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
	}, zerolog.Nop())

	adv := domain.RawAdvertisement{
		Identity:    "dev-1",
		ServiceData: map[string][]byte{"180F": {0x64}},
	}

	payload, profile, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, "Battery Tag", profile.Name)
	assert.Equal(t, "0x64", payload)
}

func TestMatcher_ManufacturerMatch(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Apple Tracker", MatchKind: domain.MatchByManufacturer, CompanyID: 0x004C},
	}, zerolog.Nop())

	adv := domain.RawAdvertisement{
		Identity:         "dev-2",
		ManufacturerData: map[uint16][]byte{0x004C: {0x12, 0x19}},
	}

	payload, profile, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, "Apple Tracker", profile.Name)
	assert.Equal(t, "0x12 19", payload)
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "First", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
		{Name: "Second", MatchKind: domain.MatchByManufacturer, CompanyID: 0x0059},
	}, zerolog.Nop())

	// Satisfies both profiles; declared order decides.
	adv := domain.RawAdvertisement{
		ServiceData:      map[string][]byte{"180f": {0x01}},
		ManufacturerData: map[uint16][]byte{0x0059: {0x02}},
	}

	_, profile, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, "First", profile.Name)
}

func TestMatcher_NoMatchIsDiscarded(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Env Sensor", MatchKind: domain.MatchByService, ServiceUUID: "181a"},
	}, zerolog.Nop())

	// Advertises a service identifier that is not configured.
	adv := domain.RawAdvertisement{
		ServiceData: map[string][]byte{"180f": {0x64}},
	}

	_, _, ok := m.Match(adv)
	assert.False(t, ok)
}

func TestMatcher_UnknownKindSkipped(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Broken", MatchKind: "proximity", ServiceUUID: "180f"},
		{Name: "Fallback", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
	}, zerolog.Nop())

	adv := domain.RawAdvertisement{
		ServiceData: map[string][]byte{"180f": {0x64}},
	}

	_, profile, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, "Fallback", profile.Name, "unknown kind must never contribute a match")
}

func TestMatcher_MalformedUUIDSkipped(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Bad", MatchKind: domain.MatchByService, ServiceUUID: "not-a-uuid!"},
		{Name: "Good", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
	}, zerolog.Nop())

	adv := domain.RawAdvertisement{
		ServiceData: map[string][]byte{"180f": {0x64}},
	}

	_, profile, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, "Good", profile.Name, "extraction failure must not be fatal to the scan")
}

func TestMatcher_EmptyPayloadSentinel(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "Nordic Tag", MatchKind: domain.MatchByManufacturer, CompanyID: 0x0059},
	}, zerolog.Nop())

	adv := domain.RawAdvertisement{
		ManufacturerData: map[uint16][]byte{0x0059: {}},
	}

	payload, _, ok := m.Match(adv)
	assert.True(t, ok)
	assert.Equal(t, EmptyPayloadHex, payload)
}

func TestFilterSet(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "A", MatchKind: domain.MatchByService, ServiceUUID: "180F"},
		{Name: "B", MatchKind: domain.MatchByManufacturer, CompanyID: 0x004C},
		{Name: "C", MatchKind: "bogus"},
	}, zerolog.Nop())

	fs := m.FilterSet()
	assert.Equal(t, []string{"180f"}, fs.ServiceUUIDs)
	assert.Equal(t, []uint16{0x004C}, fs.CompanyIDs)
	assert.False(t, fs.Empty())
}

func TestFilterSet_AllUnusable(t *testing.T) {
	m := New([]domain.DeviceProfile{
		{Name: "A", MatchKind: "bogus"},
		{Name: "B", MatchKind: domain.MatchByService, ServiceUUID: ""},
	}, zerolog.Nop())

	assert.True(t, m.FilterSet().Empty())
}
