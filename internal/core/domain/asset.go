package domain

import "time"

// HistoryCap bounds the per-asset RSSI history. Oldest samples are evicted first.
const HistoryCap = 20

// DefaultLabel is assigned to assets with no entry in the label store.
const DefaultLabel = "Unnamed asset"

// FreshnessBand classifies how recently an asset was observed.
type FreshnessBand string

const (
	FreshnessFresh FreshnessBand = "fresh"
	FreshnessStale FreshnessBand = "stale"
	FreshnessLost  FreshnessBand = "lost"
)

// SignalBand classifies received signal strength.
type SignalBand string

const (
	SignalStrong SignalBand = "strong"
	SignalMedium SignalBand = "medium"
	SignalWeak   SignalBand = "weak"
)

// Asset is the registry's persistent record for one recognized device.
// Identity is the opaque handle the scan source assigned for this session;
// it is unique within the registry. MatchedProfile is set once at creation
// and never reassigned, even if a later packet would match a different profile.
type Asset struct {
	Identity       string    `json:"identity"`
	Label          string    `json:"label"`
	MatchedProfile string    `json:"matched_profile"`
	LastRSSI       int       `json:"last_rssi"`
	LastPayloadHex string    `json:"last_payload_hex"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
	History        []int     `json:"history"` // newest last, len <= HistoryCap
}

// Observation is one matched advertisement, ready to be applied to the registry.
type Observation struct {
	Identity   string
	RSSI       int
	At         time.Time
	PayloadHex string
	Profile    DeviceProfile
}

// Snapshot is the presentation-facing view of an asset, bands included.
type Snapshot struct {
	Identity   string        `json:"identity"`
	Label      string        `json:"label"`
	RSSI       int           `json:"rssi"`
	Freshness  FreshnessBand `json:"freshness"`
	Signal     SignalBand    `json:"signal"`
	LastSeen   time.Time     `json:"last_seen"`
	PayloadHex string        `json:"payload_hex"`
	History    []int         `json:"history"`
}
