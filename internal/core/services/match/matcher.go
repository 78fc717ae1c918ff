// Package match classifies raw advertisements against the static, ordered
// list of configured device profiles. First match wins; unmatched
// advertisements are discarded by the caller with no side effect.
package match

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
)

// EmptyPayloadHex is rendered instead of a hex string when a matching key
// carries no bytes.
const EmptyPayloadHex = "N/A (empty payload)"

// Matcher evaluates advertisements against configured profiles.
type Matcher struct {
	profiles []domain.DeviceProfile
	log      zerolog.Logger
}

// New creates a matcher over the given ordered profile list.
func New(profiles []domain.DeviceProfile, log zerolog.Logger) *Matcher {
	return &Matcher{
		profiles: profiles,
		log:      log.With().Str("component", "matcher").Logger(),
	}
}

// Match returns the rendered payload and the first profile (in declared
// order) satisfied by the advertisement. ok=false means no profile applied
// and the advertisement must be discarded. Match failures on individual
// profiles are warnings, never fatal: evaluation continues with the next one.
func (m *Matcher) Match(adv domain.RawAdvertisement) (payloadHex string, profile domain.DeviceProfile, ok bool) {
	for _, p := range m.profiles {
		switch p.MatchKind {
		case domain.MatchByService:
			key, err := normalizeUUID(p.ServiceUUID)
			if err != nil {
				m.log.Warn().Str("profile", p.Name).Err(err).Msg("skipping profile: bad service UUID")
				continue
			}
			for uuid, data := range adv.ServiceData {
				norm, err := normalizeUUID(uuid)
				if err != nil {
					continue
				}
				if norm == key {
					return RenderHex(data), p, true
				}
			}

		case domain.MatchByManufacturer:
			data, present := adv.ManufacturerData[p.CompanyID]
			if present {
				return RenderHex(data), p, true
			}

		default:
			m.log.Warn().Str("profile", p.Name).Str("kind", string(p.MatchKind)).
				Msg("skipping profile: unrecognized match kind")
		}
	}
	return "", domain.DeviceProfile{}, false
}

// FilterSet derives the scan-source filter parameters from the usable
// profiles. Profiles with an unrecognized kind or a malformed key are
// skipped with a warning and contribute nothing.
func (m *Matcher) FilterSet() domain.FilterSet {
	var fs domain.FilterSet
	for _, p := range m.profiles {
		switch p.MatchKind {
		case domain.MatchByService:
			key, err := normalizeUUID(p.ServiceUUID)
			if err != nil {
				m.log.Warn().Str("profile", p.Name).Err(err).Msg("excluding profile from filter set")
				continue
			}
			fs.ServiceUUIDs = append(fs.ServiceUUIDs, key)
		case domain.MatchByManufacturer:
			fs.CompanyIDs = append(fs.CompanyIDs, p.CompanyID)
		default:
			m.log.Warn().Str("profile", p.Name).Str("kind", string(p.MatchKind)).
				Msg("excluding profile from filter set: unrecognized match kind")
		}
	}
	return fs
}

// RenderHex renders bytes as an uppercase, space-separated hex string with a
// single "0x" prefix: [0x04, 0x37] -> "0x04 37". Empty input renders as the
// EmptyPayloadHex sentinel rather than an empty string.
func RenderHex(data []byte) string {
	if len(data) == 0 {
		return EmptyPayloadHex
	}
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return "0x" + strings.Join(parts, " ")
}

// normalizeUUID lowercases a service UUID and validates its characters.
// Short (16-bit/32-bit) and full 128-bit forms are accepted.
func normalizeUUID(uuid string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(uuid))
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return "", fmt.Errorf("empty service UUID")
	}
	switch len(s) {
	case 4, 8, 36:
	default:
		return "", fmt.Errorf("service UUID %q has unsupported length %d", uuid, len(s))
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && r != '-' {
			return "", fmt.Errorf("service UUID %q contains invalid character %q", uuid, r)
		}
	}
	return s, nil
}
