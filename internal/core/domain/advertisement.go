package domain

import "time"

// RawAdvertisement is one observed advertisement packet. It is consumed
// synchronously by the scan pipeline and never stored.
type RawAdvertisement struct {
	Identity         string            // session-stable handle assigned by the scan source
	RSSI             int               // dBm
	ServiceData      map[string][]byte // keyed by service UUID
	ManufacturerData map[uint16][]byte // keyed by company identifier
	At               time.Time
}

// FilterSet carries the parameters handed to the scan source when scanning
// starts. It is derived from the usable configured profiles.
type FilterSet struct {
	ServiceUUIDs []string
	CompanyIDs   []uint16
}

// Empty reports whether the set contains no usable filter at all.
func (f FilterSet) Empty() bool {
	return len(f.ServiceUUIDs) == 0 && len(f.CompanyIDs) == 0
}
