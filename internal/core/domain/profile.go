package domain

// MatchKind selects which advertisement section a profile matches on.
type MatchKind string

const (
	MatchByService      MatchKind = "service"
	MatchByManufacturer MatchKind = "manufacturer"
)

// DeviceProfile is a configured rule describing how to recognize a class of
// devices from advertisement contents. Profiles are ordered: the first one
// whose condition is satisfied wins. Immutable for the process lifetime.
type DeviceProfile struct {
	Name        string    `json:"name"`
	MatchKind   MatchKind `json:"match_kind"`
	ServiceUUID string    `json:"service_uuid,omitempty"` // for MatchByService
	CompanyID   uint16    `json:"company_id,omitempty"`   // for MatchByManufacturer
}
