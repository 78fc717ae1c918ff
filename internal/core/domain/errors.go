package domain

import "errors"

// Sentinel errors for common failure cases
var (
	// ErrNoValidProfiles indicates the configured profile list yields zero usable filters
	ErrNoValidProfiles = errors.New("no valid device profiles configured")

	// ErrCapabilityUnavailable indicates the host lacks the required scanning capability
	ErrCapabilityUnavailable = errors.New("scanning capability unavailable on this host")

	// ErrUserDeclined indicates the permission prompt was rejected
	ErrUserDeclined = errors.New("scan permission declined")

	// ErrInvalidLabel indicates an empty or whitespace-only label
	ErrInvalidLabel = errors.New("label is empty or whitespace-only")

	// ErrUnknownAsset indicates no asset exists for the given identity
	ErrUnknownAsset = errors.New("unknown asset identity")
)
