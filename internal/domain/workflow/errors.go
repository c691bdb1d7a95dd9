package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a section change is not allowed
	ErrInvalidTransition = errors.New("invalid section transition")

	// ErrGuardFailed is returned when the current section is not complete
	ErrGuardFailed = errors.New("section not complete")

	// ErrUnknownClaimType is returned for a claim type with no workflow path
	ErrUnknownClaimType = errors.New("unknown claim type")
)
