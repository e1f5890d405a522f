package models

import "errors"

var (
	// ErrNotFound is returned when a round or hole does not exist
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable wraps failed historical or reference lookups
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrPersistence wraps failed aggregate writes
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidShot rejects shots that violate the shot-log invariants
	ErrInvalidShot  = errors.New("invalid shot")
	ErrInvalidRound = errors.New("invalid round")
)
