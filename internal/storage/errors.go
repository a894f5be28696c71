package storage

import "errors"

// Sentinel errors shared by every snapshot and resolution backend.
var (
	// ErrNotFound is returned when no snapshot exists for an address.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a snapshot (address, slot) or a
	// resolution (root, owner, resolved_at_ms) was already stored. Rows are never updated.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when a record lacks its key fields.
	ErrInvalidInput = errors.New("invalid input")
)
