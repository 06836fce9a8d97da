package persist

import "errors"

var (
	// ErrStorageUnavailable is returned when the durable store cannot be
	// opened. The subsystem degrades to in-memory-only operation.
	ErrStorageUnavailable = errors.New("durable storage unavailable")
	// ErrSessionNotFound is returned when a restore or lookup targets a
	// missing session record.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotReady is returned for lifecycle operations attempted while the
	// store is not open.
	ErrNotReady = errors.New("persistence not ready")
)
