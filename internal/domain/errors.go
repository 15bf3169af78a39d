package domain

import "errors"

// Engine error taxonomy.
var (
	// ErrOutOfRange is returned when time arithmetic would cross a day boundary.
	ErrOutOfRange = errors.New("domain: time out of day range")

	// ErrValidation is returned for malformed input (non-positive duration, end before start, ...).
	ErrValidation = errors.New("domain: validation failed")

	// ErrSlotUnavailable is returned when the requested interval is no longer free.
	// Clients must re-fetch availability instead of retrying the same slot.
	ErrSlotUnavailable = errors.New("domain: slot unavailable")

	// ErrTransactionTimeout is returned when the booking lock was not acquired in time.
	// The whole operation may be retried once.
	ErrTransactionTimeout = errors.New("domain: transaction timeout")

	// ErrInvalidTransition is returned for a forbidden appointment status change.
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)
