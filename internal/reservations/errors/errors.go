package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrAlreadyCanceled = errors.New("reservation is already canceled")

	// ErrSlotLocked means another request holds the advisory lock for the
	// same (location, start time) slot. The engine retries once on this.
	ErrSlotLocked = errors.New("slot is locked by another request")
)
