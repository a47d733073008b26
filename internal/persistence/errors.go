package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a record fails a check
	// constraint, such as an appointment ending before it starts.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrOverlap is returned when an appointment insert loses the
	// re-check-and-insert race against an overlapping active booking.
	ErrOverlap = errors.New("persistence: overlapping appointment")
	// ErrStaleStatus is returned when a status update finds the stored
	// status no longer matches the one the caller read.
	ErrStaleStatus = errors.New("persistence: appointment status changed")
)
