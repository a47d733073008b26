package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced service, appointment or
	// organization record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrSlotUnavailable is returned when a booking loses the re-check at
	// commit time: the slot was free when the caller looked but is taken
	// now. It must reach the caller as an actionable conflict, never as a
	// generic failure.
	ErrSlotUnavailable = errors.New("application: slot no longer available")
)

// BusinessError reports a domain rule violation, such as an illegal status
// transition or an operation on a terminal appointment.
type BusinessError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *BusinessError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("application: %s: %s", e.Code, e.Message)
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
