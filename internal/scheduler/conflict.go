// Package scheduler holds the pure interval logic shared by the availability
// and booking services.
package scheduler

import "time"

// Interval is a time span with Start strictly before End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the candidate interval conflicts with existing.
//
// The policy is boundary inclusive: two intervals conflict when they
// intersect or when any candidate endpoint exactly equals an existing
// endpoint. Back-to-back bookings touching at a single instant are rejected.
// This is a product decision, stricter than the usual half-open model, and
// must not be relaxed without a matching product change.
func Overlaps(candidate, existing Interval) bool {
	if candidate.Start.Before(existing.End) && existing.Start.Before(candidate.End) {
		return true
	}
	return candidate.Start.Equal(existing.Start) ||
		candidate.Start.Equal(existing.End) ||
		candidate.End.Equal(existing.Start) ||
		candidate.End.Equal(existing.End)
}

// IsAvailable reports whether the candidate span is free of conflicts with
// every existing interval. Callers must exclude cancelled appointments from
// existing before calling.
func IsAvailable(candidateStart, candidateEnd time.Time, existing []Interval) bool {
	candidate := Interval{Start: candidateStart, End: candidateEnd}
	for _, busy := range existing {
		if Overlaps(candidate, busy) {
			return false
		}
	}
	return true
}
