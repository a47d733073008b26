package scheduler

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.April, 1, hour, minute, 0, 0, time.UTC)
}

func TestIsAvailableNoExisting(t *testing.T) {
	t.Parallel()

	if !IsAvailable(at(9, 0), at(9, 30), nil) {
		t.Error("candidate with no existing intervals must be available")
	}
}

func TestIsAvailableProperOverlap(t *testing.T) {
	t.Parallel()

	existing := []Interval{{Start: at(10, 0), End: at(10, 30)}}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at(10, 0), at(10, 30), false},
		{"contained", at(10, 5), at(10, 25), false},
		{"containing", at(9, 45), at(10, 45), false},
		{"straddles start", at(9, 45), at(10, 15), false},
		{"straddles end", at(10, 15), at(10, 45), false},
		{"clearly before", at(9, 0), at(9, 45), true},
		{"clearly after", at(10, 45), at(11, 15), true},
	}

	for _, tc := range cases {
		if got := IsAvailable(tc.start, tc.end, existing); got != tc.want {
			t.Errorf("%s: IsAvailable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Touching endpoints are rejected on purpose: the boundary-inclusive policy
// forbids back-to-back bookings that meet at a single instant.
func TestIsAvailableTouchingBoundariesConflict(t *testing.T) {
	t.Parallel()

	existing := []Interval{{Start: at(10, 0), End: at(10, 30)}}

	if IsAvailable(at(9, 30), at(10, 0), existing) {
		t.Error("candidate ending exactly at an existing start must conflict")
	}
	if IsAvailable(at(10, 30), at(11, 0), existing) {
		t.Error("candidate starting exactly at an existing end must conflict")
	}
}

func TestIsAvailableMultipleExisting(t *testing.T) {
	t.Parallel()

	existing := []Interval{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(11, 0), End: at(11, 30)},
	}

	if !IsAvailable(at(10, 0), at(10, 30), existing) {
		t.Error("gap between busy intervals must be available")
	}
	if IsAvailable(at(11, 15), at(11, 45), existing) {
		t.Error("overlap with the second interval must conflict")
	}
}
