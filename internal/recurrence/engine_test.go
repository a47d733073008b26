package recurrence

import (
	"errors"
	"testing"
	"time"
)

func monday(hour int) time.Time {
	return time.Date(2024, time.April, 1, hour, 0, 0, 0, time.UTC) // a Monday
}

func TestExpandDaily(t *testing.T) {
	t.Parallel()

	rule := Rule{Frequency: FrequencyDaily, Interval: 2, Count: 4}
	got, err := Expand(monday(9), rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, occurrence := range got {
		want := monday(9).AddDate(0, 0, 2*i)
		if !occurrence.Equal(want) {
			t.Errorf("occurrence %d = %s, want %s", i, occurrence, want)
		}
	}
}

func TestExpandWeeklyByDay(t *testing.T) {
	t.Parallel()

	rule, err := ParseRule("FREQ=WEEKLY;COUNT=3;BYDAY=MO")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}

	start := time.Date(2024, time.April, 3, 10, 0, 0, 0, time.UTC) // a Wednesday
	got, err := Expand(start, rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	previous := time.Time{}
	for i, occurrence := range got {
		if occurrence.Weekday() != time.Monday {
			t.Errorf("occurrence %d falls on %s, want Monday", i, occurrence.Weekday())
		}
		if occurrence.Before(start) {
			t.Errorf("occurrence %d precedes the start date", i)
		}
		if !previous.IsZero() && !previous.Before(occurrence) {
			t.Errorf("occurrences not ascending at index %d", i)
		}
		previous = occurrence
	}
}

func TestExpandBiweeklyDoublesTheWeekStep(t *testing.T) {
	t.Parallel()

	rule := Rule{Frequency: FrequencyBiweekly, Interval: 1, Count: 3, Weekdays: []time.Weekday{time.Monday}}
	got, err := Expand(monday(8), rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, occurrence := range got {
		want := monday(8).AddDate(0, 0, 14*i)
		if !occurrence.Equal(want) {
			t.Errorf("occurrence %d = %s, want %s", i, occurrence, want)
		}
	}
}

func TestExpandMonthlyKeepsDayOfMonth(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)
	rule := Rule{Frequency: FrequencyMonthly, Interval: 1, Count: 3}

	got, err := Expand(start, rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	want := []time.Time{
		start,
		time.Date(2024, time.February, 15, 14, 30, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// Day 31 never lands in a short month: the occurrence is skipped, not
// clamped to the month's last day.
func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC)
	rule := Rule{Frequency: FrequencyMonthly, Interval: 1, Count: 4}

	got, err := Expand(start, rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	want := []time.Time{
		start,
		time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.July, 31, 9, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExpandYearlySkipsLeapDayInCommonYears(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.February, 29, 11, 0, 0, 0, time.UTC)
	rule := Rule{Frequency: FrequencyYearly, Interval: 1, Count: 2}

	got, err := Expand(start, rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	want := []time.Time{
		start,
		time.Date(2028, time.February, 29, 11, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExpandHonorsUntilAndMaxDate(t *testing.T) {
	t.Parallel()

	until := monday(9).AddDate(0, 0, 10)
	rule := Rule{Frequency: FrequencyDaily, Interval: 7, Until: &until}

	got, err := Expand(monday(9), rule, Bounds{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("UNTIL bound: len = %d, want 2", len(got))
	}

	// A caller bound tighter than the rule's own UNTIL wins.
	maxDate := monday(9).AddDate(0, 0, 3)
	got, err = Expand(monday(9), rule, Bounds{MaxDate: &maxDate})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("MaxDate bound: len = %d, want 1", len(got))
	}
}

func TestExpandCallerCountTighterThanRule(t *testing.T) {
	t.Parallel()

	rule := Rule{Frequency: FrequencyDaily, Interval: 1, Count: 100}
	got, err := Expand(monday(9), rule, Bounds{MaxCount: 5})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestExpandRequiresABound(t *testing.T) {
	t.Parallel()

	rule := Rule{Frequency: FrequencyDaily, Interval: 1}
	if _, err := Expand(monday(9), rule, Bounds{}); !errors.Is(err, ErrUnboundedExpansion) {
		t.Errorf("err = %v, want ErrUnboundedExpansion", err)
	}
}

func TestExpandRejectsUnspecifiedFrequency(t *testing.T) {
	t.Parallel()

	if _, err := Expand(monday(9), Rule{Count: 3}, Bounds{}); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("err = %v, want ErrInvalidFrequency", err)
	}
}

func TestCreateSeries(t *testing.T) {
	t.Parallel()

	baseStart := monday(9)
	baseEnd := monday(9).Add(45 * time.Minute)
	rule := Rule{Frequency: FrequencyWeekly, Interval: 1, Count: 3, Weekdays: []time.Weekday{time.Monday}}

	series, err := CreateSeries(baseStart, baseEnd, rule, Bounds{})
	if err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}
	for i, occurrence := range series {
		if got := occurrence.End.Sub(occurrence.Start); got != 45*time.Minute {
			t.Errorf("occurrence %d duration = %s, want 45m", i, got)
		}
	}
}

func TestCreateSeriesRejectsNonPositiveDuration(t *testing.T) {
	t.Parallel()

	rule := Rule{Frequency: FrequencyDaily, Interval: 1, Count: 1}
	if _, err := CreateSeries(monday(9), monday(9), rule, Bounds{}); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("err = %v, want ErrInvalidDuration", err)
	}
}
