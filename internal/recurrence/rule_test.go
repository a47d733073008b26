package recurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseRuleBasics(t *testing.T) {
	t.Parallel()

	rule, err := ParseRule("FREQ=WEEKLY;INTERVAL=2;COUNT=5;BYDAY=MO,WE")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}

	if rule.Frequency != FrequencyWeekly {
		t.Errorf("Frequency = %v, want WEEKLY", rule.Frequency)
	}
	if rule.Interval != 2 {
		t.Errorf("Interval = %d, want 2", rule.Interval)
	}
	if rule.Count != 5 {
		t.Errorf("Count = %d, want 5", rule.Count)
	}
	want := []time.Weekday{time.Monday, time.Wednesday}
	if !reflect.DeepEqual(rule.Weekdays, want) {
		t.Errorf("Weekdays = %v, want %v", rule.Weekdays, want)
	}
}

func TestParseRuleDefaultsIntervalToOne(t *testing.T) {
	t.Parallel()

	rule, err := ParseRule("FREQ=DAILY")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}
	if rule.Interval != 1 {
		t.Errorf("Interval = %d, want default 1", rule.Interval)
	}
}

func TestParseRuleUntil(t *testing.T) {
	t.Parallel()

	rule, err := ParseRule("FREQ=MONTHLY;UNTIL=20241231T235959Z")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}
	if rule.Until == nil {
		t.Fatal("Until not parsed")
	}
	want := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	if !rule.Until.Equal(want) {
		t.Errorf("Until = %s, want %s", rule.Until, want)
	}
}

func TestParseRuleIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	rule, err := ParseRule("FREQ=DAILY;BYMONTHDAY=15;BYSETPOS=-1;X-CUSTOM=1")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}
	if rule.Frequency != FrequencyDaily {
		t.Errorf("Frequency = %v, want DAILY", rule.Frequency)
	}
}

func TestParseRuleFailures(t *testing.T) {
	t.Parallel()

	if _, err := ParseRule("INTERVAL=2;COUNT=3"); !errors.Is(err, ErrMissingFrequency) {
		t.Errorf("missing FREQ: err = %v, want ErrMissingFrequency", err)
	}
	if _, err := ParseRule("FREQ=DAILY;COUNT=3;UNTIL=20241231T000000Z"); !errors.Is(err, ErrCountAndUntil) {
		t.Errorf("COUNT with UNTIL: err = %v, want ErrCountAndUntil", err)
	}
	for _, bad := range []string{
		"FREQ=HOURLY",
		"FREQ=DAILY;INTERVAL=0",
		"FREQ=DAILY;COUNT=-1",
		"FREQ=DAILY;UNTIL=not-a-date",
		"FREQ=WEEKLY;BYDAY=MO,XX",
		"FREQ",
	} {
		if _, err := ParseRule(bad); err == nil {
			t.Errorf("ParseRule(%q) succeeded, want error", bad)
		}
	}
}

func TestFormatRuleRoundTrip(t *testing.T) {
	t.Parallel()

	until := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	rules := []Rule{
		{Frequency: FrequencyDaily, Interval: 1},
		{Frequency: FrequencyDaily, Interval: 3, Count: 10},
		{Frequency: FrequencyWeekly, Interval: 1, Weekdays: []time.Weekday{time.Monday, time.Thursday}},
		{Frequency: FrequencyBiweekly, Interval: 1, Count: 6, Weekdays: []time.Weekday{time.Saturday}},
		{Frequency: FrequencyMonthly, Interval: 2, Until: &until},
		{Frequency: FrequencyYearly, Interval: 1, Count: 4},
	}

	for _, rule := range rules {
		formatted := FormatRule(rule)
		parsed, err := ParseRule(formatted)
		if err != nil {
			t.Fatalf("ParseRule(%q) failed: %v", formatted, err)
		}
		if parsed.Frequency != rule.Frequency || parsed.Interval != rule.Interval || parsed.Count != rule.Count {
			t.Errorf("round trip of %q changed scalar fields: %+v", formatted, parsed)
		}
		if (parsed.Until == nil) != (rule.Until == nil) {
			t.Errorf("round trip of %q changed Until presence", formatted)
		}
		if parsed.Until != nil && !parsed.Until.Equal(*rule.Until) {
			t.Errorf("round trip of %q changed Until value", formatted)
		}
		if !reflect.DeepEqual(parsed.Weekdays, sortWeekdays(rule.Weekdays)) {
			t.Errorf("round trip of %q changed weekdays: %v", formatted, parsed.Weekdays)
		}
	}
}
