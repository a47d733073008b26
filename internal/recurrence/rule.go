package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency enumerates the supported recurrence cadences.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily advances by days.
	FrequencyDaily
	// FrequencyWeekly advances by weeks, optionally filtered by weekday.
	FrequencyWeekly
	// FrequencyBiweekly advances by pairs of weeks.
	FrequencyBiweekly
	// FrequencyMonthly advances by months keeping the day of month.
	FrequencyMonthly
	// FrequencyYearly advances by years keeping month and day.
	FrequencyYearly
)

var frequencyNames = map[Frequency]string{
	FrequencyDaily:    "DAILY",
	FrequencyWeekly:   "WEEKLY",
	FrequencyBiweekly: "BIWEEKLY",
	FrequencyMonthly:  "MONTHLY",
	FrequencyYearly:   "YEARLY",
}

// String returns the wire name of the frequency.
func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return "UNSPECIFIED"
}

// Rule describes a recurrence pattern parsed from the compact rule string.
// Count and Until are mutually exclusive; zero/nil means unset.
type Rule struct {
	Frequency Frequency
	Interval  int
	Count     int
	Until     *time.Time
	Weekdays  []time.Weekday
}

// untilLayout is the UNTIL timestamp format, a fixed UTC instant.
const untilLayout = "20060102T150405Z"

var (
	// ErrMissingFrequency indicates the rule string lacks a FREQ component.
	ErrMissingFrequency = errors.New("recurrence: rule is missing FREQ")
	// ErrCountAndUntil indicates COUNT and UNTIL were both supplied.
	ErrCountAndUntil = errors.New("recurrence: COUNT and UNTIL are mutually exclusive")
)

var weekdayTokens = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// iCal weekday order, Monday first.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// ParseRule parses the semicolon delimited KEY=VALUE grammar with keys FREQ,
// INTERVAL, COUNT, UNTIL and BYDAY. Unknown keys are ignored so that rule
// strings produced by richer iCalendar implementations still parse for the
// supported subset, but a string without FREQ is rejected.
func ParseRule(value string) (Rule, error) {
	rule := Rule{Interval: 1}

	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, found := strings.Cut(part, "=")
		if !found {
			return Rule{}, fmt.Errorf("recurrence: malformed component %q", part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		raw = strings.TrimSpace(raw)

		switch key {
		case "FREQ":
			freq, err := parseFrequency(raw)
			if err != nil {
				return Rule{}, err
			}
			rule.Frequency = freq
		case "INTERVAL":
			interval, err := strconv.Atoi(raw)
			if err != nil || interval < 1 {
				return Rule{}, fmt.Errorf("recurrence: invalid INTERVAL %q", raw)
			}
			rule.Interval = interval
		case "COUNT":
			count, err := strconv.Atoi(raw)
			if err != nil || count < 1 {
				return Rule{}, fmt.Errorf("recurrence: invalid COUNT %q", raw)
			}
			rule.Count = count
		case "UNTIL":
			until, err := time.Parse(untilLayout, strings.ToUpper(raw))
			if err != nil {
				return Rule{}, fmt.Errorf("recurrence: invalid UNTIL %q", raw)
			}
			rule.Until = &until
		case "BYDAY":
			weekdays, err := parseWeekdays(raw)
			if err != nil {
				return Rule{}, err
			}
			rule.Weekdays = weekdays
		default:
			// Unsupported keys (BYMONTHDAY, BYSETPOS, ...) are ignored.
		}
	}

	if rule.Frequency == FrequencyUnspecified {
		return Rule{}, ErrMissingFrequency
	}
	if rule.Count > 0 && rule.Until != nil {
		return Rule{}, ErrCountAndUntil
	}

	return rule, nil
}

// FormatRule renders the rule back to its string form. It is the inverse of
// ParseRule for every rule built from the supported field set.
func FormatRule(rule Rule) string {
	parts := []string{"FREQ=" + rule.Frequency.String()}

	if rule.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(rule.Interval))
	}
	if rule.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(rule.Count))
	}
	if rule.Until != nil {
		parts = append(parts, "UNTIL="+rule.Until.UTC().Format(untilLayout))
	}
	if len(rule.Weekdays) > 0 {
		tokens := make([]string, 0, len(rule.Weekdays))
		for _, day := range sortWeekdays(rule.Weekdays) {
			tokens = append(tokens, weekdayNames[day])
		}
		parts = append(parts, "BYDAY="+strings.Join(tokens, ","))
	}

	return strings.Join(parts, ";")
}

func parseFrequency(raw string) (Frequency, error) {
	switch strings.ToUpper(raw) {
	case "DAILY":
		return FrequencyDaily, nil
	case "WEEKLY":
		return FrequencyWeekly, nil
	case "BIWEEKLY":
		return FrequencyBiweekly, nil
	case "MONTHLY":
		return FrequencyMonthly, nil
	case "YEARLY":
		return FrequencyYearly, nil
	default:
		return FrequencyUnspecified, fmt.Errorf("recurrence: unsupported FREQ %q", raw)
	}
}

func parseWeekdays(raw string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		day, ok := weekdayTokens[token]
		if !ok {
			return nil, fmt.Errorf("recurrence: invalid BYDAY token %q", token)
		}
		seen[day] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	out := make([]time.Weekday, 0, len(seen))
	for _, day := range weekdayOrder {
		if _, ok := seen[day]; ok {
			out = append(out, day)
		}
	}
	return out, nil
}

// sortWeekdays returns the weekdays in iCal order (Monday first) with
// duplicates removed.
func sortWeekdays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]struct{}, len(days))
	for _, day := range days {
		seen[day] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]time.Weekday, 0, len(seen))
	for _, day := range weekdayOrder {
		if _, ok := seen[day]; ok {
			out = append(out, day)
		}
	}
	return out
}
