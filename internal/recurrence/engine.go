// Package recurrence parses the compact recurrence-rule grammar used for
// repeating appointments and expands rules into bounded occurrence series.
package recurrence

import (
	"errors"
	"time"
)

// maxConsecutiveSkips bounds how many short-month misses a monthly or
// yearly expansion tolerates in a row before giving up.
const maxConsecutiveSkips = 400

// Bounds caps an expansion independently of the rule's own COUNT/UNTIL.
type Bounds struct {
	MaxCount int
	MaxDate  *time.Time
}

// Occurrence is one expanded instance of a recurring appointment.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

var (
	// ErrInvalidFrequency indicates the rule frequency is not supported.
	ErrInvalidFrequency = errors.New("recurrence: invalid frequency")
	// ErrUnboundedExpansion indicates neither the rule nor the caller
	// bounded the expansion by count or date.
	ErrUnboundedExpansion = errors.New("recurrence: expansion requires a count or date bound")
	// ErrInvalidDuration indicates the base appointment duration is invalid.
	ErrInvalidDuration = errors.New("recurrence: base duration must be positive")
)

// Expand walks forward from start by the rule's cadence and returns the
// occurrence start instants in ascending order. The walk stops at whichever
// of the rule's COUNT/UNTIL or the caller's bounds is reached first.
//
// Monthly and yearly cadences keep the origin day of month; when a target
// month is too short for the origin day (day 31 stepping into a 30-day
// month, Feb 29 in a common year) the occurrence is skipped, never clamped.
func Expand(start time.Time, rule Rule, bounds Bounds) ([]time.Time, error) {
	if _, ok := frequencyNames[rule.Frequency]; !ok {
		return nil, ErrInvalidFrequency
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	maxCount := rule.Count
	if bounds.MaxCount > 0 && (maxCount == 0 || bounds.MaxCount < maxCount) {
		maxCount = bounds.MaxCount
	}

	var maxDate *time.Time
	if rule.Until != nil {
		maxDate = rule.Until
	}
	if bounds.MaxDate != nil && (maxDate == nil || bounds.MaxDate.Before(*maxDate)) {
		maxDate = bounds.MaxDate
	}

	if maxCount == 0 && maxDate == nil {
		return nil, ErrUnboundedExpansion
	}

	switch rule.Frequency {
	case FrequencyDaily:
		return expandDaily(start, interval, maxCount, maxDate), nil
	case FrequencyWeekly:
		return expandWeekly(start, interval, rule.Weekdays, maxCount, maxDate), nil
	case FrequencyBiweekly:
		return expandWeekly(start, 2*interval, rule.Weekdays, maxCount, maxDate), nil
	case FrequencyMonthly:
		return expandMonthly(start, interval, maxCount, maxDate), nil
	case FrequencyYearly:
		return expandYearly(start, interval, maxCount, maxDate), nil
	default:
		return nil, ErrInvalidFrequency
	}
}

// CreateSeries expands the rule from the base appointment start and pairs
// every occurrence with an end computed from the base duration. It performs
// no conflict checks; each generated occurrence must be validated against
// existing bookings before it is committed.
func CreateSeries(baseStart, baseEnd time.Time, rule Rule, bounds Bounds) ([]Occurrence, error) {
	if !baseEnd.After(baseStart) {
		return nil, ErrInvalidDuration
	}
	duration := baseEnd.Sub(baseStart)

	starts, err := Expand(baseStart, rule, bounds)
	if err != nil {
		return nil, err
	}

	series := make([]Occurrence, 0, len(starts))
	for _, start := range starts {
		series = append(series, Occurrence{Start: start, End: start.Add(duration)})
	}
	return series, nil
}

func expandDaily(start time.Time, interval, maxCount int, maxDate *time.Time) []time.Time {
	var out []time.Time
	current := start
	for withinBound(current, maxDate) {
		out = append(out, current)
		if maxCount > 0 && len(out) == maxCount {
			break
		}
		current = current.AddDate(0, 0, interval)
	}
	return out
}

func expandWeekly(start time.Time, intervalWeeks int, weekdays []time.Weekday, maxCount int, maxDate *time.Time) []time.Time {
	if len(weekdays) == 0 {
		var out []time.Time
		current := start
		for withinBound(current, maxDate) {
			out = append(out, current)
			if maxCount > 0 && len(out) == maxCount {
				break
			}
			current = current.AddDate(0, 0, 7*intervalWeeks)
		}
		return out
	}

	selected := make(map[time.Weekday]struct{}, len(weekdays))
	for _, day := range weekdays {
		selected[day] = struct{}{}
	}

	var out []time.Time
	current := start
	for withinBound(current, maxDate) {
		_, wanted := selected[current.Weekday()]
		if wanted && civilDaysBetween(start, current)/7%intervalWeeks == 0 {
			out = append(out, current)
			if maxCount > 0 && len(out) == maxCount {
				break
			}
		}
		current = current.AddDate(0, 0, 1)
	}
	return out
}

func expandMonthly(start time.Time, interval, maxCount int, maxDate *time.Time) []time.Time {
	year, month, day := start.Date()
	hour, minute, sec := start.Clock()

	var out []time.Time
	skipped := 0
	for step := 0; ; step += interval {
		targetYear := year
		targetMonth := int(month) + step
		targetYear += (targetMonth - 1) / 12
		targetMonth = (targetMonth-1)%12 + 1

		if day > daysInGregorianMonth(targetYear, targetMonth) {
			// The origin day does not exist in this month; skip the
			// occurrence entirely. A rule whose cadence only ever lands on
			// short months would otherwise never terminate under a pure
			// count bound, hence the skip cap.
			skipped++
			if skipped > maxConsecutiveSkips || monthStartsAfterBound(targetYear, targetMonth, start.Location(), maxDate) {
				break
			}
			continue
		}
		skipped = 0

		candidate := time.Date(targetYear, time.Month(targetMonth), day, hour, minute, sec, start.Nanosecond(), start.Location())
		if !withinBound(candidate, maxDate) {
			break
		}
		out = append(out, candidate)
		if maxCount > 0 && len(out) == maxCount {
			break
		}
	}
	return out
}

func expandYearly(start time.Time, interval, maxCount int, maxDate *time.Time) []time.Time {
	year, month, day := start.Date()
	hour, minute, sec := start.Clock()

	var out []time.Time
	skipped := 0
	for targetYear := year; ; targetYear += interval {
		if day > daysInGregorianMonth(targetYear, int(month)) {
			skipped++
			if skipped > maxConsecutiveSkips || monthStartsAfterBound(targetYear, int(month), start.Location(), maxDate) {
				break
			}
			continue
		}
		skipped = 0

		candidate := time.Date(targetYear, month, day, hour, minute, sec, start.Nanosecond(), start.Location())
		if !withinBound(candidate, maxDate) {
			break
		}
		out = append(out, candidate)
		if maxCount > 0 && len(out) == maxCount {
			break
		}
	}
	return out
}

func withinBound(candidate time.Time, maxDate *time.Time) bool {
	return maxDate == nil || !candidate.After(*maxDate)
}

func monthStartsAfterBound(year, month int, loc *time.Location, maxDate *time.Time) bool {
	if maxDate == nil {
		return false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc).After(*maxDate)
}

// civilDaysBetween counts whole calendar days from a to b, ignoring the
// time of day. It stays correct across DST transitions.
func civilDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

func daysInGregorianMonth(year, month int) int {
	switch month {
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
