// Package jalali implements conversion between the Gregorian and Persian
// (Jalali) calendars together with the locale helpers the availability
// engine needs: month lengths, leap years, weekend classification and
// digit/script aware formatting.
package jalali

import (
	"fmt"
	"time"
)

// MinYear and MaxYear bound the supported era. The 33-year intercalation
// cycle used here agrees with the astronomical Persian calendar inside this
// window; conversions outside it are rejected rather than silently wrong.
const (
	MinYear = 1178
	MaxYear = 1633
)

// Date is a Persian calendar date. Month runs 1..12 and Day 1..31.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as "YYYY/MM/DD" with ASCII digits.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// InvalidDateError reports a date whose components fall outside the calendar.
type InvalidDateError struct {
	Date Date
}

// Error implements the error interface.
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("jalali: invalid date %04d/%02d/%02d", e.Date.Year, e.Date.Month, e.Date.Day)
}

// IsLeapYear reports whether the Jalali year has 366 days. Leap years follow
// the 33-year cycle (8 leap years per cycle), not a fixed 4-year rhythm.
func IsLeapYear(jy int) bool {
	return (25*jy+11)%33 < 8
}

// DaysInMonth returns the number of days in the given Jalali month.
// Months 1-6 have 31 days, months 7-11 have 30, and Esfand (12) has 29,
// or 30 in a leap year. Month must be in 1..12.
func DaysInMonth(jy, jm int) int {
	switch {
	case jm >= 1 && jm <= 6:
		return 31
	case jm >= 7 && jm <= 11:
		return 30
	case jm == 12:
		if IsLeapYear(jy) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// Validate checks the date components against the calendar. Out of range
// components are an error; callers must not clamp.
func (d Date) Validate() error {
	if d.Year < MinYear || d.Year > MaxYear {
		return &InvalidDateError{Date: d}
	}
	if d.Month < 1 || d.Month > 12 {
		return &InvalidDateError{Date: d}
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return &InvalidDateError{Date: d}
	}
	return nil
}

var gregorianMonthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// ToJalali converts the calendar date of t to its Jalali equivalent. Only the
// wall-clock date is considered; the time of day and location are ignored.
func ToJalali(t time.Time) Date {
	gy, gm, gd := t.Date()
	return fromGregorian(gy, int(gm), gd)
}

// ToGregorian converts a Jalali date to the equivalent Gregorian date at
// midnight in the provided location. The conversion is the exact inverse of
// ToJalali for every valid date in the supported era.
func ToGregorian(d Date, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := d.Validate(); err != nil {
		return time.Time{}, err
	}
	gy, gm, gd := toGregorian(d)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc), nil
}

// fromGregorian implements the classic day-number conversion: count days
// since the Gregorian anchor 1600-03-21 (Jalali 979/01/01) and redistribute
// them over 33-year Jalali cycles of 12053 days.
func fromGregorian(gy, gm, gd int) Date {
	gy2 := gy - 1600
	gDayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	for m := 0; m < gm-1; m++ {
		gDayNo += gregorianMonthDays[m]
	}
	if gm > 2 && isGregorianLeap(gy) {
		gDayNo++
	}
	gDayNo += gd - 1

	jDayNo := gDayNo - 79

	jNp := jDayNo / 12053
	jDayNo %= 12053

	jy := 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	var jm, jd int
	if jDayNo < 186 {
		jm = 1 + jDayNo/31
		jd = 1 + jDayNo%31
	} else {
		jm = 7 + (jDayNo-186)/30
		jd = 1 + (jDayNo-186)%30
	}

	return Date{Year: jy, Month: jm, Day: jd}
}

func toGregorian(d Date) (int, int, int) {
	jy2 := d.Year - 979
	jDayNo := 365*jy2 + (jy2/33)*8 + (jy2%33+3)/4
	if d.Month <= 7 {
		jDayNo += (d.Month - 1) * 31
	} else {
		jDayNo += 186 + (d.Month-7)*30
	}
	jDayNo += d.Day - 1

	gDayNo := jDayNo + 79

	gy := 1600 + 400*(gDayNo/146097)
	gDayNo %= 146097

	leap := true
	if gDayNo >= 36525 {
		gDayNo--
		gy += 100 * (gDayNo / 36524)
		gDayNo %= 36524
		if gDayNo >= 365 {
			gDayNo++
		} else {
			leap = false
		}
	}

	gy += 4 * (gDayNo / 1461)
	gDayNo %= 1461

	if gDayNo >= 366 {
		leap = false
		gDayNo--
		gy += gDayNo / 365
		gDayNo %= 365
	}

	gm := 1
	for gDayNo >= gregorianMonthDays[gm-1]+leapDay(gm, leap) {
		gDayNo -= gregorianMonthDays[gm-1] + leapDay(gm, leap)
		gm++
	}

	return gy, gm, gDayNo + 1
}

func leapDay(gm int, leap bool) int {
	if gm == 2 && leap {
		return 1
	}
	return 0
}

func isGregorianLeap(gy int) bool {
	return (gy%4 == 0 && gy%100 != 0) || gy%400 == 0
}

// Weekend reports whether t falls on a weekend for the given locale
// convention: Friday under the Persian convention, Saturday/Sunday under the
// Gregorian one.
func Weekend(t time.Time, locale Locale) bool {
	switch locale {
	case LocalePersian:
		return t.Weekday() == time.Friday
	default:
		return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	}
}
