package jalali

import "time"

// CalendarHoliday is a national holiday entry keyed by Jalali month and day.
// Approximate marks lunar-calendar observances whose Jalali anchor drifts
// from year to year; the entries shipped here are a configurable default,
// not an authoritative lunar conversion, and organizations are expected to
// override them through their own holiday records.
type CalendarHoliday struct {
	Month       int
	Day         int
	Name        string
	Approximate bool
}

// HolidayCalendar is a lookup table of national holidays. It is plain data
// so deployments can correct or replace entries without a code change.
type HolidayCalendar struct {
	entries map[[2]int]CalendarHoliday
}

// NewHolidayCalendar builds a calendar from the provided entries. Later
// entries win when two share a month/day pair.
func NewHolidayCalendar(entries []CalendarHoliday) *HolidayCalendar {
	c := &HolidayCalendar{entries: make(map[[2]int]CalendarHoliday, len(entries))}
	for _, entry := range entries {
		if entry.Month < 1 || entry.Month > 12 || entry.Day < 1 || entry.Day > 31 {
			continue
		}
		c.entries[[2]int{entry.Month, entry.Day}] = entry
	}
	return c
}

// Classify returns the holiday matching the Jalali date of t, if any.
func (c *HolidayCalendar) Classify(t time.Time) (CalendarHoliday, bool) {
	if c == nil || len(c.entries) == 0 {
		return CalendarHoliday{}, false
	}
	d := ToJalali(t)
	entry, ok := c.entries[[2]int{d.Month, d.Day}]
	return entry, ok
}

// DefaultIranCalendar returns the built-in Iranian national holiday table.
// The solar entries are fixed; the lunar entries are approximations for a
// single reference year and must be treated as placeholders.
func DefaultIranCalendar() *HolidayCalendar {
	return NewHolidayCalendar([]CalendarHoliday{
		{Month: 1, Day: 1, Name: "نوروز"},
		{Month: 1, Day: 2, Name: "نوروز"},
		{Month: 1, Day: 3, Name: "نوروز"},
		{Month: 1, Day: 4, Name: "نوروز"},
		{Month: 1, Day: 12, Name: "روز جمهوری اسلامی"},
		{Month: 1, Day: 13, Name: "روز طبیعت"},
		{Month: 3, Day: 14, Name: "رحلت امام خمینی"},
		{Month: 3, Day: 15, Name: "قیام ۱۵ خرداد"},
		{Month: 11, Day: 22, Name: "پیروزی انقلاب اسلامی"},
		{Month: 12, Day: 29, Name: "ملی شدن صنعت نفت"},

		{Month: 4, Day: 25, Name: "تاسوعای حسینی", Approximate: true},
		{Month: 4, Day: 26, Name: "عاشورای حسینی", Approximate: true},
		{Month: 6, Day: 4, Name: "اربعین حسینی", Approximate: true},
		{Month: 1, Day: 22, Name: "عید فطر", Approximate: true},
		{Month: 3, Day: 27, Name: "عید قربان", Approximate: true},
		{Month: 4, Day: 5, Name: "عید غدیر خم", Approximate: true},
	})
}
