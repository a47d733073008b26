package jalali

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the calendar convention used for rendering dates, day
// names and digits.
type Locale string

const (
	// LocalePersian renders Jalali dates with Persian month names and digits.
	LocalePersian Locale = "fa"
	// LocaleEnglish renders Gregorian dates with ASCII digits.
	LocaleEnglish Locale = "en"
)

// ParseLocale normalises a caller supplied locale tag, defaulting to Persian.
func ParseLocale(value string) Locale {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "en-us", "en-gb":
		return LocaleEnglish
	default:
		return LocalePersian
	}
}

var persianMonthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// Persian day names indexed by time.Weekday (Sunday = 0).
var persianDayNames = [7]string{
	"یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه", "شنبه",
}

var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// ToPersianDigits replaces every ASCII digit in s with its Persian
// (Extended Arabic-Indic) equivalent. Non-digit runes pass through.
func ToPersianDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(persianDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MonthName returns the Jalali month name for months 1..12, or "" otherwise.
func MonthName(jm int) string {
	if jm < 1 || jm > 12 {
		return ""
	}
	return persianMonthNames[jm-1]
}

// DayName returns the weekday name of t in the requested locale.
func DayName(t time.Time, locale Locale) string {
	if locale == LocalePersian {
		return persianDayNames[int(t.Weekday())]
	}
	return t.Weekday().String()
}

// FormatDate renders the calendar date of t for the requested locale:
// "۱۴ فروردین ۱۴۰۳" for Persian, "April 2, 2024" otherwise.
func FormatDate(t time.Time, locale Locale) string {
	if locale == LocalePersian {
		d := ToJalali(t)
		return ToPersianDigits(fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month), d.Year))
	}
	return fmt.Sprintf("%s %d, %d", t.Month().String(), t.Day(), t.Year())
}

// FormatNumericDate renders the date of t as "۱۴۰۳/۰۱/۱۴" for Persian or
// "2024-04-02" otherwise.
func FormatNumericDate(t time.Time, locale Locale) string {
	if locale == LocalePersian {
		d := ToJalali(t)
		return ToPersianDigits(fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day))
	}
	return t.Format("2006-01-02")
}

// FormatClock renders a wall-clock "HH:MM" label for the requested locale.
// Persian output keeps the 24-hour clock with Persian digits; other locales
// get a 12-hour clock with an AM/PM suffix.
func FormatClock(hour, minute int, locale Locale) string {
	if locale == LocalePersian {
		return ToPersianDigits(fmt.Sprintf("%02d:%02d", hour, minute))
	}

	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}
