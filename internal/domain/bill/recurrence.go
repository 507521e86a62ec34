package bill

import (
	"fmt"
	"time"
)

// Frequency describes how often a recurring bill repeats.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyAnnual    Frequency = "annual"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyBiannual, FrequencyAnnual:
		return true
	}
	return false
}

// months returns the number of calendar months one cycle spans, or 0 for
// frequencies that are not month-based.
func (f Frequency) months() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyBiannual:
		return 6
	case FrequencyAnnual:
		return 12
	}
	return 0
}

// RecurrenceConfig describes how a bill repeats. Interval is a positive
// multiplier (every N cycles). DayOfMonth, when non-zero, pins the resulting
// day of month, clamped to the target month's length. EndDate, when set, is
// an inclusive cutoff: no occurrence may fall strictly after it.
type RecurrenceConfig struct {
	Frequency  Frequency
	Interval   int
	DayOfMonth int
	EndDate    *time.Time
}

// CalculateNextDate computes the next occurrence after current.
//
// Weekly frequencies are plain day arithmetic (+7×interval days). Month-based
// frequencies use overflow-safe month addition: Jan 31 + 1 month lands on the
// last day of February, never on March 2. Annual recurrence goes through the
// same month math (12 months per cycle) so a Feb 29 start clamps to Feb 28 in
// non-leap target years.
//
// When DayOfMonth is set on a month-based frequency, the day is pinned after
// the month addition, clamped to the target month's length.
//
// When the computed date falls strictly after EndDate, the input date is
// returned unchanged: callers treat "result equals input" as the
// series-ended signal. A result exactly on EndDate is a valid occurrence.
//
// The function is pure: same inputs, same output, no wall clock.
func CalculateNextDate(current time.Time, cfg RecurrenceConfig) time.Time {
	interval := cfg.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch cfg.Frequency {
	case FrequencyWeekly:
		next = current.AddDate(0, 0, 7*interval)
	case FrequencyMonthly, FrequencyQuarterly, FrequencyBiannual, FrequencyAnnual:
		next = AddCalendarMonths(current, cfg.Frequency.months()*interval)
		if cfg.DayOfMonth != 0 {
			day := ClampDayOfMonth(next.Year(), next.Month(), cfg.DayOfMonth)
			next = time.Date(next.Year(), next.Month(), day,
				next.Hour(), next.Minute(), next.Second(), next.Nanosecond(), next.Location())
		}
	default:
		return current
	}

	if cfg.EndDate != nil && next.After(*cfg.EndDate) {
		return current
	}
	return next
}

// RecurrenceLabel renders a human-readable description of the configuration,
// e.g. "Repeats monthly" or "Repeats 2 quarterly".
func RecurrenceLabel(cfg RecurrenceConfig) string {
	if cfg.Interval == 1 {
		return fmt.Sprintf("Repeats %s", cfg.Frequency)
	}
	return fmt.Sprintf("Repeats %d %s", cfg.Interval, cfg.Frequency)
}

// AddCalendarMonths adds months calendar months to date, preserving the day
// of month when the target month is long enough and clamping to the target
// month's last day otherwise. Time of day and location are preserved.
func AddCalendarMonths(date time.Time, months int) time.Time {
	year := date.Year()
	month := int(date.Month()) - 1 + months
	year += month / 12
	month %= 12
	if month < 0 {
		month += 12
		year--
	}
	targetMonth := time.Month(month + 1)
	day := ClampDayOfMonth(year, targetMonth, date.Day())
	return time.Date(year, targetMonth, day,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// ClampDayOfMonth clamps day into the valid range for the given month.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if max := daysInMonth(year, month); day > max {
		return max
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// isLeapYear applies the Gregorian rule: divisible by 4, except centuries
// not divisible by 400.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
