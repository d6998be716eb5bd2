package events

import "time"

// Matches reports whether a repeat anchored on anchor falls on date.
// Monthly and Yearly clamp the anchor's day to the target month's last day.
// None never matches; callers compare the anchor directly.
func (r Repeat) Matches(anchor, date Date) bool {
	if date.Before(anchor) {
		return false
	}

	switch r {
	case RepeatDaily:
		return true
	case RepeatWeekly:
		return date.Weekday() == anchor.Weekday()
	case RepeatMonthly:
		return date.Day() == ClampDay(anchor.Day(), date.Year(), date.Month())
	case RepeatYearly:
		if date.Month() != anchor.Month() {
			return false
		}
		return date.Day() == ClampDay(anchor.Day(), date.Year(), date.Month())
	default:
		return false
	}
}

// PeriodEnd is the exclusive end of periods repetitions starting at anchor.
func (r Repeat) PeriodEnd(anchor Date, periods int) Date {
	if periods < 1 {
		periods = 1
	}

	switch r {
	case RepeatDaily:
		return anchor.AddDays(periods)
	case RepeatWeekly:
		return anchor.AddDays(7 * periods)
	case RepeatMonthly:
		return anchor.AddMonths(periods)
	case RepeatYearly:
		return anchor.AddYears(periods)
	default:
		return anchor.AddDays(1)
	}
}

func ClampDay(anchorDay, year int, month time.Month) int {
	if last := DaysInMonth(year, month); anchorDay > last {
		return last
	}
	return anchorDay
}
