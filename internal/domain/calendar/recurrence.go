package calendar

import (
	"time"

	"eventboard-go/internal/domain/events"
	"github.com/teambition/rrule-go"
)

// Rule decides which civil dates a template occurs on.
//
// Daily matches every date from the anchor on, Weekly the anchor's weekday,
// Monthly the anchor's day of month clamped to the month's last day, and
// Yearly the same clamp within the anchor's month. None never matches: a
// non-repeating template is matched by date equality elsewhere.
type Rule struct {
	Anchor events.Date
	Repeat events.Repeat
	// Until is the exclusive end for bounded repeats; zero means unbounded.
	Until events.Date
}

// NewRule validates the template's anchor and repeat value. Bounded repeats
// get no Until here; see BoundedRule.
func NewRule(template events.EventTemplate) (Rule, error) {
	anchor, err := events.ParseDate(template.Date)
	if err != nil {
		return Rule{}, &RecurrenceInputError{TemplateID: template.ID, Field: "date", Value: template.Date, Err: err}
	}

	repeat := template.Repeat
	if repeat == "" {
		repeat = events.RepeatNone
	}
	if !repeat.Valid() {
		return Rule{}, &RecurrenceInputError{TemplateID: template.ID, Field: "repeat", Value: string(template.Repeat)}
	}

	return Rule{Anchor: anchor, Repeat: repeat}, nil
}

// BoundedRule is NewRule with Until set to RepeatDuration periods after the
// anchor, so the rule yields RepeatDuration occurrences.
func BoundedRule(template events.EventTemplate) (Rule, error) {
	rule, err := NewRule(template)
	if err != nil {
		return Rule{}, err
	}

	if rule.Repeat.Recurring() {
		rule.Until = rule.Repeat.PeriodEnd(rule.Anchor, template.RepeatDuration)
	}
	return rule, nil
}

func (r Rule) OccursOn(date events.Date) bool {
	if date.Before(r.Anchor) {
		return false
	}
	if !r.Until.IsZero() && !date.Before(r.Until) {
		return false
	}

	return r.Repeat.Matches(r.Anchor, date)
}

// Between scans [max(start, anchor), end) one day at a time. Callers keep
// ranges to a week or a day, so the scan stays short.
func (r Rule) Between(start, end events.Date) []events.Date {
	if r.Repeat == events.RepeatNone {
		return nil
	}
	if start.Before(r.Anchor) {
		start = r.Anchor
	}
	if !r.Until.IsZero() && r.Until.Before(end) {
		end = r.Until
	}

	var dates []events.Date
	for day := start; day.Before(end); day = day.AddDays(1) {
		if r.OccursOn(day) {
			dates = append(dates, day)
		}
	}
	return dates
}

// RRule renders the rule as an RFC 5545 recurrence. Clamping to the last day
// of shorter months is expressed as BYMONTHDAY=28..d with BYSETPOS=-1.
func (r Rule) RRule() (rrule.ROption, bool) {
	option := rrule.ROption{
		Dtstart: r.Anchor.Time(time.UTC),
	}

	switch r.Repeat {
	case events.RepeatDaily:
		option.Freq = rrule.DAILY
	case events.RepeatWeekly:
		option.Freq = rrule.WEEKLY
	case events.RepeatMonthly:
		option.Freq = rrule.MONTHLY
		option.Bymonthday, option.Bysetpos = monthDaySet(r.Anchor.Day())
	case events.RepeatYearly:
		option.Freq = rrule.YEARLY
		option.Bymonth = []int{int(r.Anchor.Month())}
		option.Bymonthday, option.Bysetpos = monthDaySet(r.Anchor.Day())
	default:
		return rrule.ROption{}, false
	}

	if !r.Until.IsZero() {
		option.Until = r.Until.AddDays(-1).Time(time.UTC)
	}
	return option, true
}

func monthDaySet(day int) ([]int, []int) {
	if day <= 28 {
		return []int{day}, nil
	}
	days := make([]int, 0, day-27)
	for d := 28; d <= day; d++ {
		days = append(days, d)
	}
	return days, []int{-1}
}

// OccursOn reports whether template occurs on date.
func OccursOn(template events.EventTemplate, date events.Date) (bool, error) {
	rule, err := NewRule(template)
	if err != nil {
		return false, err
	}
	return rule.OccursOn(date), nil
}

// OccurrencesInRange lists the template's occurrence dates in [start, end).
func OccurrencesInRange(template events.EventTemplate, start, end events.Date) ([]events.Date, error) {
	rule, err := NewRule(template)
	if err != nil {
		return nil, err
	}
	return rule.Between(start, end), nil
}
