package calendar

import (
	"context"
	"time"

	"eventboard-go/internal/domain/events"
	ical "github.com/arran4/golang-ical"
)

const (
	feedProductID     = "-//eventboard//calendar feed//EN"
	icsDateLayout     = "20060102"
	icsFloatingLayout = "20060102T150405"
)

// Feed renders the user's events as an iCalendar document. Repeating
// templates become a single VEVENT with an RRULE, and deleted dates become
// EXDATEs. Times are written as floating local times.
func (s *Service) Feed(ctx context.Context, userID string) ([]byte, error) {
	templates, err := s.store.ListEvents(ctx, userID)
	if err != nil {
		return nil, storeError("list events", err)
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	projects, err := s.store.ListProjects(ctx, userID)
	if err != nil {
		return nil, storeError("list projects", err)
	}
	refs := newReferenceIndex(categories, projects)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(feedProductID)

	stamp := s.now().UTC()
	for _, template := range templates {
		rule, repeating, err := s.feedRule(template, refs)
		if err != nil {
			s.log.BusinessError("calendar.feed: template skipped", err, "user_id", userID, "event_id", template.ID)
			continue
		}

		event := cal.AddEvent(template.ID)
		event.SetDtStampTime(stamp)
		event.SetSummary(titleOrDefault(template.Title))
		if template.Description != "" {
			event.SetDescription(template.Description)
		}
		if template.Category != "" {
			event.SetProperty(ical.ComponentPropertyCategories, refs.resolve(template.Category).Name)
		}
		event.SetProperty(ical.ComponentPropertyPriority, icsPriority(priorityOrDefault(template.Priority)))
		clock := setFeedTimes(event, rule.Anchor, template.Time)

		if !repeating {
			continue
		}
		option, ok := rule.RRule()
		if !ok {
			continue
		}
		// rrule-go always writes UNTIL in UTC; it has to match DTSTART's type.
		until := option.Until
		option.Until = time.Time{}
		value := option.RRuleString()
		if !until.IsZero() {
			value += ";UNTIL=" + clock.format(events.DateOf(until))
		}
		event.AddProperty(ical.ComponentPropertyRrule, value)

		overrides, err := s.store.ListInstances(ctx, userID, template.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, storeError("list instances", ctx.Err())
			}
			s.log.Warn("calendar.feed: list instances failed", "err", err, "user_id", userID, "event_id", template.ID)
			continue
		}
		for _, exdate := range exDates(overrides, rule) {
			event.AddProperty(ical.ComponentPropertyExdate, clock.format(exdate), clock.params()...)
		}
	}

	return []byte(cal.Serialize()), nil
}

// feedRule returns the template's rule and whether it should be published
// as a recurrence. Project tasks and plain entries are single events.
func (s *Service) feedRule(template events.EventTemplate, refs referenceIndex) (Rule, bool, error) {
	if _, ok := refs.project(template.Category); ok {
		rule, err := plainRule(template)
		return rule, false, err
	}
	switch {
	case template.IsForever():
		rule, err := NewRule(template)
		return rule, true, err
	case s.resolver.cfg.ExpandBoundedRepeats && template.IsBounded():
		rule, err := BoundedRule(template)
		return rule, true, err
	default:
		rule, err := plainRule(template)
		return rule, false, err
	}
}

func plainRule(template events.EventTemplate) (Rule, error) {
	anchor, err := events.ParseDate(template.Date)
	if err != nil {
		return Rule{}, &RecurrenceInputError{TemplateID: template.ID, Field: "date", Value: template.Date, Err: err}
	}
	return Rule{Anchor: anchor, Repeat: events.RepeatNone}, nil
}

// feedClock is how an event's dates are written: floating date-times at the
// event's start, or bare dates for all-day events.
type feedClock struct {
	timed bool
	start time.Duration
}

func (c feedClock) format(day events.Date) string {
	if !c.timed {
		return day.Time(time.UTC).Format(icsDateLayout)
	}
	return day.Time(time.UTC).Add(c.start).Format(icsFloatingLayout)
}

func (c feedClock) params() []ical.PropertyParameter {
	if c.timed {
		return nil
	}
	return []ical.PropertyParameter{&ical.KeyValues{Key: string(ical.ParameterValue), Value: []string{string(ical.ValueDataTypeDate)}}}
}

func setFeedTimes(event *ical.VEvent, day events.Date, value string) feedClock {
	timeRange, err := events.ParseTimeRange(value)
	if err != nil {
		clock := feedClock{}
		event.SetProperty(ical.ComponentPropertyDtStart, clock.format(day), clock.params()...)
		event.SetProperty(ical.ComponentPropertyDtEnd, clock.format(day.AddDays(1)), clock.params()...)
		return clock
	}

	clock := feedClock{timed: true, start: time.Duration(timeRange.Start.Minutes()) * time.Minute}
	start := day.Time(time.UTC).Add(clock.start)
	end := day.Time(time.UTC).Add(time.Duration(timeRange.End.Minutes()) * time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	event.SetProperty(ical.ComponentPropertyDtStart, start.Format(icsFloatingLayout))
	event.SetProperty(ical.ComponentPropertyDtEnd, end.Format(icsFloatingLayout))
	return clock
}

func exDates(overrides []events.InstanceOverride, rule Rule) []events.Date {
	var dates []events.Date
	for _, override := range overrides {
		if !override.IsDeleted {
			continue
		}
		date, err := events.ParseDate(override.Date)
		if err != nil || !rule.OccursOn(date) {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// icsPriority maps to RFC 5545 priorities: 1 high, 5 medium, 9 low.
func icsPriority(priority events.Priority) string {
	switch priority {
	case events.PriorityHigh:
		return "1"
	case events.PriorityLow:
		return "9"
	default:
		return "5"
	}
}
