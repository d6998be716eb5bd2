package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventboard-go/internal/domain/events"
	"eventboard-go/pkg/logger"
	"github.com/teambition/rrule-go"
)

func newTestService(store Store, cfg Config, today string) *Service {
	svc := NewService(store, cfg, logger.NewNop())
	now, _ := time.Parse(events.DateLayout, today)
	svc.now = func() time.Time { return now.Add(15 * time.Hour) }
	return svc
}

func weekStore() *fakeStore {
	store := newFakeStore()
	store.categories = []events.Category{{ID: "c-1", Name: "Health", Color: "#ff0000", Icon: "fa-solid fa-heart"}}
	store.projects = []events.Project{{ID: "p-1", Name: "Garden"}}

	stretch := foreverTemplate("ev-1", "2026-03-01", events.RepeatDaily)
	stretch.Category = "Health"
	stretch.Time = "from 7:00 AM to 7:30 AM"

	store.templates = []events.EventTemplate{
		stretch,
		{ID: "ev-2", Date: "2026-03-04", Time: events.TimeNone, IsComplete: true},
		{ID: "ev-3", Date: "2026-01-10", Category: "Garden", IsComplete: true},
		{ID: "ev-4", Date: "2026-03-05", Category: "Garden"},
	}
	store.override("ev-1", "2026-03-03", events.InstanceOverride{IsComplete: boolPtr(true)})
	store.override("ev-1", "2026-03-06", events.InstanceOverride{IsDeleted: true})
	return store
}

func TestWeekDefaultsToCurrentWeek(t *testing.T) {
	svc := newTestService(weekStore(), Config{WeekStartsOnMonday: true}, "2026-03-05")

	view, err := svc.Week(context.Background(), "user-1", events.Date{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Start.String() != "2026-03-02" || view.End.String() != "2026-03-09" {
		t.Fatalf("unexpected week %s..%s", view.Start, view.End)
	}
	if view.Weekdays[0] != time.Monday {
		t.Fatalf("expected Monday first, got %v", view.Weekdays)
	}
}

func TestWeekSnapsToWeekStart(t *testing.T) {
	svc := newTestService(weekStore(), Config{}, "2026-03-05")

	view, err := svc.Week(context.Background(), "user-1", date(t, "2026-03-05"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Start.String() != "2026-03-01" {
		t.Fatalf("expected Sunday start, got %s", view.Start)
	}
}

func TestWeekAggregates(t *testing.T) {
	svc := newTestService(weekStore(), Config{WeekStartsOnMonday: true}, "2026-03-05")

	view, err := svc.Week(context.Background(), "user-1", date(t, "2026-03-02"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// 6 stretches (one deleted) and one dated entry; project tasks roll up
	// under their project only.
	if view.Progress.Total != 7 || view.Progress.Completed != 2 {
		t.Fatalf("unexpected progress %+v", view.Progress)
	}
	if len(view.Grid.Placements()) != 6 {
		t.Fatalf("expected 6 timed placements, got %d", len(view.Grid.Placements()))
	}
	if len(view.Grid.Cells[1][7]) != 1 {
		t.Fatalf("expected Tuesday 7 AM stretch")
	}
	if len(view.Grid.Cells[4][7]) != 0 {
		t.Fatalf("expected deleted Friday stretch missing")
	}
	if len(view.Grid.Dashboard[2]) != 1 || len(view.Grid.Dashboard[3]) != 1 {
		t.Fatalf("unexpected dashboards %+v", view.Grid.Dashboard)
	}

	if len(view.Days) != 7 || view.Days[1].Progress.Percent != 100 {
		t.Fatalf("unexpected day progress %+v", view.Days)
	}
	if len(view.Categories) != 2 {
		t.Fatalf("unexpected categories %+v", view.Categories)
	}
	for _, group := range view.Categories {
		if group.Reference.Kind == RefProject {
			t.Fatalf("expected project tasks kept out of categories, got %+v", view.Categories)
		}
	}
	if view.Days[3].Progress.Total != 1 {
		t.Fatalf("expected Thursday progress without the project task, got %+v", view.Days[3])
	}
	if len(view.Projects) != 1 || view.Projects[0].Progress.Total != 2 || view.Projects[0].Progress.Completed != 1 {
		t.Fatalf("expected project to count all its tasks, got %+v", view.Projects)
	}
}

func TestWeekStoreFailure(t *testing.T) {
	store := weekStore()
	store.listEventsErr = errors.New("offline")
	svc := newTestService(store, Config{WeekStartsOnMonday: true}, "2026-03-05")

	view, err := svc.Week(context.Background(), "user-1", date(t, "2026-03-02"))
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if view.Progress.Total != 0 || len(view.Grid.Placements()) != 0 {
		t.Fatalf("expected zero view on failure")
	}
}

func TestDaySummary(t *testing.T) {
	svc := newTestService(weekStore(), Config{WeekStartsOnMonday: true}, "2026-03-04")

	summary, err := svc.Day(context.Background(), "user-1", events.Date{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Date.String() != "2026-03-04" {
		t.Fatalf("expected today, got %s", summary.Date)
	}
	if len(summary.Occurrences) != 2 {
		t.Fatalf("expected stretch and dated entry, got %d", len(summary.Occurrences))
	}
	if summary.Progress.Completed != 1 || summary.Progress.Percent != 50 {
		t.Fatalf("unexpected progress %+v", summary.Progress)
	}
	if len(summary.Projects) != 1 || len(summary.Projects[0].Tasks) != 2 {
		t.Fatalf("expected project with all tasks, got %+v", summary.Projects)
	}
}

func TestDayFailureReturnsZeroSummary(t *testing.T) {
	store := weekStore()
	store.listCategoriesErr = errors.New("offline")
	svc := newTestService(store, Config{}, "2026-03-04")

	summary, err := svc.Day(context.Background(), "user-1", date(t, "2026-03-04"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if summary.Date.String() != "2026-03-04" || summary.Progress.Total != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Occurrences == nil || summary.Projects == nil || summary.Categories == nil {
		t.Fatalf("expected empty lists, got nil")
	}
}

func TestFeedRendersRecurrenceAndExdates(t *testing.T) {
	svc := newTestService(weekStore(), Config{}, "2026-03-04")

	data, err := svc.Feed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	feed := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:ev-1",
		"RRULE:FREQ=DAILY",
		"EXDATE:20260306T070000",
		"DTSTART:20260301T070000",
		"DTEND:20260301T073000",
		"CATEGORIES:Health",
		"UID:ev-2",
		"DTSTART;VALUE=DATE:20260304",
		"DTEND;VALUE=DATE:20260305",
		"CATEGORIES:Garden",
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("expected %q in feed:\n%s", want, feed)
		}
	}
	if strings.Count(feed, "BEGIN:VEVENT") != 4 {
		t.Fatalf("expected 4 events, got %d", strings.Count(feed, "BEGIN:VEVENT"))
	}
	if strings.Count(feed, "RRULE:") != 1 {
		t.Fatalf("expected a single recurring event")
	}
	if strings.Contains(feed, "EXDATE;VALUE=DATE") {
		t.Fatalf("expected timed exdates to match DTSTART:\n%s", feed)
	}

	set, err := rrule.StrToRRuleSet(strings.Join(feedLines(feed, "ev-1", "DTSTART", "RRULE", "EXDATE"), "\n"))
	if err != nil {
		t.Fatalf("expected feed recurrence to parse, got %v", err)
	}
	deleted := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	if hits := set.Between(deleted, deleted.AddDate(0, 0, 1), true); len(hits) != 0 {
		t.Fatalf("expected deleted date excluded, got %v", hits)
	}
	kept := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	if hits := set.Between(kept, kept.AddDate(0, 0, 1), true); len(hits) != 1 {
		t.Fatalf("expected one instance on a kept date, got %v", hits)
	}
}

func TestFeedBoundedAllDayUntilIsDate(t *testing.T) {
	store := newFakeStore()
	store.templates = []events.EventTemplate{{
		ID:             "ev-7",
		Date:           "2026-03-02",
		Time:           events.TimeNone,
		Repeat:         events.RepeatWeekly,
		RepeatDuration: 3,
	}}
	store.override("ev-7", "2026-03-09", events.InstanceOverride{IsDeleted: true})
	svc := newTestService(store, Config{Resolver: ResolverConfig{ExpandBoundedRepeats: true}}, "2026-03-04")

	data, err := svc.Feed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	feed := string(data)
	for _, want := range []string{
		"DTSTART;VALUE=DATE:20260302",
		"EXDATE;VALUE=DATE:20260309",
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("expected %q in feed:\n%s", want, feed)
		}
	}
	rules := feedLines(feed, "ev-7", "RRULE")
	if len(rules) != 1 || rules[0] != "RRULE:FREQ=WEEKLY;UNTIL=20260322" {
		t.Fatalf("expected date-valued UNTIL, got %v", rules)
	}
}

// feedLines returns the named property lines of the VEVENT with uid.
func feedLines(feed, uid string, names ...string) []string {
	var lines []string
	inEvent := false
	for _, line := range strings.Split(feed, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "UID:"+uid:
			inEvent = true
		case line == "END:VEVENT":
			inEvent = false
		case inEvent:
			for _, name := range names {
				if strings.HasPrefix(line, name+":") || strings.HasPrefix(line, name+";") {
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

func TestFeedSkipsBadTemplates(t *testing.T) {
	store := newFakeStore()
	store.templates = []events.EventTemplate{
		{ID: "bad", Date: "someday"},
		{ID: "ok", Date: "2026-03-04"},
	}
	svc := newTestService(store, Config{}, "2026-03-04")

	data, err := svc.Feed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(string(data), "UID:bad") || !strings.Contains(string(data), "UID:ok") {
		t.Fatalf("unexpected feed:\n%s", data)
	}
}

func TestEmptyWeekKeepsRange(t *testing.T) {
	svc := newTestService(newFakeStore(), Config{WeekStartsOnMonday: true}, "2026-03-05")

	view := svc.EmptyWeek(date(t, "2026-03-12"))
	if view.Start.String() != "2026-03-09" || view.End.String() != "2026-03-16" {
		t.Fatalf("unexpected range %s..%s", view.Start, view.End)
	}
	if len(view.Days) != 7 || view.Categories == nil || view.Projects == nil {
		t.Fatalf("expected empty lists, got %+v", view)
	}
	if view.Grid.Days[0].String() != "2026-03-09" {
		t.Fatalf("expected grid days set, got %v", view.Grid.Days)
	}

	failing := weekStore()
	failing.listEventsErr = errors.New("offline")
	svc = newTestService(failing, Config{WeekStartsOnMonday: true}, "2026-03-05")
	failed, _ := svc.Week(context.Background(), "user-1", date(t, "2026-03-04"))
	if failed.Start.String() != "2026-03-02" || len(failed.Days) != 7 {
		t.Fatalf("expected zero view for the requested week, got %+v", failed)
	}
}

func TestWeekProjectTaskReadsTemplateCompletion(t *testing.T) {
	store := newFakeStore()
	store.projects = []events.Project{{ID: "p-1", Name: "Garden"}}
	task := foreverTemplate("ev-8", "2026-03-03", events.RepeatDaily)
	task.Category = "Garden"
	task.IsComplete = true
	store.templates = []events.EventTemplate{task}
	svc := newTestService(store, Config{WeekStartsOnMonday: true}, "2026-03-04")

	view, err := svc.Week(context.Background(), "user-1", date(t, "2026-03-02"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Projects) != 1 || view.Projects[0].Progress.Completed != 1 || view.Projects[0].Progress.Total != 1 {
		t.Fatalf("expected completed project task, got %+v", view.Projects)
	}
	if !view.Projects[0].Tasks[0].Completed {
		t.Fatalf("expected task marked completed, got %+v", view.Projects[0].Tasks[0])
	}
	if view.Progress.Total != 0 || len(view.Categories) != 0 {
		t.Fatalf("expected project task kept out of week totals, got %+v %+v", view.Progress, view.Categories)
	}
	if store.lookups != 0 {
		t.Fatalf("expected no override lookups for a project task")
	}
}
