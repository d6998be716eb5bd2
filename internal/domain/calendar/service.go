package calendar

import (
	"context"
	"time"

	"eventboard-go/internal/domain/events"
	"eventboard-go/pkg/logger"
)

type Config struct {
	WeekStartsOnMonday bool
	Resolver           ResolverConfig
}

type Service struct {
	store    Store
	resolver *Resolver
	layout   Layout
	log      logger.Logger
	now      func() time.Time
}

func NewService(store Store, cfg Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		store:    store,
		resolver: NewResolver(store, cfg.Resolver, log),
		layout:   Layout{MondayFirst: cfg.WeekStartsOnMonday},
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Layout() Layout {
	return s.layout
}

func (s *Service) Today() events.Date {
	return events.DateOf(s.now())
}

func (s *Service) CurrentWeekStart() events.Date {
	return s.layout.WeekStart(s.Today())
}

func (s *Service) Resolve(ctx context.Context, userID string, rng Range) (Resolution, error) {
	return s.resolver.Resolve(ctx, userID, rng)
}

type WeekView struct {
	Start      events.Date
	End        events.Date
	Weekdays   [DaysPerWeek]time.Weekday
	Grid       WeekGrid
	Progress   Progress
	Days       []DayProgress
	Categories []GroupProgress
	Projects   []ProjectProgress
	Rejected   int
}

// Week resolves and lays out the week containing weekStart. A zero
// weekStart means the current week. Navigating always re-resolves.
func (s *Service) Week(ctx context.Context, userID string, weekStart events.Date) (WeekView, error) {
	if weekStart.IsZero() {
		weekStart = s.Today()
	}
	weekStart = s.layout.WeekStart(weekStart)
	rng := WeekRange(weekStart)

	resolution, err := s.resolver.Resolve(ctx, userID, rng)
	if err != nil {
		s.log.InternalError("calendar.week: resolution failed", err, "user_id", userID, "week_start", weekStart.String())
		return s.EmptyWeek(weekStart), err
	}

	// Project tasks are placed on the grid but roll up only under their
	// project, as in Day.
	inWeek := make([]Occurrence, 0)
	for _, occurrence := range resolution.All() {
		if rng.Contains(occurrence.Date) {
			inWeek = append(inWeek, occurrence)
		}
	}
	scheduled := resolution.Scheduled()

	return WeekView{
		Start:      rng.Start,
		End:        rng.End,
		Weekdays:   s.layout.Weekdays(),
		Grid:       s.layout.Place(weekStart, inWeek),
		Progress:   RollUp(scheduled),
		Days:       ByDay(rng, scheduled),
		Categories: ByCategory(scheduled),
		Projects:   ByProject(resolution.Projects),
		Rejected:   len(resolution.Rejected),
	}, nil
}

// EmptyWeek is the zero view of the week containing weekStart: the range
// and weekday headers are set, every list is empty.
func (s *Service) EmptyWeek(weekStart events.Date) WeekView {
	if weekStart.IsZero() {
		weekStart = s.Today()
	}
	weekStart = s.layout.WeekStart(weekStart)
	rng := WeekRange(weekStart)
	return WeekView{
		Start:      rng.Start,
		End:        rng.End,
		Weekdays:   s.layout.Weekdays(),
		Grid:       s.layout.Place(weekStart, nil),
		Days:       ByDay(rng, nil),
		Categories: []GroupProgress{},
		Projects:   []ProjectProgress{},
	}
}

type DaySummary struct {
	Date        events.Date
	Progress    Progress
	Categories  []GroupProgress
	Projects    []ProjectProgress
	Occurrences []TaskProgress
}

// Day builds the dashboard for one date: dated and repeating entries on that
// date count toward progress, projects are listed with all their tasks. On
// failure the zero summary for the date is returned alongside the error.
func (s *Service) Day(ctx context.Context, userID string, day events.Date) (DaySummary, error) {
	if day.IsZero() {
		day = s.Today()
	}
	empty := DaySummary{
		Date:        day,
		Categories:  []GroupProgress{},
		Projects:    []ProjectProgress{},
		Occurrences: []TaskProgress{},
	}

	resolution, err := s.resolver.Resolve(ctx, userID, DayRange(day))
	if err != nil {
		s.log.InternalError("calendar.day: resolution failed", err, "user_id", userID, "date", day.String())
		return empty, err
	}

	scheduled := resolution.Scheduled()
	occurrences := make([]TaskProgress, 0, len(scheduled))
	for _, occurrence := range scheduled {
		occurrences = append(occurrences, TaskProgress{
			Occurrence: occurrence,
			Percent:    Percentage(occurrence),
			Completed:  IsCompleted(occurrence),
		})
	}

	return DaySummary{
		Date:        day,
		Progress:    RollUp(scheduled),
		Categories:  ByCategory(scheduled),
		Projects:    ByProject(resolution.Projects),
		Occurrences: occurrences,
	}, nil
}
