package calendar

import (
	"time"

	"eventboard-go/internal/domain/events"
)

const (
	DaysPerWeek  = 7
	HoursPerDay  = 24
	sidebarNoRef = ""
)

// Layout places occurrences on a seven-column, 24-row week grid.
type Layout struct {
	MondayFirst bool
}

// WeekStart returns the most recent first-day-of-week on or before today.
func (l Layout) WeekStart(today events.Date) events.Date {
	return today.AddDays(-l.Column(today))
}

// Column maps a date to its grid column. With Monday first, Sunday wraps to
// column 6.
func (l Layout) Column(date events.Date) int {
	weekday := int(date.Weekday())
	if !l.MondayFirst {
		return weekday
	}
	if date.Weekday() == time.Sunday {
		return 6
	}
	return weekday - 1
}

// Weekdays lists the column headers in grid order.
func (l Layout) Weekdays() [DaysPerWeek]time.Weekday {
	var days [DaysPerWeek]time.Weekday
	for i := range days {
		offset := i
		if l.MondayFirst {
			offset = (i + 1) % DaysPerWeek
		}
		days[i] = time.Weekday(offset)
	}
	return days
}

type Placement struct {
	Day        int
	Hour       int
	Minute     int
	TimeRange  events.TimeRange
	Occurrence Occurrence
}

type SidebarGroup struct {
	Reference   Reference
	Occurrences []Occurrence
}

type WeekGrid struct {
	Start events.Date
	Days  [DaysPerWeek]events.Date
	// Cells holds timed occurrences by [day][hour] in input order.
	Cells [DaysPerWeek][HoursPerDay][]Placement
	// Dashboard holds untimed occurrences per day.
	Dashboard [DaysPerWeek][]Occurrence
	Sidebar   []SidebarGroup
}

// Placements flattens the grid in day, hour, then input order.
func (g WeekGrid) Placements() []Placement {
	var result []Placement
	for day := range g.Cells {
		for hour := range g.Cells[day] {
			result = append(result, g.Cells[day][hour]...)
		}
	}
	return result
}

// Place lays out occurrences for the week starting at weekStart. Dates
// outside [weekStart, weekStart+7) are dropped; occurrences without a
// parseable time land on the day's dashboard instead of the grid.
func (l Layout) Place(weekStart events.Date, occurrences []Occurrence) WeekGrid {
	grid := WeekGrid{Start: weekStart}
	for i := range grid.Days {
		grid.Days[i] = weekStart.AddDays(i)
	}

	week := WeekRange(weekStart)
	sidebarIndex := make(map[string]int)

	for _, occurrence := range occurrences {
		if !week.Contains(occurrence.Date) {
			continue
		}
		day := weekStart.DaysUntil(occurrence.Date)

		l.addToSidebar(&grid, sidebarIndex, occurrence)

		timeRange, err := events.ParseTimeRange(occurrence.Time)
		if err != nil {
			grid.Dashboard[day] = append(grid.Dashboard[day], occurrence)
			continue
		}

		hour := timeRange.Start.Hour
		grid.Cells[day][hour] = append(grid.Cells[day][hour], Placement{
			Day:        day,
			Hour:       hour,
			Minute:     timeRange.Start.Minute,
			TimeRange:  timeRange,
			Occurrence: occurrence,
		})
	}

	return grid
}

func (l Layout) addToSidebar(grid *WeekGrid, index map[string]int, occurrence Occurrence) {
	key := sidebarNoRef
	if occurrence.Reference.Kind != RefNone && occurrence.Reference.Kind != "" {
		key = string(occurrence.Reference.Kind) + ":" + occurrence.Reference.Name
	}

	position, ok := index[key]
	if !ok {
		ref := occurrence.Reference
		if key == sidebarNoRef {
			ref = Reference{Kind: RefNone, Name: UncategorizedName, Color: UncategorizedColor, Icon: UncategorizedIcon}
		}
		grid.Sidebar = append(grid.Sidebar, SidebarGroup{Reference: ref})
		position = len(grid.Sidebar) - 1
		index[key] = position
	}
	grid.Sidebar[position].Occurrences = append(grid.Sidebar[position].Occurrences, occurrence)
}
