package calendar

import "eventboard-go/internal/domain/events"

const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#666666"
	UncategorizedIcon  = "fa-solid fa-skull-crossbones"
)

type RefKind string

const (
	RefNone     RefKind = "none"
	RefCategory RefKind = "category"
	RefProject  RefKind = "project"
)

// Reference is a template's category field resolved against the user's
// categories and projects. Names that match neither become placeholder
// categories so every entry carries a badge.
type Reference struct {
	Kind        RefKind
	Name        string
	Color       string
	Icon        string
	ProjectID   string
	Placeholder bool
}

func (r Reference) IsProject() bool {
	return r.Kind == RefProject
}

type Range struct {
	Start events.Date
	End   events.Date
}

func DayRange(day events.Date) Range {
	return Range{Start: day, End: day.AddDays(1)}
}

func WeekRange(start events.Date) Range {
	return Range{Start: start, End: start.AddDays(7)}
}

func (r Range) Contains(date events.Date) bool {
	return !date.Before(r.Start) && date.Before(r.End)
}

// Occurrence is one dated materialization of a template. It is rebuilt on
// every pass and never stored.
type Occurrence struct {
	ID             string
	Title          string
	Date           events.Date
	Time           string
	Reference      Reference
	Priority       events.Priority
	Repeat         events.Repeat
	RepeatForever  bool
	RepeatDuration int
	Requirements   []events.Requirement
	IsComplete     bool
	Description    string
	XP             int

	IsVirtual     bool
	ParentEventID string
	InstanceDate  events.Date
}

// Key identifies the occurrence across passes.
func (o Occurrence) Key() string {
	id := o.ID
	if o.ParentEventID != "" {
		id = o.ParentEventID
	}
	return events.InstanceID(id, o.Date)
}

type ProjectGroup struct {
	Project events.Project
	Tasks   []Occurrence
}

type Resolution struct {
	Range     Range
	Projects  []ProjectGroup
	Dated     []Occurrence
	Recurring []Occurrence
	Rejected  []*RecurrenceInputError
}

// All returns every occurrence of the pass: project tasks, then dated
// entries, then expanded repeats.
func (r Resolution) All() []Occurrence {
	total := len(r.Dated) + len(r.Recurring)
	for _, group := range r.Projects {
		total += len(group.Tasks)
	}

	result := make([]Occurrence, 0, total)
	for _, group := range r.Projects {
		result = append(result, group.Tasks...)
	}
	result = append(result, r.Dated...)
	result = append(result, r.Recurring...)
	return result
}

// Scheduled returns the dated and expanded entries, leaving out project tasks.
func (r Resolution) Scheduled() []Occurrence {
	result := make([]Occurrence, 0, len(r.Dated)+len(r.Recurring))
	result = append(result, r.Dated...)
	result = append(result, r.Recurring...)
	return result
}
