package calendar

import (
	"math"

	"eventboard-go/internal/domain/events"
)

// Percentage is the share of checked requirements, or 0/100 from the
// completion flag when the occurrence has no requirements.
func Percentage(o Occurrence) int {
	if len(o.Requirements) == 0 {
		if o.IsComplete {
			return 100
		}
		return 0
	}

	checked := 0
	for _, requirement := range o.Requirements {
		if requirement.Checked {
			checked++
		}
	}
	return roundPercent(checked, len(o.Requirements))
}

// IsCompleted counts an occurrence as done when it is flagged complete or
// every requirement is checked. A partly checked list never counts.
func IsCompleted(o Occurrence) bool {
	if o.IsComplete {
		return true
	}
	if len(o.Requirements) == 0 {
		return false
	}
	for _, requirement := range o.Requirements {
		if !requirement.Checked {
			return false
		}
	}
	return true
}

type Progress struct {
	Completed int
	Total     int
	Percent   int
}

func RollUp(occurrences []Occurrence) Progress {
	progress := Progress{Total: len(occurrences)}
	for _, occurrence := range occurrences {
		if IsCompleted(occurrence) {
			progress.Completed++
		}
	}
	progress.Percent = roundPercent(progress.Completed, progress.Total)
	return progress
}

type GroupProgress struct {
	Reference Reference
	Progress  Progress
}

// ByCategory rolls up per reference name in first-seen order. Occurrences
// without a reference fall into the Uncategorized bucket. Project tasks are
// left to ByProject.
func ByCategory(occurrences []Occurrence) []GroupProgress {
	var order []string
	groups := make(map[string][]Occurrence)
	refs := make(map[string]Reference)

	for _, occurrence := range occurrences {
		ref := occurrence.Reference
		if ref.Kind == RefProject {
			continue
		}
		if ref.Kind == RefNone || ref.Kind == "" || ref.Name == "" {
			ref = Reference{Kind: RefNone, Name: UncategorizedName, Color: UncategorizedColor, Icon: UncategorizedIcon}
		}
		if _, ok := groups[ref.Name]; !ok {
			order = append(order, ref.Name)
			refs[ref.Name] = ref
		}
		groups[ref.Name] = append(groups[ref.Name], occurrence)
	}

	result := make([]GroupProgress, 0, len(order))
	for _, name := range order {
		result = append(result, GroupProgress{Reference: refs[name], Progress: RollUp(groups[name])})
	}
	return result
}

type ProjectProgress struct {
	Project  events.Project
	Progress Progress
	Tasks    []TaskProgress
}

type TaskProgress struct {
	Occurrence Occurrence
	Percent    int
	Completed  bool
}

func ByProject(groups []ProjectGroup) []ProjectProgress {
	result := make([]ProjectProgress, 0, len(groups))
	for _, group := range groups {
		tasks := make([]TaskProgress, 0, len(group.Tasks))
		for _, task := range group.Tasks {
			tasks = append(tasks, TaskProgress{
				Occurrence: task,
				Percent:    Percentage(task),
				Completed:  IsCompleted(task),
			})
		}
		result = append(result, ProjectProgress{
			Project:  group.Project,
			Progress: RollUp(group.Tasks),
			Tasks:    tasks,
		})
	}
	return result
}

type DayProgress struct {
	Date     events.Date
	Progress Progress
}

// ByDay rolls up each day of rng, including empty days.
func ByDay(rng Range, occurrences []Occurrence) []DayProgress {
	days := rng.Start.DaysUntil(rng.End)
	if days <= 0 {
		return []DayProgress{}
	}

	buckets := make([][]Occurrence, days)
	for _, occurrence := range occurrences {
		if !rng.Contains(occurrence.Date) {
			continue
		}
		index := rng.Start.DaysUntil(occurrence.Date)
		buckets[index] = append(buckets[index], occurrence)
	}

	result := make([]DayProgress, 0, days)
	for i, bucket := range buckets {
		result = append(result, DayProgress{
			Date:     rng.Start.AddDays(i),
			Progress: RollUp(bucket),
		})
	}
	return result
}

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
