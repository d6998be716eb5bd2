package calendar

import (
	calendardomain "eventboard-go/internal/domain/calendar"
	"eventboard-go/internal/domain/events"
)

type progressResponse struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

type referenceResponse struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	ProjectID   string `json:"project_id,omitempty"`
	Placeholder bool   `json:"placeholder"`
}

type requirementResponse struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type occurrenceResponse struct {
	Key            string                `json:"key"`
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Date           string                `json:"date"`
	Time           string                `json:"time"`
	Reference      referenceResponse     `json:"reference"`
	Priority       string                `json:"priority"`
	Repeat         string                `json:"repeat"`
	RepeatForever  bool                  `json:"repeat_forever"`
	RepeatDuration int                   `json:"repeat_duration"`
	Requirements   []requirementResponse `json:"requirements"`
	IsComplete     bool                  `json:"is_complete"`
	Completed      bool                  `json:"completed"`
	Percent        int                   `json:"percent"`
	Description    string                `json:"description"`
	XP             int                   `json:"xp"`
	IsVirtual      bool                  `json:"is_virtual"`
	ParentEventID  string                `json:"parent_event_id,omitempty"`
	InstanceDate   string                `json:"instance_date,omitempty"`
}

type placementResponse struct {
	Day        int                `json:"day"`
	Hour       int                `json:"hour"`
	Minute     int                `json:"minute"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Occurrence occurrenceResponse `json:"occurrence"`
}

type sidebarGroupResponse struct {
	Reference   referenceResponse    `json:"reference"`
	Occurrences []occurrenceResponse `json:"occurrences"`
}

type gridResponse struct {
	Days       []string               `json:"days"`
	Placements []placementResponse    `json:"placements"`
	Dashboard  [][]occurrenceResponse `json:"dashboard"`
	Sidebar    []sidebarGroupResponse `json:"sidebar"`
}

type dayProgressResponse struct {
	Date     string           `json:"date"`
	Progress progressResponse `json:"progress"`
}

type groupProgressResponse struct {
	Reference referenceResponse `json:"reference"`
	Progress  progressResponse  `json:"progress"`
}

type projectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type projectProgressResponse struct {
	Project  projectResponse      `json:"project"`
	Progress progressResponse     `json:"progress"`
	Tasks    []occurrenceResponse `json:"tasks"`
}

type weekResponse struct {
	Start      string                    `json:"start"`
	End        string                    `json:"end"`
	Weekdays   []string                  `json:"weekdays"`
	Progress   progressResponse          `json:"progress"`
	Days       []dayProgressResponse     `json:"days"`
	Grid       gridResponse              `json:"grid"`
	Categories []groupProgressResponse   `json:"categories"`
	Projects   []projectProgressResponse `json:"projects"`
	Rejected   int                       `json:"rejected"`
}

type dayResponse struct {
	Date        string                    `json:"date"`
	Progress    progressResponse          `json:"progress"`
	Categories  []groupProgressResponse   `json:"categories"`
	Projects    []projectProgressResponse `json:"projects"`
	Occurrences []occurrenceResponse      `json:"occurrences"`
}

func toProgressResponse(progress calendardomain.Progress) progressResponse {
	return progressResponse{
		Completed: progress.Completed,
		Total:     progress.Total,
		Percent:   progress.Percent,
	}
}

func toReferenceResponse(ref calendardomain.Reference) referenceResponse {
	kind := ref.Kind
	if kind == "" {
		kind = calendardomain.RefNone
	}
	return referenceResponse{
		Kind:        string(kind),
		Name:        ref.Name,
		Color:       ref.Color,
		Icon:        ref.Icon,
		ProjectID:   ref.ProjectID,
		Placeholder: ref.Placeholder,
	}
}

func toRequirementResponses(requirements []events.Requirement) []requirementResponse {
	result := make([]requirementResponse, 0, len(requirements))
	for _, requirement := range requirements {
		result = append(result, requirementResponse{Text: requirement.Text, Checked: requirement.Checked})
	}
	return result
}

func toOccurrenceResponse(occurrence calendardomain.Occurrence) occurrenceResponse {
	return occurrenceResponse{
		Key:            occurrence.Key(),
		ID:             occurrence.ID,
		Title:          occurrence.Title,
		Date:           occurrence.Date.String(),
		Time:           occurrence.Time,
		Reference:      toReferenceResponse(occurrence.Reference),
		Priority:       string(occurrence.Priority),
		Repeat:         string(occurrence.Repeat),
		RepeatForever:  occurrence.RepeatForever,
		RepeatDuration: occurrence.RepeatDuration,
		Requirements:   toRequirementResponses(occurrence.Requirements),
		IsComplete:     occurrence.IsComplete,
		Completed:      calendardomain.IsCompleted(occurrence),
		Percent:        calendardomain.Percentage(occurrence),
		Description:    occurrence.Description,
		XP:             occurrence.XP,
		IsVirtual:      occurrence.IsVirtual,
		ParentEventID:  occurrence.ParentEventID,
		InstanceDate:   occurrence.InstanceDate.String(),
	}
}

func toOccurrenceResponses(occurrences []calendardomain.Occurrence) []occurrenceResponse {
	result := make([]occurrenceResponse, 0, len(occurrences))
	for _, occurrence := range occurrences {
		result = append(result, toOccurrenceResponse(occurrence))
	}
	return result
}

func toGridResponse(grid calendardomain.WeekGrid) gridResponse {
	response := gridResponse{
		Days:       make([]string, 0, len(grid.Days)),
		Placements: make([]placementResponse, 0),
		Dashboard:  make([][]occurrenceResponse, 0, len(grid.Dashboard)),
		Sidebar:    make([]sidebarGroupResponse, 0, len(grid.Sidebar)),
	}
	for _, day := range grid.Days {
		response.Days = append(response.Days, day.String())
	}
	for _, placement := range grid.Placements() {
		response.Placements = append(response.Placements, placementResponse{
			Day:        placement.Day,
			Hour:       placement.Hour,
			Minute:     placement.Minute,
			Start:      placement.TimeRange.Start.String(),
			End:        placement.TimeRange.End.String(),
			Occurrence: toOccurrenceResponse(placement.Occurrence),
		})
	}
	for _, dashboard := range grid.Dashboard {
		response.Dashboard = append(response.Dashboard, toOccurrenceResponses(dashboard))
	}
	for _, group := range grid.Sidebar {
		response.Sidebar = append(response.Sidebar, sidebarGroupResponse{
			Reference:   toReferenceResponse(group.Reference),
			Occurrences: toOccurrenceResponses(group.Occurrences),
		})
	}
	return response
}

func toGroupResponses(groups []calendardomain.GroupProgress) []groupProgressResponse {
	result := make([]groupProgressResponse, 0, len(groups))
	for _, group := range groups {
		result = append(result, groupProgressResponse{
			Reference: toReferenceResponse(group.Reference),
			Progress:  toProgressResponse(group.Progress),
		})
	}
	return result
}

func toProjectResponses(projects []calendardomain.ProjectProgress) []projectProgressResponse {
	result := make([]projectProgressResponse, 0, len(projects))
	for _, item := range projects {
		tasks := make([]occurrenceResponse, 0, len(item.Tasks))
		for _, task := range item.Tasks {
			tasks = append(tasks, toOccurrenceResponse(task.Occurrence))
		}
		result = append(result, projectProgressResponse{
			Project: projectResponse{
				ID:          item.Project.ID,
				Name:        item.Project.Name,
				Color:       item.Project.Color,
				Icon:        item.Project.Icon,
				Description: item.Project.Description,
			},
			Progress: toProgressResponse(item.Progress),
			Tasks:    tasks,
		})
	}
	return result
}

func toWeekResponse(view calendardomain.WeekView) weekResponse {
	weekdays := make([]string, 0, len(view.Weekdays))
	for _, weekday := range view.Weekdays {
		weekdays = append(weekdays, weekday.String())
	}

	days := make([]dayProgressResponse, 0, len(view.Days))
	for _, day := range view.Days {
		days = append(days, dayProgressResponse{
			Date:     day.Date.String(),
			Progress: toProgressResponse(day.Progress),
		})
	}

	return weekResponse{
		Start:      view.Start.String(),
		End:        view.End.String(),
		Weekdays:   weekdays,
		Progress:   toProgressResponse(view.Progress),
		Days:       days,
		Grid:       toGridResponse(view.Grid),
		Categories: toGroupResponses(view.Categories),
		Projects:   toProjectResponses(view.Projects),
		Rejected:   view.Rejected,
	}
}

func toDayResponse(summary calendardomain.DaySummary) dayResponse {
	occurrences := make([]occurrenceResponse, 0, len(summary.Occurrences))
	for _, task := range summary.Occurrences {
		occurrences = append(occurrences, toOccurrenceResponse(task.Occurrence))
	}
	return dayResponse{
		Date:        summary.Date.String(),
		Progress:    toProgressResponse(summary.Progress),
		Categories:  toGroupResponses(summary.Categories),
		Projects:    toProjectResponses(summary.Projects),
		Occurrences: occurrences,
	}
}
