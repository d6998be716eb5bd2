package events

import (
	"time"

	eventsdomain "eventboard-go/internal/domain/events"
)

type requirementPayload struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type eventResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	Category       string               `json:"category"`
	Priority       string               `json:"priority"`
	Repeat         string               `json:"repeat"`
	RepeatForever  bool                 `json:"repeat_forever"`
	RepeatDuration int                  `json:"repeat_duration"`
	Requirements   []requirementPayload `json:"requirements"`
	IsComplete     bool                 `json:"is_complete"`
	Description    string               `json:"description"`
	XP             int                  `json:"xp"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type eventListResponse struct {
	Items []eventResponse `json:"items"`
	Total int             `json:"total"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRequirements(payload []requirementPayload) []eventsdomain.Requirement {
	if payload == nil {
		return nil
	}
	result := make([]eventsdomain.Requirement, 0, len(payload))
	for _, item := range payload {
		result = append(result, eventsdomain.Requirement{Text: item.Text, Checked: item.Checked})
	}
	return result
}

func toRequirementPayloads(requirements []eventsdomain.Requirement) []requirementPayload {
	result := make([]requirementPayload, 0, len(requirements))
	for _, item := range requirements {
		result = append(result, requirementPayload{Text: item.Text, Checked: item.Checked})
	}
	return result
}

func toEventResponse(event eventsdomain.EventTemplate) eventResponse {
	return eventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Date:           event.Date,
		Time:           event.Time,
		Category:       event.Category,
		Priority:       string(event.Priority),
		Repeat:         string(event.Repeat),
		RepeatForever:  event.RepeatForever,
		RepeatDuration: event.RepeatDuration,
		Requirements:   toRequirementPayloads(event.Requirements),
		IsComplete:     event.IsComplete,
		Description:    event.Description,
		XP:             event.XP,
		CreatedAt:      event.CreatedAt,
		UpdatedAt:      event.UpdatedAt,
	}
}

func toCategoryResponse(category eventsdomain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
	}
}

func toProjectResponse(project eventsdomain.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Color:       project.Color,
		Icon:        project.Icon,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
	}
}
