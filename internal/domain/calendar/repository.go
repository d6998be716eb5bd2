package calendar

import (
	"context"

	"eventboard-go/internal/domain/events"
)

type TemplateStore interface {
	ListEvents(ctx context.Context, userID string) ([]events.EventTemplate, error)
}

type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]events.Category, error)
}

type ProjectStore interface {
	ListProjects(ctx context.Context, userID string) ([]events.Project, error)
}

// InstanceStore returns nil, nil when no override exists for the date.
type InstanceStore interface {
	GetInstance(ctx context.Context, userID, eventID string, date events.Date) (*events.InstanceOverride, error)
}

type InstanceLister interface {
	ListInstances(ctx context.Context, userID, eventID string) ([]events.InstanceOverride, error)
}

type Store interface {
	TemplateStore
	CategoryStore
	ProjectStore
	InstanceStore
	InstanceLister
}
