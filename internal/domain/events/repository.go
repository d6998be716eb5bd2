package events

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListEvents(ctx context.Context, userID string) ([]EventTemplate, error)
	GetEvent(ctx context.Context, userID, eventID string) (*EventTemplate, error)
	CreateEvent(ctx context.Context, event *EventTemplate) error
	UpdateEvent(ctx context.Context, event *EventTemplate) error
	DeleteEvent(ctx context.Context, userID, eventID string) (bool, error)

	ListCategories(ctx context.Context, userID string) ([]Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error)

	ListProjects(ctx context.Context, userID string) ([]Project, error)
	CreateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, userID, projectID string) (bool, error)

	GetInstance(ctx context.Context, userID, eventID string, date Date) (*InstanceOverride, error)
	ListInstances(ctx context.Context, userID, eventID string) ([]InstanceOverride, error)
	UpsertInstance(ctx context.Context, userID, eventID string, date Date, patch InstancePatch) error
	DeleteInstances(ctx context.Context, userID, eventID string) error
}
