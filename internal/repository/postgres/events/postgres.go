package events

import (
	"context"
	"errors"
	"time"

	eventsdomain "eventboard-go/internal/domain/events"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresRepository sticks to portable SQL, so the same code also runs on
// sqlite for local use and tests.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(eventsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListEvents(ctx context.Context, userID string) ([]eventsdomain.EventTemplate, error) {
	var items []eventsdomain.EventTemplate
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetEvent(ctx context.Context, userID, eventID string) (*eventsdomain.EventTemplate, error) {
	var event eventsdomain.EventTemplate
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, eventID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eventsdomain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event *eventsdomain.EventTemplate) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, event *eventsdomain.EventTemplate) error {
	result := r.db.WithContext(ctx).
		Model(event).
		Where("user_id = ?", event.UserID).
		Select(
			"title", "date", "time", "category", "priority", "repeat",
			"repeat_forever", "repeat_duration", "requirements", "is_complete",
			"description", "xp", "updated_at",
		).
		Updates(event)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return eventsdomain.ErrEventNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteEvent(ctx context.Context, userID, eventID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&eventsdomain.EventTemplate{}, "user_id = ? AND id = ?", userID, eventID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListCategories(ctx context.Context, userID string) ([]eventsdomain.Category, error) {
	var items []eventsdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *eventsdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&eventsdomain.Category{}, "user_id = ? AND id = ?", userID, categoryID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID string) ([]eventsdomain.Project, error) {
	var items []eventsdomain.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateProject(ctx context.Context, project *eventsdomain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *PostgresRepository) DeleteProject(ctx context.Context, userID, projectID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&eventsdomain.Project{}, "user_id = ? AND id = ?", userID, projectID)
	return result.RowsAffected > 0, result.Error
}

// GetInstance returns nil, nil when the date has no override.
func (r *PostgresRepository) GetInstance(ctx context.Context, userID, eventID string, date eventsdomain.Date) (*eventsdomain.InstanceOverride, error) {
	var instance eventsdomain.InstanceOverride
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, eventsdomain.InstanceID(eventID, date)).
		First(&instance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

func (r *PostgresRepository) ListInstances(ctx context.Context, userID, eventID string) ([]eventsdomain.InstanceOverride, error) {
	var items []eventsdomain.InstanceOverride
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertInstance inserts the override or, when it exists, updates only the
// columns present in the patch.
func (r *PostgresRepository) UpsertInstance(ctx context.Context, userID, eventID string, date eventsdomain.Date, patch eventsdomain.InstancePatch) error {
	if patch.Empty() {
		return nil
	}

	instance := eventsdomain.InstanceOverride{
		ID:        eventsdomain.InstanceID(eventID, date),
		UserID:    userID,
		EventID:   eventID,
		Date:      date.String(),
		UpdatedAt: time.Now().UTC(),
	}
	columns := []string{"updated_at"}
	if patch.IsComplete != nil {
		value := *patch.IsComplete
		instance.IsComplete = &value
		columns = append(columns, "is_complete")
	}
	if patch.Requirements != nil {
		instance.Requirements = eventsdomain.CloneRequirements(*patch.Requirements)
		if instance.Requirements == nil {
			instance.Requirements = []eventsdomain.Requirement{}
		}
		columns = append(columns, "requirements")
	}
	if patch.IsDeleted != nil {
		instance.IsDeleted = *patch.IsDeleted
		columns = append(columns, "is_deleted")
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&instance).Error
}

func (r *PostgresRepository) DeleteInstances(ctx context.Context, userID, eventID string) error {
	return r.db.WithContext(ctx).
		Delete(&eventsdomain.InstanceOverride{}, "user_id = ? AND event_id = ?", userID, eventID).
		Error
}
