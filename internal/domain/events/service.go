package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultCatalogTTL = time.Minute

type Service struct {
	repo          Repository
	cache         CatalogCache
	catalogTTL    time.Duration
	expandBounded bool
}

func NewService(repo Repository) *Service {
	return NewServiceWithCache(repo, noopCatalogCache{}, 0)
}

func NewServiceWithCache(repo Repository, cache CatalogCache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	if ttl < 0 {
		ttl = 0
	}
	if ttl == 0 {
		ttl = defaultCatalogTTL
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		catalogTTL: ttl,
	}
}

// ExpandBoundedRepeats makes bounded repeats keep per-date state in overrides,
// matching a calendar that expands them.
func (s *Service) ExpandBoundedRepeats(enabled bool) *Service {
	s.expandBounded = enabled
	return s
}

// usesOverrides reports whether each date of event keeps its own state.
// Project tasks occur once on their anchor, so they never do.
func (s *Service) usesOverrides(ctx context.Context, userID string, event *EventTemplate) (bool, error) {
	if !event.IsForever() && !(s.expandBounded && event.IsBounded()) {
		return false, nil
	}
	inProject, err := s.inProject(ctx, userID, event.Category)
	if err != nil {
		return false, err
	}
	return !inProject, nil
}

func (s *Service) inProject(ctx context.Context, userID, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	projects, err := s.ListProjects(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, project := range projects {
		if project.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) ListEvents(ctx context.Context, userID string) ([]EventTemplate, error) {
	return s.repo.ListEvents(ctx, userID)
}

func (s *Service) GetEvent(ctx context.Context, userID, eventID string) (*EventTemplate, error) {
	return s.repo.GetEvent(ctx, userID, eventID)
}

func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (*EventTemplate, error) {
	event := EventTemplate{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Title:          normalizeTitle(input.Title),
		Date:           strings.TrimSpace(input.Date),
		Time:           normalizeTime(input.Time),
		Category:       strings.TrimSpace(input.Category),
		Priority:       input.Priority,
		Repeat:         input.Repeat,
		RepeatForever:  input.RepeatForever,
		RepeatDuration: input.RepeatDuration,
		Requirements:   normalizeRequirements(input.Requirements),
		Description:    strings.TrimSpace(input.Description),
		XP:             input.XP,
	}
	if event.Priority == "" {
		event.Priority = PriorityBasic
	}
	if event.Repeat == "" {
		event.Repeat = RepeatNone
	}
	if event.RepeatDuration == 0 {
		event.RepeatDuration = DefaultRepeatDuration
	}
	if event.XP == 0 {
		event.XP = DefaultXP
	}
	if event.Repeat == RepeatNone {
		event.RepeatForever = false
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.repo.CreateEvent(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, input UpdateEventInput) (*EventTemplate, error) {
	event, err := s.repo.GetEvent(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = normalizeTitle(*input.Title)
	}
	if input.Date != nil {
		event.Date = strings.TrimSpace(*input.Date)
	}
	if input.Time != nil {
		event.Time = normalizeTime(*input.Time)
	}
	if input.Category != nil {
		event.Category = strings.TrimSpace(*input.Category)
	}
	if input.Priority != nil {
		event.Priority = *input.Priority
	}
	if input.Repeat != nil {
		event.Repeat = *input.Repeat
	}
	if input.RepeatForever != nil {
		event.RepeatForever = *input.RepeatForever
	}
	if input.RepeatDuration != nil {
		event.RepeatDuration = *input.RepeatDuration
	}
	if input.Requirements != nil {
		event.Requirements = normalizeRequirements(*input.Requirements)
	}
	if input.IsComplete != nil {
		event.IsComplete = *input.IsComplete
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.XP != nil {
		event.XP = *input.XP
	}
	if event.Repeat == RepeatNone {
		event.RepeatForever = false
	}

	if err := validateEvent(*event); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes the template and any per-date overrides it has.
func (s *Service) DeleteEvent(ctx context.Context, userID, eventID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteInstances(ctx, userID, eventID); err != nil {
			return err
		}
		deleted, err := tx.DeleteEvent(ctx, userID, eventID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrEventNotFound
		}
		return nil
	})
}

// DeleteSeries deletes a repeating event together with every occurrence.
func (s *Service) DeleteSeries(ctx context.Context, userID, eventID string) error {
	event, err := s.repo.GetEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if !event.Repeat.Recurring() {
		return ErrNotRepeating
	}
	return s.DeleteEvent(ctx, userID, eventID)
}

// SetOccurrenceComplete marks one occurrence complete. Expanded repeating
// events keep the state in a per-date override; everything else stores it
// on the template.
func (s *Service) SetOccurrenceComplete(ctx context.Context, userID, eventID string, date Date, isComplete bool) error {
	event, perDate, err := s.occurrenceEvent(ctx, userID, eventID, date)
	if err != nil {
		return err
	}

	if perDate {
		return s.repo.UpsertInstance(ctx, userID, eventID, date, InstancePatch{IsComplete: &isComplete})
	}

	event.IsComplete = isComplete
	return s.repo.UpdateEvent(ctx, event)
}

func (s *Service) SetOccurrenceRequirements(ctx context.Context, userID, eventID string, date Date, requirements []Requirement) error {
	event, perDate, err := s.occurrenceEvent(ctx, userID, eventID, date)
	if err != nil {
		return err
	}

	requirements = normalizeRequirements(requirements)
	if perDate {
		return s.repo.UpsertInstance(ctx, userID, eventID, date, InstancePatch{Requirements: &requirements})
	}

	event.Requirements = requirements
	return s.repo.UpdateEvent(ctx, event)
}

// DeleteOccurrence hides a single date of an expanded repeating event. For
// any other event the occurrence is the event, so the template is deleted.
func (s *Service) DeleteOccurrence(ctx context.Context, userID, eventID string, date Date) error {
	_, perDate, err := s.occurrenceEvent(ctx, userID, eventID, date)
	if err != nil {
		return err
	}

	if perDate {
		deleted := true
		return s.repo.UpsertInstance(ctx, userID, eventID, date, InstancePatch{IsDeleted: &deleted})
	}
	return s.DeleteEvent(ctx, userID, eventID)
}

// OccurrenceState is the effective per-date state of one occurrence.
type OccurrenceState struct {
	EventID      string
	Date         Date
	IsComplete   bool
	Requirements []Requirement
}

// Occurrence reads the state of one occurrence. Dates of expanded repeating
// events start incomplete with unchecked requirements unless their override
// says otherwise.
func (s *Service) Occurrence(ctx context.Context, userID, eventID string, date Date) (*OccurrenceState, error) {
	event, perDate, err := s.occurrenceEvent(ctx, userID, eventID, date)
	if err != nil {
		return nil, err
	}

	state := &OccurrenceState{
		EventID:      eventID,
		Date:         date,
		IsComplete:   event.IsComplete,
		Requirements: CloneRequirements(event.Requirements),
	}
	if state.Requirements == nil {
		state.Requirements = []Requirement{}
	}
	if !perDate {
		return state, nil
	}

	state.IsComplete = false
	for i := range state.Requirements {
		state.Requirements[i].Checked = false
	}

	override, err := s.repo.GetInstance(ctx, userID, eventID, date)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if override.IsDeleted {
			return nil, ErrNoOccurrence
		}
		if override.IsComplete != nil {
			state.IsComplete = *override.IsComplete
		}
		if override.Requirements != nil {
			state.Requirements = CloneRequirements(override.Requirements)
		}
	}
	return state, nil
}

func (s *Service) GetInstance(ctx context.Context, userID, eventID string, date Date) (*InstanceOverride, error) {
	return s.repo.GetInstance(ctx, userID, eventID, date)
}

func (s *Service) ListInstances(ctx context.Context, userID, eventID string) ([]InstanceOverride, error) {
	return s.repo.ListInstances(ctx, userID, eventID)
}

// occurrenceEvent loads the event behind the occurrence on date and reports
// whether that date keeps its state in an override. Dates the event does
// not occur on yield ErrNoOccurrence.
func (s *Service) occurrenceEvent(ctx context.Context, userID, eventID string, date Date) (*EventTemplate, bool, error) {
	if date.IsZero() {
		return nil, false, invalid("date", "is required")
	}
	event, err := s.repo.GetEvent(ctx, userID, eventID)
	if err != nil {
		return nil, false, err
	}

	anchor, err := ParseDate(event.Date)
	if err != nil {
		return nil, false, invalid("date", err.Error())
	}
	perDate, err := s.usesOverrides(ctx, userID, event)
	if err != nil {
		return nil, false, err
	}
	if !perDate {
		if !date.Equal(anchor) {
			return nil, false, ErrNoOccurrence
		}
		return event, false, nil
	}
	if !occursOn(event, anchor, date) {
		return nil, false, ErrNoOccurrence
	}
	return event, true, nil
}

func occursOn(event *EventTemplate, anchor, date Date) bool {
	if event.IsBounded() && !date.Before(event.Repeat.PeriodEnd(anchor, event.RepeatDuration)) {
		return false
	}
	return event.Repeat.Matches(anchor, date)
}

func (s *Service) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	if categories, ok := s.cache.GetCategories(userID); ok {
		return categories, nil
	}

	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetCategories(userID, categories, s.catalogTTL)
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	category := Category{
		ID:     uuid.NewString(),
		UserID: input.UserID,
		Name:   name,
		Color:  firstNonEmpty(input.Color, DefaultCategoryColor),
		Icon:   firstNonEmpty(input.Icon, DefaultCategoryIcon),
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.ListCategories(ctx, input.UserID)
		if err != nil {
			return err
		}
		for _, item := range existing {
			if item.Name == name {
				return ErrCategoryExists
			}
		}
		projects, err := tx.ListProjects(ctx, input.UserID)
		if err != nil {
			return err
		}
		for _, item := range projects {
			if item.Name == name {
				return ErrProjectExists
			}
		}
		return tx.CreateCategory(ctx, &category)
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByUserID(input.UserID)
	return &category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	deleted, err := s.repo.DeleteCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	s.cache.DeleteByUserID(userID)
	return nil
}

func (s *Service) ListProjects(ctx context.Context, userID string) ([]Project, error) {
	if projects, ok := s.cache.GetProjects(userID); ok {
		return projects, nil
	}

	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetProjects(userID, projects, s.catalogTTL)
	return projects, nil
}

// CreateProject stores a project. Projects share the category reference
// namespace, so a name already used by a category is rejected.
func (s *Service) CreateProject(ctx context.Context, input CreateProjectInput) (*Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	project := Project{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Name:        name,
		Color:       firstNonEmpty(input.Color, DefaultProjectColor),
		Icon:        firstNonEmpty(input.Icon, DefaultProjectIcon),
		Description: strings.TrimSpace(input.Description),
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		projects, err := tx.ListProjects(ctx, input.UserID)
		if err != nil {
			return err
		}
		for _, item := range projects {
			if item.Name == name {
				return ErrProjectExists
			}
		}
		categories, err := tx.ListCategories(ctx, input.UserID)
		if err != nil {
			return err
		}
		for _, item := range categories {
			if item.Name == name {
				return ErrCategoryExists
			}
		}
		return tx.CreateProject(ctx, &project)
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByUserID(input.UserID)
	return &project, nil
}

func (s *Service) DeleteProject(ctx context.Context, userID, projectID string) error {
	deleted, err := s.repo.DeleteProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}
	s.cache.DeleteByUserID(userID)
	return nil
}

func validateEvent(event EventTemplate) error {
	if _, err := ParseDate(event.Date); err != nil {
		return invalid("date", err.Error())
	}
	if _, err := ParseTimeRange(event.Time); err != nil && !errors.Is(err, ErrNoTime) {
		return invalid("time", err.Error())
	}
	if !event.Priority.Valid() {
		return invalid("priority", "must be one of High, Basic, Low")
	}
	if !event.Repeat.Valid() {
		return invalid("repeat", "must be one of None, Daily, Weekly, Monthly, Yearly")
	}
	if event.RepeatDuration < 1 {
		return invalid("repeat_duration", "must be positive")
	}
	if event.XP < 0 {
		return invalid("xp", "must be non-negative")
	}
	for _, requirement := range event.Requirements {
		if requirement.Text == "" {
			return invalid("requirements", "text is required")
		}
	}
	return nil
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return title
}

func normalizeTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return TimeNone
	}
	return value
}

func normalizeRequirements(requirements []Requirement) []Requirement {
	result := make([]Requirement, 0, len(requirements))
	for _, requirement := range requirements {
		requirement.Text = strings.TrimSpace(requirement.Text)
		result = append(result, requirement)
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
