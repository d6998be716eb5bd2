package calendar

import (
	"context"
	"errors"

	"eventboard-go/internal/domain/events"
	"eventboard-go/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultInstanceLookupConcurrency = 8

type ResolverConfig struct {
	// InstanceLookupConcurrency bounds parallel per-date override reads.
	InstanceLookupConcurrency int
	// ExpandBoundedRepeats expands repeats with RepeatForever=false over
	// RepeatDuration periods instead of treating them as single-date entries.
	ExpandBoundedRepeats bool
}

type Resolver struct {
	store Store
	cfg   ResolverConfig
	log   logger.Logger
}

func NewResolver(store Store, cfg ResolverConfig, log logger.Logger) *Resolver {
	if cfg.InstanceLookupConcurrency <= 0 {
		cfg.InstanceLookupConcurrency = defaultInstanceLookupConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{store: store, cfg: cfg, log: log}
}

// Resolve materializes the user's occurrences for rng. Store failures on the
// template, category or project loads abort the pass with a *StoreError; a
// template with bad recurrence input is skipped and listed in Rejected.
func (r *Resolver) Resolve(ctx context.Context, userID string, rng Range) (Resolution, error) {
	templates, err := r.store.ListEvents(ctx, userID)
	if err != nil {
		return Resolution{}, storeError("list events", err)
	}
	categories, err := r.store.ListCategories(ctx, userID)
	if err != nil {
		return Resolution{}, storeError("list categories", err)
	}
	projects, err := r.store.ListProjects(ctx, userID)
	if err != nil {
		return Resolution{}, storeError("list projects", err)
	}

	refs := newReferenceIndex(categories, projects)
	result := Resolution{Range: rng}

	projectTasks := make(map[string][]Occurrence, len(projects))
	var expandable []expansion

	for _, template := range templates {
		if project, ok := refs.project(template.Category); ok {
			anchor, err := events.ParseDate(template.Date)
			if err != nil {
				r.reject(&result, userID, &RecurrenceInputError{TemplateID: template.ID, Field: "date", Value: template.Date, Err: err})
				continue
			}
			projectTasks[project.ID] = append(projectTasks[project.ID], newOccurrence(template, anchor, refs.resolve(template.Category)))
			continue
		}

		if template.IsForever() || (r.cfg.ExpandBoundedRepeats && template.IsBounded()) {
			rule, err := r.rule(template)
			if err != nil {
				r.reject(&result, userID, err)
				continue
			}
			dates := rule.Between(rng.Start, rng.End)
			if len(dates) > 0 {
				expandable = append(expandable, expansion{template: template, dates: dates})
			}
			continue
		}

		anchor, err := events.ParseDate(template.Date)
		if err != nil {
			r.reject(&result, userID, &RecurrenceInputError{TemplateID: template.ID, Field: "date", Value: template.Date, Err: err})
			continue
		}
		if !template.Repeat.Valid() && template.Repeat != "" {
			r.reject(&result, userID, &RecurrenceInputError{TemplateID: template.ID, Field: "repeat", Value: string(template.Repeat)})
			continue
		}
		if rng.Contains(anchor) {
			result.Dated = append(result.Dated, newOccurrence(template, anchor, refs.resolve(template.Category)))
		}
	}

	for _, project := range projects {
		result.Projects = append(result.Projects, ProjectGroup{
			Project: project,
			Tasks:   projectTasks[project.ID],
		})
	}

	for _, item := range expandable {
		occurrences, err := r.expand(ctx, userID, item, refs.resolve(item.template.Category))
		if err != nil {
			return Resolution{}, err
		}
		result.Recurring = append(result.Recurring, occurrences...)
	}

	return result, nil
}

type expansion struct {
	template events.EventTemplate
	dates    []events.Date
}

func (r *Resolver) rule(template events.EventTemplate) (Rule, error) {
	if template.IsForever() {
		return NewRule(template)
	}
	return BoundedRule(template)
}

// expand builds one occurrence per candidate date, applying the date's
// override. Lookups run concurrently; a failed lookup counts as "no
// override" so one bad read does not hide the rest of the series.
func (r *Resolver) expand(ctx context.Context, userID string, item expansion, ref Reference) ([]Occurrence, error) {
	overrides := make([]*events.InstanceOverride, len(item.dates))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.InstanceLookupConcurrency)
	for i, date := range item.dates {
		i, date := i, date
		group.Go(func() error {
			override, err := r.store.GetInstance(groupCtx, userID, item.template.ID, date)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.log.Warn("calendar.resolve: instance lookup failed",
					"err", err,
					"user_id", userID,
					"event_id", item.template.ID,
					"date", date.String(),
				)
				return nil
			}
			overrides[i] = override
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, storeError("get instance", err)
		}
		return nil, err
	}

	result := make([]Occurrence, 0, len(item.dates))
	for i, date := range item.dates {
		override := overrides[i]
		if override != nil && override.IsDeleted {
			continue
		}
		result = append(result, virtualOccurrence(item.template, date, ref, override))
	}
	return result, nil
}

func (r *Resolver) reject(result *Resolution, userID string, err error) {
	var inputErr *RecurrenceInputError
	if !errors.As(err, &inputErr) {
		inputErr = &RecurrenceInputError{Err: err}
	}
	r.log.BusinessError("calendar.resolve: template skipped", inputErr, "user_id", userID, "event_id", inputErr.TemplateID)
	result.Rejected = append(result.Rejected, inputErr)
}

func newOccurrence(template events.EventTemplate, date events.Date, ref Reference) Occurrence {
	requirements := events.CloneRequirements(template.Requirements)
	if requirements == nil {
		requirements = []events.Requirement{}
	}
	return Occurrence{
		ID:             template.ID,
		Title:          titleOrDefault(template.Title),
		Date:           date,
		Time:           template.Time,
		Reference:      ref,
		Priority:       priorityOrDefault(template.Priority),
		Repeat:         template.Repeat,
		RepeatForever:  template.RepeatForever,
		RepeatDuration: template.RepeatDuration,
		Requirements:   requirements,
		IsComplete:     template.IsComplete,
		Description:    template.Description,
		XP:             template.XP,
	}
}

// virtualOccurrence starts each date unchecked and incomplete unless the
// date's override says otherwise.
func virtualOccurrence(template events.EventTemplate, date events.Date, ref Reference, override *events.InstanceOverride) Occurrence {
	occurrence := newOccurrence(template, date, ref)
	occurrence.IsComplete = false
	for i := range occurrence.Requirements {
		occurrence.Requirements[i].Checked = false
	}

	if override != nil {
		if override.IsComplete != nil {
			occurrence.IsComplete = *override.IsComplete
		}
		if override.Requirements != nil {
			occurrence.Requirements = events.CloneRequirements(override.Requirements)
		}
	}

	occurrence.IsVirtual = true
	occurrence.ParentEventID = template.ID
	occurrence.InstanceDate = date
	return occurrence
}

func titleOrDefault(title string) string {
	if title == "" {
		return events.DefaultTitle
	}
	return title
}

func priorityOrDefault(priority events.Priority) events.Priority {
	if priority == "" {
		return events.PriorityBasic
	}
	return priority
}

type referenceIndex struct {
	categories map[string]events.Category
	projects   map[string]events.Project
}

func newReferenceIndex(categories []events.Category, projects []events.Project) referenceIndex {
	index := referenceIndex{
		categories: make(map[string]events.Category, len(categories)),
		projects:   make(map[string]events.Project, len(projects)),
	}
	for _, category := range categories {
		index.categories[category.Name] = category
	}
	for _, project := range projects {
		index.projects[project.Name] = project
	}
	return index
}

func (i referenceIndex) project(name string) (events.Project, bool) {
	if name == "" {
		return events.Project{}, false
	}
	project, ok := i.projects[name]
	return project, ok
}

// resolve checks projects first: a name used by both belongs to the project.
func (i referenceIndex) resolve(name string) Reference {
	if name == "" {
		return Reference{Kind: RefNone}
	}
	if project, ok := i.projects[name]; ok {
		return Reference{
			Kind:      RefProject,
			Name:      project.Name,
			Color:     orDefault(project.Color, events.DefaultProjectColor),
			Icon:      orDefault(project.Icon, events.DefaultProjectIcon),
			ProjectID: project.ID,
		}
	}
	if category, ok := i.categories[name]; ok {
		return Reference{
			Kind:  RefCategory,
			Name:  category.Name,
			Color: orDefault(category.Color, events.DefaultCategoryColor),
			Icon:  orDefault(category.Icon, events.DefaultCategoryIcon),
		}
	}
	return Reference{
		Kind:        RefCategory,
		Name:        name,
		Color:       events.DefaultCategoryColor,
		Icon:        events.DefaultCategoryIcon,
		Placeholder: true,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
