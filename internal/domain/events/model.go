package events

import "time"

type Priority string

const (
	PriorityHigh  Priority = "High"
	PriorityBasic Priority = "Basic"
	PriorityLow   Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityBasic, PriorityLow:
		return true
	default:
		return false
	}
}

type Repeat string

const (
	RepeatNone    Repeat = "None"
	RepeatDaily   Repeat = "Daily"
	RepeatWeekly  Repeat = "Weekly"
	RepeatMonthly Repeat = "Monthly"
	RepeatYearly  Repeat = "Yearly"
)

func (r Repeat) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	default:
		return false
	}
}

// Recurring reports whether r generates more than the anchor occurrence.
func (r Repeat) Recurring() bool {
	return r != RepeatNone && r.Valid()
}

const (
	DefaultTitle          = "Untitled"
	DefaultXP             = 10
	DefaultCategoryColor  = "#b8e84c"
	DefaultCategoryIcon   = "fa-solid fa-star"
	DefaultProjectColor   = "#b8e84c"
	DefaultProjectIcon    = "fa-solid fa-rocket"
	DefaultRepeatDuration = 1
)

type Requirement struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// EventTemplate is the stored event/task. Date is kept as "YYYY-MM-DD" so
// the store never sees a timezone.
type EventTemplate struct {
	ID             string        `gorm:"type:varchar(36);primaryKey"`
	UserID         string        `gorm:"type:varchar(64);index;not null"`
	Title          string        `gorm:"not null"`
	Date           string        `gorm:"type:varchar(10);index;not null"`
	Time           string        `gorm:"not null;default:none"`
	Category       string        `gorm:"not null;default:''"`
	Priority       Priority      `gorm:"type:varchar(16);not null;default:Basic"`
	Repeat         Repeat        `gorm:"type:varchar(16);not null;default:None"`
	RepeatForever  bool          `gorm:"not null;default:false"`
	RepeatDuration int           `gorm:"not null;default:1"`
	Requirements   []Requirement `gorm:"serializer:json"`
	IsComplete     bool          `gorm:"not null;default:false"`
	Description    string        `gorm:"not null;default:''"`
	XP             int           `gorm:"column:xp;not null;default:10"`
	CreatedAt      time.Time     `gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime"`
}

func (EventTemplate) TableName() string {
	return "event_templates"
}

// IsForever reports whether the template expands indefinitely.
func (t EventTemplate) IsForever() bool {
	return t.RepeatForever && t.Repeat.Recurring()
}

// IsBounded reports whether the template repeats for RepeatDuration periods.
func (t EventTemplate) IsBounded() bool {
	return !t.RepeatForever && t.Repeat.Recurring()
}

type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);index;not null"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"not null"`
	Icon      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Project struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	UserID      string    `gorm:"type:varchar(64);index;not null"`
	Name        string    `gorm:"not null"`
	Color       string    `gorm:"not null"`
	Icon        string    `gorm:"not null"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// InstanceOverride is the per-date state of a repeating template. Nil
// IsComplete / Requirements mean "not set for this date".
type InstanceOverride struct {
	ID           string        `gorm:"type:varchar(64);primaryKey"`
	UserID       string        `gorm:"type:varchar(64);index;not null"`
	EventID      string        `gorm:"type:varchar(36);index;not null"`
	Date         string        `gorm:"type:varchar(10);not null"`
	IsComplete   *bool         `gorm:"column:is_complete"`
	Requirements []Requirement `gorm:"serializer:json"`
	IsDeleted    bool          `gorm:"not null;default:false"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime"`
}

func InstanceID(eventID string, date Date) string {
	return eventID + "_" + date.String()
}

// InstancePatch carries the fields of an upsert; nil fields stay untouched.
type InstancePatch struct {
	IsComplete   *bool
	Requirements *[]Requirement
	IsDeleted    *bool
}

func (p InstancePatch) Empty() bool {
	return p.IsComplete == nil && p.Requirements == nil && p.IsDeleted == nil
}

type CreateEventInput struct {
	UserID         string
	Title          string
	Date           string
	Time           string
	Category       string
	Priority       Priority
	Repeat         Repeat
	RepeatForever  bool
	RepeatDuration int
	Requirements   []Requirement
	Description    string
	XP             int
}

type UpdateEventInput struct {
	ID             string
	UserID         string
	Title          *string
	Date           *string
	Time           *string
	Category       *string
	Priority       *Priority
	Repeat         *Repeat
	RepeatForever  *bool
	RepeatDuration *int
	Requirements   *[]Requirement
	IsComplete     *bool
	Description    *string
	XP             *int
}

type CreateCategoryInput struct {
	UserID string
	Name   string
	Color  string
	Icon   string
}

type CreateProjectInput struct {
	UserID      string
	Name        string
	Color       string
	Icon        string
	Description string
}

func CloneRequirements(requirements []Requirement) []Requirement {
	if requirements == nil {
		return nil
	}
	cloned := make([]Requirement, len(requirements))
	copy(cloned, requirements)
	return cloned
}
