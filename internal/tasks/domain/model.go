package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeEpic    = "epic"
	TypeStory   = "story"
	TypeTask    = "task"
	TypeSubTask = "sub_task"

	DefaultStatus   = "To Do"
	DefaultPriority = "Medium"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid task")
)

// Task is a unit of scheduled work. Optional references and dates are nil
// when unset.
type Task struct {
	ID               string
	Type             string
	Title            string
	Description      string
	EpicID           *string
	SprintID         *string
	StartDate        *time.Time
	DueDate          *time.Time
	OriginalEstimate *time.Duration
	Status           string
	AssigneeID       *string
	AssigneeName     string
	Priority         string
	Labels           []string
	ParentTaskID     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplyDefaults fills the status and priority the way new rows are stored.
func (t *Task) ApplyDefaults() {
	t.Title = strings.TrimSpace(t.Title)
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if t.Type == "" {
		t.Type = TypeTask
	}
	if strings.TrimSpace(t.Status) == "" {
		t.Status = DefaultStatus
	}
	if strings.TrimSpace(t.Priority) == "" {
		t.Priority = DefaultPriority
	}
}

func ValidType(s string) bool {
	switch s {
	case TypeEpic, TypeStory, TypeTask, TypeSubTask:
		return true
	}
	return false
}

// EstimateDays returns the estimate in whole working days, rounded up.
func (t Task) EstimateDays() int {
	if t.OriginalEstimate == nil {
		return 0
	}
	return CeilDays(*t.OriginalEstimate)
}

// Filter narrows a task listing. Zero values match everything.
type Filter struct {
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	Types       []string
	AssigneeID  string
	Status      string
	Priority    string
}

// Matches applies f to t with case-insensitive string comparisons. Date
// bounds compare against the calendar date of UpdatedAt; rows without one
// never match a bounded filter.
func (f Filter) Matches(t Task) bool {
	if f.UpdatedFrom != nil || f.UpdatedTo != nil {
		if t.UpdatedAt.IsZero() {
			return false
		}
		updated := time.Date(t.UpdatedAt.Year(), t.UpdatedAt.Month(), t.UpdatedAt.Day(), 0, 0, 0, 0, time.UTC)
		if f.UpdatedFrom != nil && updated.Before(*f.UpdatedFrom) {
			return false
		}
		if f.UpdatedTo != nil && updated.After(*f.UpdatedTo) {
			return false
		}
	}
	if len(f.Types) > 0 {
		ok := false
		for _, typ := range f.Types {
			if strings.EqualFold(t.Type, strings.TrimSpace(typ)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.AssigneeID != "" && (t.AssigneeID == nil || !strings.EqualFold(*t.AssigneeID, f.AssigneeID)) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(t.Status, f.Status) {
		return false
	}
	if f.Priority != "" && !strings.EqualFold(t.Priority, f.Priority) {
		return false
	}
	return true
}
