package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultStatus   = "To Do"
	DefaultPriority = "Medium"
)

var (
	ErrNotFound     = errors.New("epic not found")
	ErrInvalidInput = errors.New("invalid epic")
)

type Epic struct {
	ID                 string
	Name               string
	Description        string
	StartDate          *time.Time
	EndDate            *time.Time
	Status             string
	Priority           string
	ProjectID          *string
	AssignedTo         *string
	AssignedToName     string
	ProgressPercentage int
	ParentEpicID       *string
	MilestoneID        *string
	Tags               []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (e *Epic) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	if strings.TrimSpace(e.Status) == "" {
		e.Status = DefaultStatus
	}
	if strings.TrimSpace(e.Priority) == "" {
		e.Priority = DefaultPriority
	}
}

func (e Epic) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if e.ProgressPercentage < 0 || e.ProgressPercentage > 100 {
		return fmt.Errorf("%w: progressPercentage must be between 0 and 100", ErrInvalidInput)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	if e.ID != "" && e.ParentEpicID != nil && *e.ParentEpicID == e.ID {
		return fmt.Errorf("%w: an epic cannot be its own parent", ErrInvalidInput)
	}
	return nil
}
