package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultStatus   = "Planning"
	DefaultPriority = "Medium"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrInvalidInput = errors.New("invalid project")
	ErrNoEndDate    = errors.New("project has no end date")
)

// Project is a planned body of work. Code is a short human-readable key
// assigned on creation, e.g. "GP-12345-6789".
type Project struct {
	ID                   string
	Code                 string
	Name                 string
	Description          string
	StartDate            time.Time
	EndDate              *time.Time
	Status               string
	Priority             string
	Budget               *float64
	ProjectManagerID     *string
	ClientName           string
	ProjectType          string
	CompletionPercentage float64
	Tags                 []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Active reports whether the project is neither completed nor cancelled.
func (p Project) Active() bool {
	return !strings.EqualFold(p.Status, "Completed") && !strings.EqualFold(p.Status, "Cancelled")
}

func (p *Project) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.ClientName = strings.TrimSpace(p.ClientName)
	p.ProjectType = strings.TrimSpace(p.ProjectType)
	if strings.TrimSpace(p.Status) == "" {
		p.Status = DefaultStatus
	}
	if strings.TrimSpace(p.Priority) == "" {
		p.Priority = DefaultPriority
	}
}

func (p Project) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: projectName is required", ErrInvalidInput)
	case p.StartDate.IsZero():
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	case p.EndDate != nil && p.EndDate.Before(p.StartDate):
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	case p.CompletionPercentage < 0 || p.CompletionPercentage > 100:
		return fmt.Errorf("%w: completionPercentage must be between 0 and 100", ErrInvalidInput)
	case p.Budget != nil && *p.Budget < 0:
		return fmt.Errorf("%w: budget is negative", ErrInvalidInput)
	}
	return nil
}

// Schedule is the working-day view of a project's date range.
type Schedule struct {
	ProjectID   string
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
}
