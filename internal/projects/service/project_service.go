package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/projects/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Project, error)
	ListActive(ctx context.Context) ([]domain.Project, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Project, error)
	ListByClient(ctx context.Context, client string) ([]domain.Project, error)
	ListByType(ctx context.Context, projectType string) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	SoftDelete(ctx context.Context, id string) error
}

type CalendarSource interface {
	Calendar() *calendar.Calendar
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Repository
	cal  CalendarSource
}

func NewProjectService(repo Repository, cal CalendarSource) *ProjectService {
	return &ProjectService{repo: repo, cal: cal}
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) Active(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ListActive(ctx)
}

func (s *ProjectService) ByStatus(ctx context.Context, status string) ([]domain.Project, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *ProjectService) ByClient(ctx context.Context, client string) ([]domain.Project, error) {
	return s.repo.ListByClient(ctx, client)
}

func (s *ProjectService) ByType(ctx context.Context, projectType string) ([]domain.Project, error) {
	return s.repo.ListByType(ctx, projectType)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, p *domain.Project) error {
	p.ID = ""
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("project created",
		zap.String("project_id", p.ID),
		zap.String("code", p.Code))
	return nil
}

func (s *ProjectService) Update(ctx context.Context, p *domain.Project) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Delete soft-deletes a project
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// Schedule counts the working days between the project's start and end dates.
func (s *ProjectService) Schedule(ctx context.Context, id string) (domain.Schedule, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Schedule{}, err
	}
	if p.EndDate == nil {
		return domain.Schedule{}, domain.ErrNoEndDate
	}
	n, err := s.cal.Calendar().WorkingDaysBetween(ctx, p.StartDate, *p.EndDate)
	if err != nil {
		return domain.Schedule{}, err
	}
	return domain.Schedule{
		ProjectID:   p.ID,
		StartDate:   calendar.DateOf(p.StartDate),
		EndDate:     calendar.DateOf(*p.EndDate),
		WorkingDays: n,
	}, nil
}
