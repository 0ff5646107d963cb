package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/epics/domain"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Epic, error)
	GetByID(ctx context.Context, id string) (*domain.Epic, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Epic, error)
	ListTopLevel(ctx context.Context) ([]domain.Epic, error)
	ListChildren(ctx context.Context, parentID string) ([]domain.Epic, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Epic, error)
	ListByPriority(ctx context.Context, priority string) ([]domain.Epic, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Epic, error)
	Create(ctx context.Context, e *domain.Epic) error
	Update(ctx context.Context, e *domain.Epic) error
	Delete(ctx context.Context, id string) error
}

// TaskCounter counts the tasks that reference an epic.
type TaskCounter interface {
	CountByEpic(ctx context.Context, epicID string) (int, error)
}

type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

type EpicService struct {
	repo  Repository
	tasks TaskCounter
	users UserDirectory
}

func NewEpicService(repo Repository, tasks TaskCounter, users UserDirectory) *EpicService {
	return &EpicService{repo: repo, tasks: tasks, users: users}
}

func (s *EpicService) List(ctx context.Context) ([]domain.Epic, error) {
	return s.withNames(ctx, s.repo.List)
}

func (s *EpicService) Get(ctx context.Context, id string) (*domain.Epic, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.fillNames(ctx, []domain.Epic{*e})
	return &out[0], nil
}

func (s *EpicService) ByProject(ctx context.Context, projectID string) ([]domain.Epic, error) {
	return s.withNames(ctx, func(ctx context.Context) ([]domain.Epic, error) { return s.repo.ListByProject(ctx, projectID) })
}

func (s *EpicService) TopLevel(ctx context.Context) ([]domain.Epic, error) {
	return s.withNames(ctx, s.repo.ListTopLevel)
}

func (s *EpicService) Children(ctx context.Context, parentID string) ([]domain.Epic, error) {
	return s.withNames(ctx, func(ctx context.Context) ([]domain.Epic, error) { return s.repo.ListChildren(ctx, parentID) })
}

func (s *EpicService) ByStatus(ctx context.Context, status string) ([]domain.Epic, error) {
	return s.withNames(ctx, func(ctx context.Context) ([]domain.Epic, error) { return s.repo.ListByStatus(ctx, status) })
}

func (s *EpicService) ByPriority(ctx context.Context, priority string) ([]domain.Epic, error) {
	return s.withNames(ctx, func(ctx context.Context) ([]domain.Epic, error) { return s.repo.ListByPriority(ctx, priority) })
}

func (s *EpicService) ByAssignee(ctx context.Context, userID string) ([]domain.Epic, error) {
	return s.withNames(ctx, func(ctx context.Context) ([]domain.Epic, error) { return s.repo.ListByAssignee(ctx, userID) })
}

// TaskCount returns the number of tasks under an existing epic.
func (s *EpicService) TaskCount(ctx context.Context, id string) (int, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.tasks.CountByEpic(ctx, id)
}

func (s *EpicService) Create(ctx context.Context, e *domain.Epic) error {
	e.ID = ""
	e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("epic created", zap.String("epic_id", e.ID))
	return nil
}

func (s *EpicService) Update(ctx context.Context, e *domain.Epic) error {
	if _, err := s.repo.GetByID(ctx, e.ID); err != nil {
		return err
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

func (s *EpicService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *EpicService) withNames(ctx context.Context, load func(context.Context) ([]domain.Epic, error)) ([]domain.Epic, error) {
	es, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return s.fillNames(ctx, es), nil
}

func (s *EpicService) fillNames(ctx context.Context, es []domain.Epic) []domain.Epic {
	if s.users == nil {
		return es
	}
	ids := make([]string, 0, len(es))
	for _, e := range es {
		if e.AssignedTo != nil {
			ids = append(ids, *e.AssignedTo)
		}
	}
	if len(ids) == 0 {
		return es
	}
	names, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		logging.FromContext(ctx).Warn("assignee lookup failed", zap.Error(err))
		return es
	}
	for i := range es {
		if es[i].AssignedTo != nil {
			es[i].AssignedToName = names[*es[i].AssignedTo]
		}
	}
	return es
}
