package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListEpics(ctx context.Context) ([]domain.Task, error)
	ListTopLevelByEpic(ctx context.Context, epicID string) ([]domain.Task, error)
	ListSubtasks(ctx context.Context, parentID string) ([]domain.Task, error)
	ListByType(ctx context.Context, typ string) ([]domain.Task, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Task, error)
	ListByPriority(ctx context.Context, priority string) ([]domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

// CalendarSource hands out a working-day calendar for one request.
type CalendarSource interface {
	Calendar() *calendar.Calendar
}

// UserDirectory resolves user ids to display names.
type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

type TaskService struct {
	repo  Repository
	cal   CalendarSource
	users UserDirectory
}

// NewTaskService wires the service. users may be nil, in which case assignee
// names are left empty.
func NewTaskService(repo Repository, cal CalendarSource, users UserDirectory) *TaskService {
	return &TaskService{repo: repo, cal: cal, users: users}
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.List(ctx))
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.enrich(ctx)([]domain.Task{*t}, nil)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Filter lists tasks matching f.
func (s *TaskService) Filter(ctx context.Context, f domain.Filter) ([]domain.Task, error) {
	if f.UpdatedFrom != nil && f.UpdatedTo != nil && f.UpdatedFrom.After(*f.UpdatedTo) {
		return nil, fmt.Errorf("%w: startDate %s is after endDate %s", calendar.ErrInput,
			calendar.FormatDate(*f.UpdatedFrom), calendar.FormatDate(*f.UpdatedTo))
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return s.enrich(ctx)(out, nil)
}

func (s *TaskService) Epics(ctx context.Context) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListEpics(ctx))
}

func (s *TaskService) TopLevel(ctx context.Context, epicID string) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListTopLevelByEpic(ctx, epicID))
}

func (s *TaskService) Subtasks(ctx context.Context, parentID string) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListSubtasks(ctx, parentID))
}

func (s *TaskService) ByType(ctx context.Context, typ string) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListByType(ctx, typ))
}

func (s *TaskService) ByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListByStatus(ctx, status))
}

func (s *TaskService) ByPriority(ctx context.Context, priority string) ([]domain.Task, error) {
	return s.enrich(ctx)(s.repo.ListByPriority(ctx, priority))
}

func (s *TaskService) Create(ctx context.Context, t *domain.Task) error {
	t.ID = ""
	t.ApplyDefaults()
	if err := validate(t); err != nil {
		return err
	}
	if err := s.applySchedule(ctx, t); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("task created",
		zap.String("task_id", t.ID),
		zap.String("type", t.Type))
	return nil
}

func (s *TaskService) Update(ctx context.Context, t *domain.Task) error {
	if _, err := s.repo.GetByID(ctx, t.ID); err != nil {
		return err
	}
	t.ApplyDefaults()
	if err := validate(t); err != nil {
		return err
	}
	if err := s.applySchedule(ctx, t); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// EndDateEstimate is the result of projecting an estimate from a start date.
type EndDateEstimate struct {
	StartDate       time.Time
	EstimateDays    int
	EndDate         time.Time
	EndIsWorkingDay bool
}

func (s *TaskService) CalculateEndDate(ctx context.Context, start time.Time, estimateDays int) (EndDateEstimate, error) {
	cal := s.cal.Calendar()
	end, err := cal.CalculateEndDate(ctx, start, estimateDays)
	if err != nil {
		return EndDateEstimate{}, err
	}
	working, err := cal.IsWorkingDay(ctx, end)
	if err != nil {
		return EndDateEstimate{}, err
	}
	return EndDateEstimate{
		StartDate:       calendar.DateOf(start),
		EstimateDays:    estimateDays,
		EndDate:         end,
		EndIsWorkingDay: working,
	}, nil
}

// EndDateCheck reports whether a user-selected end date leaves room for the estimate.
type EndDateCheck struct {
	Valid      bool
	Calculated time.Time
	Selected   time.Time
	Message    string
}

func (s *TaskService) ValidateEndDate(ctx context.Context, start time.Time, estimateDays int, selected time.Time) (EndDateCheck, error) {
	cal := s.cal.Calendar()
	end, err := cal.CalculateEndDate(ctx, start, estimateDays)
	if err != nil {
		return EndDateCheck{}, err
	}
	selected = calendar.DateOf(selected)
	check := EndDateCheck{
		Valid:      calendar.MeetsEarliest(selected, end),
		Calculated: end,
		Selected:   selected,
	}
	check.Message = endDateMessage(check.Valid, end)
	return check, nil
}

func endDateMessage(valid bool, end time.Time) string {
	if valid {
		return "Valid end date"
	}
	return "End date must be on or after " + calendar.FormatDate(end)
}

// applySchedule fills a missing due date from the estimate, or checks a
// supplied one against it.
func (s *TaskService) applySchedule(ctx context.Context, t *domain.Task) error {
	if t.StartDate == nil {
		return nil
	}
	start := calendar.DateOf(*t.StartDate)
	t.StartDate = &start
	if t.DueDate != nil {
		due := calendar.DateOf(*t.DueDate)
		t.DueDate = &due
	}

	days := t.EstimateDays()
	if days <= 0 {
		if t.DueDate != nil && t.DueDate.Before(start) {
			return fmt.Errorf("%w: dueDate is before startDate", domain.ErrInvalidInput)
		}
		return nil
	}

	cal := s.cal.Calendar()
	end, err := cal.CalculateEndDate(ctx, start, days)
	if err != nil {
		return err
	}
	if t.DueDate == nil {
		t.DueDate = &end
		return nil
	}
	if !calendar.MeetsEarliest(*t.DueDate, end) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, endDateMessage(false, end))
	}
	return nil
}

func validate(t *domain.Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !domain.ValidType(t.Type) {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidInput, t.Type)
	}
	if t.ParentTaskID != nil && t.ID != "" && *t.ParentTaskID == t.ID {
		return fmt.Errorf("%w: a task cannot be its own parent", domain.ErrInvalidInput)
	}
	if t.OriginalEstimate != nil && *t.OriginalEstimate < 0 {
		return fmt.Errorf("%w: originalEstimate is negative", domain.ErrInvalidInput)
	}
	return nil
}

// enrich returns a function that fills assignee names on a repository
// result. A directory failure is logged and the names stay empty.
func (s *TaskService) enrich(ctx context.Context) func([]domain.Task, error) ([]domain.Task, error) {
	return func(ts []domain.Task, err error) ([]domain.Task, error) {
		if err != nil || s.users == nil || len(ts) == 0 {
			return ts, err
		}
		seen := make(map[string]bool, len(ts))
		ids := make([]string, 0, len(ts))
		for _, t := range ts {
			if t.AssigneeID == nil || seen[*t.AssigneeID] {
				continue
			}
			seen[*t.AssigneeID] = true
			ids = append(ids, *t.AssigneeID)
		}
		if len(ids) == 0 {
			return ts, nil
		}
		names, err := s.users.DisplayNames(ctx, ids)
		if err != nil {
			logging.FromContext(ctx).Warn("assignee lookup failed", zap.Error(err))
			return ts, nil
		}
		for i := range ts {
			if ts[i].AssigneeID != nil {
				ts[i].AssigneeName = strings.TrimSpace(names[*ts[i].AssigneeID])
			}
		}
		return ts, nil
	}
}
