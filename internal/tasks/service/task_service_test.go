package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/holidaytest"
	holidaysvc "github.com/ganttplan/ganttplan-backend/internal/holidays/service"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/tasktest"
)

func ptr[T any](v T) *T { return &v }

// 2024-01-01 is a Monday; Wednesday 2024-01-03 is a company holiday.
func setupTaskService(t *testing.T, seed ...domain.Task) (*TaskService, *tasktest.MemoryRepo, *holidaytest.MemoryStore, *tasktest.Directory) {
	t.Helper()
	store := holidaytest.NewMemoryStore(holidaytest.NonWorking(calendar.Date(2024, time.January, 3), "Offsite"))
	repo := tasktest.NewMemoryRepo(seed...)
	dir := &tasktest.Directory{Names: map[string]string{"u-1": "Ada Lovelace"}}
	return NewTaskService(repo, holidaysvc.NewHolidayService(store, 0), dir), repo, store, dir
}

func TestTaskService_CalculateEndDate(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := setupTaskService(t)

	t.Run("skips the holiday", func(t *testing.T) {
		got, err := svc.CalculateEndDate(ctx, calendar.Date(2024, time.January, 1), 3)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-04", calendar.FormatDate(got.EndDate))
		assert.Equal(t, 3, got.EstimateDays)
		assert.True(t, got.EndIsWorkingDay)
	})

	t.Run("zero estimate returns the start date", func(t *testing.T) {
		got, err := svc.CalculateEndDate(ctx, calendar.Date(2024, time.January, 6), 0)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-06", calendar.FormatDate(got.EndDate))
		assert.False(t, got.EndIsWorkingDay, "saturday")
	})

	t.Run("lookup failure is data unavailable", func(t *testing.T) {
		store.Err = errors.New("connection refused")
		defer func() { store.Err = nil }()
		_, err := svc.CalculateEndDate(ctx, calendar.Date(2024, time.January, 1), 3)
		assert.ErrorIs(t, err, calendar.ErrDataUnavailable)
	})
}

func TestTaskService_ValidateEndDate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := setupTaskService(t)
	start := calendar.Date(2024, time.January, 1)

	check, err := svc.ValidateEndDate(ctx, start, 3, calendar.Date(2024, time.January, 4))
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, "Valid end date", check.Message)

	check, err = svc.ValidateEndDate(ctx, start, 3, calendar.Date(2024, time.January, 3))
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, "End date must be on or after 2024-01-04", check.Message)
	assert.Equal(t, "2024-01-03", calendar.FormatDate(check.Selected))
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the due date from the estimate", func(t *testing.T) {
		svc, repo, _, _ := setupTaskService(t)
		task := &domain.Task{
			Title:            "Build API",
			StartDate:        ptr(calendar.Date(2024, time.January, 1)),
			OriginalEstimate: ptr(20 * time.Hour),
		}
		require.NoError(t, svc.Create(ctx, task))

		assert.NotEmpty(t, task.ID)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, "2024-01-04", calendar.FormatDate(*task.DueDate), "2.5 days round up to 3")
		assert.Equal(t, domain.DefaultStatus, task.Status)
		assert.Equal(t, domain.DefaultPriority, task.Priority)
		assert.Equal(t, domain.TypeTask, task.Type)
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("accepts a due date on or after the projection", func(t *testing.T) {
		svc, _, _, _ := setupTaskService(t)
		task := &domain.Task{
			Title:            "Write docs",
			StartDate:        ptr(calendar.Date(2024, time.January, 1)),
			DueDate:          ptr(calendar.Date(2024, time.January, 5)),
			OriginalEstimate: ptr(24 * time.Hour),
		}
		require.NoError(t, svc.Create(ctx, task))
		assert.Equal(t, "2024-01-05", calendar.FormatDate(*task.DueDate))
	})

	t.Run("rejects a due date that is too early", func(t *testing.T) {
		svc, repo, _, _ := setupTaskService(t)
		task := &domain.Task{
			Title:            "Too tight",
			StartDate:        ptr(calendar.Date(2024, time.January, 1)),
			DueDate:          ptr(calendar.Date(2024, time.January, 2)),
			OriginalEstimate: ptr(24 * time.Hour),
		}
		err := svc.Create(ctx, task)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "End date must be on or after 2024-01-04")
		assert.Zero(t, repo.Len())
	})

	t.Run("validates title and type", func(t *testing.T) {
		svc, _, _, _ := setupTaskService(t)
		assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: "  "}), domain.ErrInvalidInput)
		assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: "x", Type: "bug"}), domain.ErrInvalidInput)
	})

	t.Run("no start date leaves the due date alone", func(t *testing.T) {
		svc, _, _, _ := setupTaskService(t)
		task := &domain.Task{Title: "Backlog", OriginalEstimate: ptr(8 * time.Hour)}
		require.NoError(t, svc.Create(ctx, task))
		assert.Nil(t, task.DueDate)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := setupTaskService(t, domain.Task{ID: "t1", Title: "Old", Type: domain.TypeTask})

	err := svc.Update(ctx, &domain.Task{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, &domain.Task{ID: "t1", Title: "x", ParentTaskID: ptr("t1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	upd := &domain.Task{ID: "t1", Title: "New", Status: "Done"}
	require.NoError(t, svc.Update(ctx, upd))
	got, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Done", got.Status)
}

func TestTaskService_Queries(t *testing.T) {
	ctx := context.Background()
	epic := "e-1"
	svc, repo, _, dir := setupTaskService(t,
		domain.Task{ID: "epic", Type: domain.TypeEpic, Title: "Epic", StartDate: ptr(calendar.Date(2024, time.February, 1))},
		domain.Task{ID: "a", Type: domain.TypeStory, Title: "A", EpicID: &epic, AssigneeID: ptr("u-1"), Status: "In Progress", Priority: "High",
			StartDate: ptr(calendar.Date(2024, time.January, 10)), UpdatedAt: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)},
		domain.Task{ID: "b", Type: domain.TypeTask, Title: "B", EpicID: &epic, Status: "To Do", Priority: "Low",
			StartDate: ptr(calendar.Date(2024, time.January, 2)), UpdatedAt: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)},
		domain.Task{ID: "c", Type: domain.TypeSubTask, Title: "C", EpicID: &epic, ParentTaskID: ptr("a"), AssigneeID: ptr("u-2")},
	)

	t.Run("top level tasks are ordered by start date", func(t *testing.T) {
		got, err := svc.TopLevel(ctx, epic)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "Ada Lovelace", got[1].AssigneeName)
	})

	t.Run("subtasks and epics", func(t *testing.T) {
		subs, err := svc.Subtasks(ctx, "a")
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Empty(t, subs[0].AssigneeName, "unknown user")

		epics, err := svc.Epics(ctx)
		require.NoError(t, err)
		require.Len(t, epics, 1)
	})

	t.Run("filter is case insensitive", func(t *testing.T) {
		from := calendar.Date(2024, time.March, 2)
		got, err := svc.Filter(ctx, domain.Filter{Types: []string{"STORY", "task"}, Status: "in progress", UpdatedFrom: &from})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("filter rejects inverted bounds", func(t *testing.T) {
		from, to := calendar.Date(2024, time.March, 2), calendar.Date(2024, time.March, 1)
		_, err := svc.Filter(ctx, domain.Filter{UpdatedFrom: &from, UpdatedTo: &to})
		assert.ErrorIs(t, err, calendar.ErrInput)
	})

	t.Run("by status and priority", func(t *testing.T) {
		got, err := svc.ByStatus(ctx, "to do")
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = svc.ByPriority(ctx, "HIGH")
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = svc.ByType(ctx, "sub_task")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("directory failure keeps the listing", func(t *testing.T) {
		dir.Err = errors.New("users down")
		defer func() { dir.Err = nil }()
		got, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		repo.Err = errors.New("db down")
		defer func() { repo.Err = nil }()
		_, err := svc.List(ctx)
		assert.Error(t, err)
	})
}
