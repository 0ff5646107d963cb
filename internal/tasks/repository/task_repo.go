package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
)

const taskColumns = `
task_id::text, task_type, title, coalesce(description, ''), epic_id::text, sprint_id::text,
start_date, due_date, original_estimate, status, assignee_id::text, priority,
coalesce(labels, '{}'), parent_task_id::text, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks order by created_at;`
	return r.query(ctx, q)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks where task_id = $1::uuid;`
	t, err := scanTask(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListEpics returns tasks of type epic ordered by start date.
func (r *TaskRepository) ListEpics(ctx context.Context) ([]domain.Task, error) {
	const q = `select ` + taskColumns + `
from tasks
where task_type = 'epic'
order by start_date nulls last, created_at;`
	return r.query(ctx, q)
}

// ListTopLevelByEpic returns the tasks of an epic that have no parent task.
func (r *TaskRepository) ListTopLevelByEpic(ctx context.Context, epicID string) ([]domain.Task, error) {
	const q = `select ` + taskColumns + `
from tasks
where epic_id = $1::uuid and parent_task_id is null
order by start_date nulls last, created_at;`
	return r.query(ctx, q, epicID)
}

func (r *TaskRepository) ListSubtasks(ctx context.Context, parentID string) ([]domain.Task, error) {
	const q = `select ` + taskColumns + `
from tasks
where parent_task_id = $1::uuid and task_type = 'sub_task'
order by start_date nulls last, created_at;`
	return r.query(ctx, q, parentID)
}

func (r *TaskRepository) ListByType(ctx context.Context, typ string) ([]domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks where lower(task_type) = lower($1) order by created_at;`
	return r.query(ctx, q, typ)
}

func (r *TaskRepository) ListByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks where lower(status) = lower($1) order by created_at;`
	return r.query(ctx, q, status)
}

func (r *TaskRepository) ListByPriority(ctx context.Context, priority string) ([]domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks where lower(priority) = lower($1) order by created_at;`
	return r.query(ctx, q, priority)
}

// CountByEpic counts every task that belongs to an epic.
func (r *TaskRepository) CountByEpic(ctx context.Context, epicID string) (int, error) {
	const q = `select count(*) from tasks where epic_id = $1::uuid;`
	var n int
	if err := r.db.QueryRow(ctx, q, epicID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	t.ID = uuid.NewString()
	const q = `
insert into tasks (task_id, task_type, title, description, epic_id, sprint_id, start_date, due_date,
                   original_estimate, status, assignee_id, priority, labels, parent_task_id)
values ($1::uuid, $2, $3, $4, $5::uuid, $6::uuid, $7, $8, $9, $10, $11::uuid, $12, $13, $14::uuid)
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, writeArgs(t)...).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapWriteError(err)
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	const q = `
update tasks
set task_type = $2, title = $3, description = $4, epic_id = $5::uuid, sprint_id = $6::uuid,
    start_date = $7, due_date = $8, original_estimate = $9, status = $10, assignee_id = $11::uuid,
    priority = $12, labels = $13, parent_task_id = $14::uuid, updated_at = now()
where task_id = $1::uuid
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, writeArgs(t)...).Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return mapWriteError(err)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	const q = `delete from tasks where task_id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) query(ctx context.Context, q string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                  domain.Task
		startDate, dueDate pgtype.Date
		estimate           pgtype.Interval
	)
	err := row.Scan(
		&t.ID, &t.Type, &t.Title, &t.Description, &t.EpicID, &t.SprintID,
		&startDate, &dueDate, &estimate, &t.Status, &t.AssigneeID, &t.Priority,
		&t.Labels, &t.ParentTaskID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.StartDate = postgres.DateValue(startDate)
	t.DueDate = postgres.DateValue(dueDate)
	t.OriginalEstimate = postgres.IntervalValue(estimate)
	return &t, nil
}

func writeArgs(t *domain.Task) []any {
	return []any{
		t.ID, t.Type, t.Title, t.Description, t.EpicID, t.SprintID,
		postgres.DateParam(t.StartDate), postgres.DateParam(t.DueDate), postgres.IntervalParam(t.OriginalEstimate),
		t.Status, t.AssigneeID, t.Priority, postgres.TextArray(t.Labels), t.ParentTaskID,
	}
}

// mapWriteError reports a dangling epic, parent or assignee reference as bad input.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Detail)
	}
	return err
}
