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

	"github.com/ganttplan/ganttplan-backend/internal/epics/domain"
	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
)

const epicColumns = `
epic_id::text, name, coalesce(description, ''), start_date, end_date, status, priority,
project_id::text, assigned_to::text, progress_percentage, parent_epic_id::text, milestone_id::text,
coalesce(tags, '{}'), created_at, updated_at`

type EpicRepository struct {
	db *pgxpool.Pool
}

func NewEpicRepository(db *pgxpool.Pool) *EpicRepository {
	return &EpicRepository{db: db}
}

func (r *EpicRepository) List(ctx context.Context) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + ` from epics order by created_at;`
	return r.query(ctx, q)
}

func (r *EpicRepository) GetByID(ctx context.Context, id string) (*domain.Epic, error) {
	const q = `select ` + epicColumns + ` from epics where epic_id = $1::uuid;`
	e, err := scanEpic(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EpicRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + `
from epics
where project_id = $1::uuid
order by start_date nulls last, created_at;`
	return r.query(ctx, q, projectID)
}

// ListTopLevel returns epics without a parent ordered by start date.
func (r *EpicRepository) ListTopLevel(ctx context.Context) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + `
from epics
where parent_epic_id is null
order by start_date nulls last, created_at;`
	return r.query(ctx, q)
}

func (r *EpicRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + `
from epics
where parent_epic_id = $1::uuid
order by start_date nulls last, created_at;`
	return r.query(ctx, q, parentID)
}

func (r *EpicRepository) ListByStatus(ctx context.Context, status string) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + ` from epics where lower(status) = lower($1) order by created_at;`
	return r.query(ctx, q, status)
}

func (r *EpicRepository) ListByPriority(ctx context.Context, priority string) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + ` from epics where lower(priority) = lower($1) order by created_at;`
	return r.query(ctx, q, priority)
}

func (r *EpicRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Epic, error) {
	const q = `select ` + epicColumns + ` from epics where assigned_to = $1::uuid order by created_at;`
	return r.query(ctx, q, userID)
}

func (r *EpicRepository) Create(ctx context.Context, e *domain.Epic) error {
	e.ID = uuid.NewString()
	const q = `
insert into epics (epic_id, name, description, start_date, end_date, status, priority, project_id,
                   assigned_to, progress_percentage, parent_epic_id, milestone_id, tags)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8::uuid, $9::uuid, $10, $11::uuid, $12::uuid, $13)
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, writeArgs(e)...).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapWriteError(err)
}

func (r *EpicRepository) Update(ctx context.Context, e *domain.Epic) error {
	const q = `
update epics
set name = $2, description = $3, start_date = $4, end_date = $5, status = $6, priority = $7,
    project_id = $8::uuid, assigned_to = $9::uuid, progress_percentage = $10,
    parent_epic_id = $11::uuid, milestone_id = $12::uuid, tags = $13, updated_at = now()
where epic_id = $1::uuid
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, writeArgs(e)...).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return mapWriteError(err)
}

func (r *EpicRepository) Delete(ctx context.Context, id string) error {
	const q = `delete from epics where epic_id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EpicRepository) query(ctx context.Context, q string, args ...any) ([]domain.Epic, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Epic, 0, 16)
	for rows.Next() {
		e, err := scanEpic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEpic(row pgx.Row) (*domain.Epic, error) {
	var (
		e          domain.Epic
		start, end pgtype.Date
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &start, &end, &e.Status, &e.Priority,
		&e.ProjectID, &e.AssignedTo, &e.ProgressPercentage, &e.ParentEpicID, &e.MilestoneID,
		&e.Tags, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.StartDate = postgres.DateValue(start)
	e.EndDate = postgres.DateValue(end)
	return &e, nil
}

func writeArgs(e *domain.Epic) []any {
	return []any{
		e.ID, e.Name, e.Description, postgres.DateParam(e.StartDate), postgres.DateParam(e.EndDate),
		e.Status, e.Priority, e.ProjectID, e.AssignedTo, e.ProgressPercentage,
		e.ParentEpicID, e.MilestoneID, postgres.TextArray(e.Tags),
	}
}

// mapWriteError turns a foreign key violation on the parent, project or
// assignee references into an input error.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Detail)
	}
	return err
}
