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

	"github.com/ganttplan/ganttplan-backend/internal/projects/domain"
	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
)

const projectColumns = `
project_id::text, project_code, project_name, coalesce(project_description, ''), start_date, end_date,
status, priority, budget::float8, project_manager_id::text, coalesce(client_name, ''),
coalesce(project_type, ''), completion_percentage::float8, coalesce(tags, '{}'), created_at, updated_at`

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns every live project ordered by name.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `select ` + projectColumns + `
from projects
where deleted_at is null
order by project_name;`
	return r.query(ctx, q)
}

func (r *ProjectRepository) ListActive(ctx context.Context) ([]domain.Project, error) {
	const q = `select ` + projectColumns + `
from projects
where deleted_at is null and status not in ('Completed', 'Cancelled')
order by project_name;`
	return r.query(ctx, q)
}

func (r *ProjectRepository) ListByStatus(ctx context.Context, status string) ([]domain.Project, error) {
	const q = `select ` + projectColumns + `
from projects
where deleted_at is null and lower(status) = lower($1)
order by project_name;`
	return r.query(ctx, q, status)
}

func (r *ProjectRepository) ListByClient(ctx context.Context, client string) ([]domain.Project, error) {
	const q = `select ` + projectColumns + `
from projects
where deleted_at is null and lower(client_name) = lower($1)
order by project_name;`
	return r.query(ctx, q, client)
}

func (r *ProjectRepository) ListByType(ctx context.Context, projectType string) ([]domain.Project, error) {
	const q = `select ` + projectColumns + `
from projects
where deleted_at is null and lower(project_type) = lower($1)
order by project_name;`
	return r.query(ctx, q, projectType)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `select ` + projectColumns + ` from projects where project_id = $1::uuid and deleted_at is null;`
	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts p with a fresh id and project code, retrying when the
// random code collides.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
insert into projects (project_id, project_code, project_name, project_description, start_date, end_date,
                      status, priority, budget, project_manager_id, client_name, project_type,
                      completion_percentage, tags)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10::uuid, $11, $12, $13, $14)
returning created_at, updated_at;
`
	for i := 0; i < 5; i++ {
		code, err := domain.NewCode(domain.CodePrefix)
		if err != nil {
			return err
		}
		p.ID = uuid.NewString()
		p.Code = code

		err = r.db.QueryRow(ctx, q,
			p.ID, p.Code, p.Name, p.Description, postgres.DateParam(&p.StartDate), postgres.DateParam(p.EndDate),
			p.Status, p.Priority, p.Budget, p.ProjectManagerID, p.ClientName, p.ProjectType,
			p.CompletionPercentage, postgres.TextArray(p.Tags),
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err == nil {
			return nil
		}

		// unique violation on project_code → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return mapWriteError(err)
	}
	return fmt.Errorf("failed to generate unique project code")
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	const q = `
update projects
set project_name = $2, project_description = $3, start_date = $4, end_date = $5, status = $6,
    priority = $7, budget = $8, project_manager_id = $9::uuid, client_name = $10, project_type = $11,
    completion_percentage = $12, tags = $13, updated_at = now()
where project_id = $1::uuid and deleted_at is null
returning project_code, created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, postgres.DateParam(&p.StartDate), postgres.DateParam(p.EndDate), p.Status,
		p.Priority, p.Budget, p.ProjectManagerID, p.ClientName, p.ProjectType,
		p.CompletionPercentage, postgres.TextArray(p.Tags),
	).Scan(&p.Code, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return mapWriteError(err)
}

// SoftDelete marks a project as deleted.
func (r *ProjectRepository) SoftDelete(ctx context.Context, id string) error {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where project_id = $1::uuid and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) query(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p          domain.Project
		start, end pgtype.Date
	)
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &start, &end,
		&p.Status, &p.Priority, &p.Budget, &p.ProjectManagerID, &p.ClientName,
		&p.ProjectType, &p.CompletionPercentage, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s := postgres.DateValue(start); s != nil {
		p.StartDate = *s
	}
	p.EndDate = postgres.DateValue(end)
	return &p, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Detail)
	}
	return err
}
