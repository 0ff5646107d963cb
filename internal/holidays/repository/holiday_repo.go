package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
)

const holidayColumns = `holiday_id, holiday_date, holiday_name, holiday_type, is_working_day,
       description, country_code, created_at, updated_at`

// HolidayRepository persists holidays in PostgreSQL.
type HolidayRepository struct {
	db *sql.DB
}

func NewHolidayRepository(db *sql.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// FindAll returns every holiday ordered by date.
func (r *HolidayRepository) FindAll(ctx context.Context) ([]domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + ` FROM holidays ORDER BY holiday_date`
	return r.list(ctx, q)
}

// FindHolidaysByDateRange returns the holidays in [start, end] ordered by date.
func (r *HolidayRepository) FindHolidaysByDateRange(ctx context.Context, start, end time.Time) ([]domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + `
FROM holidays
WHERE holiday_date BETWEEN $1 AND $2
ORDER BY holiday_date`
	return r.list(ctx, q, calendar.DateOf(start), calendar.DateOf(end))
}

// FindNonWorkingByDateRange returns only the rows that block a weekday.
func (r *HolidayRepository) FindNonWorkingByDateRange(ctx context.Context, start, end time.Time) ([]domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + `
FROM holidays
WHERE holiday_date BETWEEN $1 AND $2 AND is_working_day = false
ORDER BY holiday_date`
	return r.list(ctx, q, calendar.DateOf(start), calendar.DateOf(end))
}

func (r *HolidayRepository) FindByType(ctx context.Context, holidayType string) ([]domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + ` FROM holidays WHERE holiday_type = $1 ORDER BY holiday_date`
	return r.list(ctx, q, holidayType)
}

func (r *HolidayRepository) FindByCountryCode(ctx context.Context, countryCode string) ([]domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + ` FROM holidays WHERE country_code = $1 ORDER BY holiday_date`
	return r.list(ctx, q, countryCode)
}

// ExistsByHolidayDate reports whether any row exists for date.
func (r *HolidayRepository) ExistsByHolidayDate(ctx context.Context, date time.Time) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM holidays WHERE holiday_date = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, calendar.DateOf(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("holiday exists: %w", err)
	}
	return exists, nil
}

// IsNonWorkingHoliday reports whether a row with is_working_day=false exists for date.
func (r *HolidayRepository) IsNonWorkingHoliday(ctx context.Context, date time.Time) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM holidays WHERE holiday_date = $1 AND is_working_day = false)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, calendar.DateOf(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("non-working holiday lookup: %w", err)
	}
	return exists, nil
}

func (r *HolidayRepository) GetByID(ctx context.Context, id string) (*domain.Holiday, error) {
	q := `SELECT ` + holidayColumns + ` FROM holidays WHERE holiday_id = $1`
	h, err := scanHoliday(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Create inserts h, assigning its id and timestamps.
func (r *HolidayRepository) Create(ctx context.Context, h *domain.Holiday) error {
	const q = `
INSERT INTO holidays (holiday_id, holiday_date, holiday_name, holiday_type, is_working_day, description, country_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, q,
		h.ID,
		calendar.DateOf(h.Date),
		h.Name,
		nullString(h.Type),
		h.WorkingDay,
		nullString(h.Description),
		h.CountryCode,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDateTaken
	}
	return err
}

// Update overwrites every mutable column of the row identified by h.ID.
func (r *HolidayRepository) Update(ctx context.Context, h *domain.Holiday) error {
	const q = `
UPDATE holidays
SET holiday_date = $2, holiday_name = $3, holiday_type = $4, is_working_day = $5,
    description = $6, country_code = $7, updated_at = NOW()
WHERE holiday_id = $1
RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, q,
		h.ID,
		calendar.DateOf(h.Date),
		h.Name,
		nullString(h.Type),
		h.WorkingDay,
		nullString(h.Description),
		h.CountryCode,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrDateTaken
	}
	return err
}

// Delete removes the row and returns it so callers can invalidate caches.
func (r *HolidayRepository) Delete(ctx context.Context, id string) (*domain.Holiday, error) {
	q := `DELETE FROM holidays WHERE holiday_id = $1 RETURNING ` + holidayColumns
	h, err := scanHoliday(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// UpsertByDate inserts h unless a row already exists for its date. It
// reports whether a row was written.
func (r *HolidayRepository) UpsertByDate(ctx context.Context, h *domain.Holiday) (bool, error) {
	const q = `
INSERT INTO holidays (holiday_id, holiday_date, holiday_name, holiday_type, is_working_day, description, country_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (holiday_date) DO NOTHING`

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, q,
		h.ID,
		calendar.DateOf(h.Date),
		h.Name,
		nullString(h.Type),
		h.WorkingDay,
		nullString(h.Description),
		h.CountryCode,
	)
	if err != nil {
		return false, fmt.Errorf("upsert holiday %s: %w", calendar.FormatDate(h.Date), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *HolidayRepository) list(ctx context.Context, q string, args ...any) ([]domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Holiday, 0, 16)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHoliday(row rowScanner) (*domain.Holiday, error) {
	var h domain.Holiday
	var holidayType, description sql.NullString
	err := row.Scan(
		&h.ID,
		&h.Date,
		&h.Name,
		&holidayType,
		&h.WorkingDay,
		&description,
		&h.CountryCode,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Date = calendar.DateOf(h.Date)
	h.Type = holidayType.String
	h.Description = description.String
	return &h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// FindByYear returns the holidays of one calendar year.
func (r *HolidayRepository) FindByYear(ctx context.Context, year int) ([]domain.Holiday, error) {
	return r.FindHolidaysByDateRange(ctx,
		calendar.Date(year, time.January, 1),
		calendar.Date(year, time.December, 31))
}
