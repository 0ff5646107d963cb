package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

const userColumns = `
user_id, username, email, COALESCE(password_hash, ''), first_name, last_name, role, department,
phone_number, timezone, date_of_joining, salary, is_active, last_login, firebase_uid, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	return r.query(ctx, query)
}

func (r *UserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY username`
	return r.query(ctx, query)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.get(ctx, query, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.get(ctx, query, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.get(ctx, query, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// DisplayNames maps each known id to the user's display name. Ids that are
// not valid UUIDs are skipped.
func (r *UserRepository) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	out := make(map[string]string, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	query := `SELECT user_id, username, first_name, last_name FROM users WHERE user_id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(valid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.User
		var first, last sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &first, &last); err != nil {
			return nil, err
		}
		u.FirstName, u.LastName = first.String, last.String
		out[u.ID] = u.DisplayName()
	}
	return out, rows.Err()
}

// Create inserts a user with a fresh id.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.ID = uuid.NewString()
	query := `
		INSERT INTO users (user_id, username, email, password_hash, first_name, last_name, role,
		                   department, phone_number, timezone, date_of_joining, salary, is_active, firebase_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Username, u.Email, nullString(u.PasswordHash), nullString(u.FirstName), nullString(u.LastName),
		u.Role, nullString(u.Department), nullString(u.PhoneNumber), nullString(u.Timezone),
		u.DateOfJoining, u.Salary, u.IsActive, u.FirebaseUID,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// UpdateLastLogin stamps the login time for the user with the given email.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, email string) error {
	query := `
		UPDATE users
		SET last_login = NOW(), updated_at = NOW()
		WHERE LOWER(email) = LOWER($1)
	`
	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkFirebaseUID records the Firebase UID of an existing user.
func (r *UserRepository) LinkFirebaseUID(ctx context.Context, email, firebaseUID string) error {
	query := `
		UPDATE users
		SET firebase_uid = $2, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1) AND (firebase_uid IS NULL OR firebase_uid <> $2)
	`
	_, err := r.db.ExecContext(ctx, query, email, firebaseUID)
	return mapUniqueViolation(err)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		u                                     domain.User
		first, last, dept, phone, tz, fireUID sql.NullString
		joined, lastLogin                     sql.NullTime
		salary                                sql.NullFloat64
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &first, &last, &u.Role, &dept,
		&phone, &tz, &joined, &salary, &u.IsActive, &lastLogin, &fireUID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.FirstName, u.LastName = first.String, last.String
	u.Department, u.PhoneNumber, u.Timezone = dept.String, phone.String, tz.String
	if joined.Valid {
		u.DateOfJoining = &joined.Time
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	if salary.Valid {
		u.Salary = &salary.Float64
	}
	if fireUID.Valid {
		u.FirebaseUID = &fireUID.String
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pqErr.Constraint, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(pqErr.Constraint, "username"):
		return domain.ErrUsernameTaken
	}
	return err
}
