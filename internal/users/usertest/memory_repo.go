// Package usertest provides an in-memory user repository for tests.
package usertest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

type MemoryRepo struct {
	mu     sync.Mutex
	rows   []domain.User
	nextID int
	Err    error
	// Lookups counts DisplayNames calls.
	Lookups int
}

func NewMemoryRepo(us ...domain.User) *MemoryRepo {
	m := &MemoryRepo{}
	for _, u := range us {
		if u.ID == "" {
			m.nextID++
			u.ID = "user-" + strconv.Itoa(m.nextID)
		}
		m.rows = append(m.rows, u)
	}
	return m
}

func (m *MemoryRepo) where(keep func(domain.User) bool) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.User, 0, len(m.rows))
	for _, u := range m.rows {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemoryRepo) one(keep func(domain.User) bool) (*domain.User, error) {
	us, err := m.where(keep)
	if err != nil {
		return nil, err
	}
	if len(us) == 0 {
		return nil, domain.ErrNotFound
	}
	return &us[0], nil
}

func (m *MemoryRepo) List(context.Context) ([]domain.User, error) {
	return m.where(func(domain.User) bool { return true })
}

func (m *MemoryRepo) ListActive(context.Context) ([]domain.User, error) {
	return m.where(func(u domain.User) bool { return u.IsActive })
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.one(func(u domain.User) bool { return u.ID == id })
}

func (m *MemoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.one(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *MemoryRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.one(func(u domain.User) bool { return u.Username == username })
}

func (m *MemoryRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	us, err := m.where(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
	return len(us) > 0, err
}

func (m *MemoryRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	us, err := m.where(func(u domain.User) bool { return u.Username == username })
	return len(us) > 0, err
}

func (m *MemoryRepo) DisplayNames(_ context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	m.Lookups++
	m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	us, err := m.where(func(u domain.User) bool { return want[u.ID] })
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(us))
	for _, u := range us {
		out[u.ID] = u.DisplayName()
	}
	return out, nil
}

func (m *MemoryRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, r := range m.rows {
		if strings.EqualFold(r.Email, u.Email) {
			return domain.ErrEmailTaken
		}
		if r.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	m.nextID++
	u.ID = "user-" + strconv.Itoa(m.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.rows = append(m.rows, *u)
	return nil
}

func (m *MemoryRepo) UpdateLastLogin(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.rows {
		if strings.EqualFold(m.rows[i].Email, email) {
			now := time.Now()
			m.rows[i].LastLogin = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MemoryRepo) LinkFirebaseUID(_ context.Context, email, firebaseUID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if strings.EqualFold(m.rows[i].Email, email) {
			uid := firebaseUID
			m.rows[i].FirebaseUID = &uid
			return nil
		}
	}
	return domain.ErrNotFound
}
