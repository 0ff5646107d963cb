// Package tasktest provides in-memory task collaborators for tests.
package tasktest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
)

// MemoryRepo implements the task service repository. Setting Err makes every
// call fail.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   []domain.Task
	nextID int
	Now    func() time.Time
	Err    error
}

func NewMemoryRepo(ts ...domain.Task) *MemoryRepo {
	m := &MemoryRepo{Now: func() time.Time { return time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC) }}
	for _, t := range ts {
		if t.ID == "" {
			t.ID = m.newID()
		}
		m.rows = append(m.rows, t)
	}
	return m
}

func (m *MemoryRepo) newID() string {
	m.nextID++
	return "task-" + strconv.Itoa(m.nextID)
}

func (m *MemoryRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemoryRepo) filter(keep func(domain.Task) bool, byStart bool) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Task, 0, len(m.rows))
	for _, t := range m.rows {
		if keep(t) {
			out = append(out, t)
		}
	}
	if byStart {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].StartDate, out[j].StartDate
			if a == nil || b == nil {
				return a != nil
			}
			return a.Before(*b)
		})
	}
	return out, nil
}

func (m *MemoryRepo) List(context.Context) ([]domain.Task, error) {
	return m.filter(func(domain.Task) bool { return true }, false)
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	ts, err := m.filter(func(t domain.Task) bool { return t.ID == id }, false)
	if err != nil {
		return nil, err
	}
	if len(ts) == 0 {
		return nil, domain.ErrNotFound
	}
	return &ts[0], nil
}

func (m *MemoryRepo) ListEpics(context.Context) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return t.Type == domain.TypeEpic }, true)
}

func (m *MemoryRepo) ListTopLevelByEpic(_ context.Context, epicID string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool {
		return t.EpicID != nil && *t.EpicID == epicID && t.ParentTaskID == nil
	}, true)
}

func (m *MemoryRepo) ListSubtasks(_ context.Context, parentID string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool {
		return t.ParentTaskID != nil && *t.ParentTaskID == parentID && t.Type == domain.TypeSubTask
	}, true)
}

func (m *MemoryRepo) ListByType(_ context.Context, typ string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return strings.EqualFold(t.Type, typ) }, false)
}

func (m *MemoryRepo) ListByStatus(_ context.Context, status string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return strings.EqualFold(t.Status, status) }, false)
}

func (m *MemoryRepo) ListByPriority(_ context.Context, priority string) ([]domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return strings.EqualFold(t.Priority, priority) }, false)
}

func (m *MemoryRepo) CountByEpic(_ context.Context, epicID string) (int, error) {
	ts, err := m.filter(func(t domain.Task) bool { return t.EpicID != nil && *t.EpicID == epicID }, false)
	return len(ts), err
}

func (m *MemoryRepo) Create(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	t.ID = m.newID()
	t.CreatedAt = m.Now()
	t.UpdatedAt = t.CreatedAt
	m.rows = append(m.rows, *t)
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.rows {
		if m.rows[i].ID == t.ID {
			t.CreatedAt = m.rows[i].CreatedAt
			t.UpdatedAt = m.Now()
			m.rows[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Directory is a fixed id-to-name map implementing the user directory.
type Directory struct {
	Names map[string]string
	Err   error
	Calls int
}

func (d *Directory) DisplayNames(_ context.Context, ids []string) (map[string]string, error) {
	d.Calls++
	if d.Err != nil {
		return nil, d.Err
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if n, ok := d.Names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}
