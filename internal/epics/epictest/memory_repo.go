// Package epictest provides an in-memory epic repository for tests.
package epictest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ganttplan/ganttplan-backend/internal/epics/domain"
)

type MemoryRepo struct {
	mu     sync.Mutex
	rows   []domain.Epic
	nextID int
	Err    error
}

func NewMemoryRepo(es ...domain.Epic) *MemoryRepo {
	m := &MemoryRepo{}
	for _, e := range es {
		if e.ID == "" {
			m.nextID++
			e.ID = "epic-" + strconv.Itoa(m.nextID)
		}
		m.rows = append(m.rows, e)
	}
	return m
}

func (m *MemoryRepo) where(keep func(domain.Epic) bool) ([]domain.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Epic, 0, len(m.rows))
	for _, e := range m.rows {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StartDate, out[j].StartDate
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})
	return out, nil
}

func eq(p *string, v string) bool { return p != nil && *p == v }

func (m *MemoryRepo) List(context.Context) ([]domain.Epic, error) {
	return m.where(func(domain.Epic) bool { return true })
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Epic, error) {
	es, err := m.where(func(e domain.Epic) bool { return e.ID == id })
	if err != nil {
		return nil, err
	}
	if len(es) == 0 {
		return nil, domain.ErrNotFound
	}
	return &es[0], nil
}

func (m *MemoryRepo) ListByProject(_ context.Context, projectID string) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return eq(e.ProjectID, projectID) })
}

func (m *MemoryRepo) ListTopLevel(context.Context) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return e.ParentEpicID == nil })
}

func (m *MemoryRepo) ListChildren(_ context.Context, parentID string) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return eq(e.ParentEpicID, parentID) })
}

func (m *MemoryRepo) ListByStatus(_ context.Context, status string) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return strings.EqualFold(e.Status, status) })
}

func (m *MemoryRepo) ListByPriority(_ context.Context, priority string) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return strings.EqualFold(e.Priority, priority) })
}

func (m *MemoryRepo) ListByAssignee(_ context.Context, userID string) ([]domain.Epic, error) {
	return m.where(func(e domain.Epic) bool { return eq(e.AssignedTo, userID) })
}

func (m *MemoryRepo) Create(_ context.Context, e *domain.Epic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	e.ID = "epic-" + strconv.Itoa(m.nextID)
	m.rows = append(m.rows, *e)
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, e *domain.Epic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == e.ID {
			m.rows[i] = *e
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
