// Package projecttest provides an in-memory project repository for tests.
package projecttest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ganttplan/ganttplan-backend/internal/projects/domain"
)

type MemoryRepo struct {
	mu     sync.Mutex
	rows   []domain.Project
	nextID int
	Err    error
}

func NewMemoryRepo(ps ...domain.Project) *MemoryRepo {
	m := &MemoryRepo{}
	for _, p := range ps {
		if p.ID == "" {
			p.ID = m.newID()
		}
		m.rows = append(m.rows, p)
	}
	return m
}

func (m *MemoryRepo) newID() string {
	m.nextID++
	return "proj-" + strconv.Itoa(m.nextID)
}

func (m *MemoryRepo) where(keep func(domain.Project) bool) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Project, 0, len(m.rows))
	for _, p := range m.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepo) List(context.Context) ([]domain.Project, error) {
	return m.where(func(domain.Project) bool { return true })
}

func (m *MemoryRepo) ListActive(context.Context) ([]domain.Project, error) {
	return m.where(domain.Project.Active)
}

func (m *MemoryRepo) ListByStatus(_ context.Context, status string) ([]domain.Project, error) {
	return m.where(func(p domain.Project) bool { return strings.EqualFold(p.Status, status) })
}

func (m *MemoryRepo) ListByClient(_ context.Context, client string) ([]domain.Project, error) {
	return m.where(func(p domain.Project) bool { return strings.EqualFold(p.ClientName, client) })
}

func (m *MemoryRepo) ListByType(_ context.Context, projectType string) ([]domain.Project, error) {
	return m.where(func(p domain.Project) bool { return strings.EqualFold(p.ProjectType, projectType) })
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	ps, err := m.where(func(p domain.Project) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, domain.ErrNotFound
	}
	return &ps[0], nil
}

func (m *MemoryRepo) Create(_ context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	code, err := domain.NewCode(domain.CodePrefix)
	if err != nil {
		return err
	}
	p.ID = m.newID()
	p.Code = code
	m.rows = append(m.rows, *p)
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == p.ID {
			p.Code = m.rows[i].Code
			m.rows[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MemoryRepo) SoftDelete(_ context.Context, id string) error {
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
