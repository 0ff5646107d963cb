// Package holidaytest provides an in-memory holiday store for tests.
package holidaytest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/repository"
)

var _ repository.Store = (*MemoryStore)(nil)

// MemoryStore implements repository.Store. Setting Err makes every read fail.
type MemoryStore struct {
	mu        sync.Mutex
	rows      []domain.Holiday
	nextID    int
	YearLoads map[int]int
	LastQuery string
	Err       error
}

func NewMemoryStore(hs ...domain.Holiday) *MemoryStore {
	m := &MemoryStore{YearLoads: map[int]int{}}
	for _, h := range hs {
		h.Date = calendar.DateOf(h.Date)
		if h.ID == "" {
			h.ID = m.newID()
		}
		m.rows = append(m.rows, h)
	}
	return m
}

// NonWorking is shorthand for a non-working holiday on date.
func NonWorking(date time.Time, name string) domain.Holiday {
	return domain.Holiday{Date: date, Name: name, CountryCode: domain.DefaultCountryCode}
}

func (m *MemoryStore) newID() string {
	m.nextID++
	return "hol-" + strconv.Itoa(m.nextID)
}

func (m *MemoryStore) filter(keep func(domain.Holiday) bool) ([]domain.Holiday, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Holiday, 0, len(m.rows))
	for _, h := range m.rows {
		if keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func within(h domain.Holiday, start, end time.Time) bool {
	return !h.Date.Before(calendar.DateOf(start)) && !h.Date.After(calendar.DateOf(end))
}

func (m *MemoryStore) FindAll(context.Context) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuery = "all"
	return m.filter(func(domain.Holiday) bool { return true })
}

func (m *MemoryStore) FindByYear(_ context.Context, year int) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.YearLoads[year]++
	return m.filter(func(h domain.Holiday) bool { return h.Date.Year() == year })
}

func (m *MemoryStore) FindHolidaysByDateRange(_ context.Context, start, end time.Time) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(h domain.Holiday) bool { return within(h, start, end) })
}

func (m *MemoryStore) FindNonWorkingByDateRange(_ context.Context, start, end time.Time) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(h domain.Holiday) bool { return !h.WorkingDay && within(h, start, end) })
}

func (m *MemoryStore) FindByType(_ context.Context, holidayType string) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuery = "type:" + holidayType
	return m.filter(func(h domain.Holiday) bool { return h.Type == holidayType })
}

func (m *MemoryStore) FindByCountryCode(_ context.Context, countryCode string) ([]domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuery = "country:" + countryCode
	return m.filter(func(h domain.Holiday) bool { return h.CountryCode == countryCode })
}

func (m *MemoryStore) ExistsByHolidayDate(_ context.Context, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hs, err := m.filter(func(h domain.Holiday) bool { return h.Date.Equal(calendar.DateOf(date)) })
	return len(hs) > 0, err
}

func (m *MemoryStore) IsNonWorkingHoliday(_ context.Context, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hs, err := m.filter(func(h domain.Holiday) bool {
		return !h.WorkingDay && h.Date.Equal(calendar.DateOf(date))
	})
	return len(hs) > 0, err
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.rows {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryStore) dateTaken(date time.Time, exceptID string) bool {
	for _, h := range m.rows {
		if h.Date.Equal(date) && h.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryStore) Create(_ context.Context, h *domain.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.Date = calendar.DateOf(h.Date)
	if m.dateTaken(h.Date, "") {
		return domain.ErrDateTaken
	}
	if h.ID == "" {
		h.ID = m.newID()
	}
	h.CreatedAt = time.Now().UTC()
	h.UpdatedAt = h.CreatedAt
	m.rows = append(m.rows, *h)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, h *domain.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.Date = calendar.DateOf(h.Date)
	for i := range m.rows {
		if m.rows[i].ID != h.ID {
			continue
		}
		if m.dateTaken(h.Date, h.ID) {
			return domain.ErrDateTaken
		}
		h.CreatedAt = m.rows[i].CreatedAt
		h.UpdatedAt = time.Now().UTC()
		m.rows[i] = *h
		return nil
	}
	return domain.ErrNotFound
}

func (m *MemoryStore) Delete(_ context.Context, id string) (*domain.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.rows {
		if h.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return &h, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryStore) UpsertByDate(_ context.Context, h *domain.Holiday) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.Date = calendar.DateOf(h.Date)
	if m.dateTaken(h.Date, "") {
		return false, nil
	}
	if h.ID == "" {
		h.ID = m.newID()
	}
	m.rows = append(m.rows, *h)
	return true, nil
}

// Len returns the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
