package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

const (
	yearKeyPrefix   = "holidays:year:" // holidays:year:{yyyy} -> JSON list
	DefaultCacheTTL = time.Hour
)

// Store is the persistence surface the holiday service depends on.
type Store interface {
	FindAll(ctx context.Context) ([]domain.Holiday, error)
	FindByYear(ctx context.Context, year int) ([]domain.Holiday, error)
	FindHolidaysByDateRange(ctx context.Context, start, end time.Time) ([]domain.Holiday, error)
	FindNonWorkingByDateRange(ctx context.Context, start, end time.Time) ([]domain.Holiday, error)
	FindByType(ctx context.Context, holidayType string) ([]domain.Holiday, error)
	FindByCountryCode(ctx context.Context, countryCode string) ([]domain.Holiday, error)
	ExistsByHolidayDate(ctx context.Context, date time.Time) (bool, error)
	IsNonWorkingHoliday(ctx context.Context, date time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Holiday, error)
	Create(ctx context.Context, h *domain.Holiday) error
	Update(ctx context.Context, h *domain.Holiday) error
	Delete(ctx context.Context, id string) (*domain.Holiday, error)
	UpsertByDate(ctx context.Context, h *domain.Holiday) (bool, error)
}

// CachedStore keeps each calendar year's holiday list in Redis. Reads that
// are not year-shaped pass straight through to the wrapped store. Redis
// failures are logged and fall back to the database.
type CachedStore struct {
	Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{Store: inner, client: client, ttl: ttl}
}

type cachedHoliday struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	WorkingDay  bool      `json:"workingDay"`
	Description string    `json:"description,omitempty"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *CachedStore) FindByYear(ctx context.Context, year int) ([]domain.Holiday, error) {
	key := yearKey(year)

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		hs, decErr := decodeYear(data)
		if decErr == nil {
			return hs, nil
		}
		logging.FromContext(ctx).Warn("holiday cache entry unreadable", zap.String("key", key), zap.Error(decErr))
	case !errors.Is(err, redis.Nil):
		logging.FromContext(ctx).Warn("holiday cache read failed", zap.String("key", key), zap.Error(err))
	}

	hs, err := s.Store.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	if payload, encErr := encodeYear(hs); encErr == nil {
		if setErr := s.client.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			logging.FromContext(ctx).Warn("holiday cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return hs, nil
}

// IsNonWorkingHoliday answers from the cached year list.
func (s *CachedStore) IsNonWorkingHoliday(ctx context.Context, date time.Time) (bool, error) {
	date = calendar.DateOf(date)
	hs, err := s.FindByYear(ctx, date.Year())
	if err != nil {
		return false, err
	}
	return calendar.NewSnapshot(domain.Overrides(hs)...).IsNonWorkingHoliday(ctx, date)
}

func (s *CachedStore) Create(ctx context.Context, h *domain.Holiday) error {
	if err := s.Store.Create(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx, h.Date.Year())
	return nil
}

func (s *CachedStore) Update(ctx context.Context, h *domain.Holiday) error {
	years := []int{h.Date.Year()}
	if prev, err := s.Store.GetByID(ctx, h.ID); err == nil && prev.Date.Year() != h.Date.Year() {
		years = append(years, prev.Date.Year())
	}
	if err := s.Store.Update(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx, years...)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) (*domain.Holiday, error) {
	h, err := s.Store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, h.Date.Year())
	return h, nil
}

func (s *CachedStore) UpsertByDate(ctx context.Context, h *domain.Holiday) (bool, error) {
	written, err := s.Store.UpsertByDate(ctx, h)
	if err != nil {
		return false, err
	}
	if written {
		s.invalidate(ctx, h.Date.Year())
	}
	return written, nil
}

func (s *CachedStore) invalidate(ctx context.Context, years ...int) {
	keys := make([]string, 0, len(years))
	for _, y := range years {
		keys = append(keys, yearKey(y))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logging.FromContext(ctx).Warn("holiday cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func yearKey(year int) string {
	return fmt.Sprintf("%s%04d", yearKeyPrefix, year)
}

func encodeYear(hs []domain.Holiday) ([]byte, error) {
	out := make([]cachedHoliday, 0, len(hs))
	for _, h := range hs {
		out = append(out, cachedHoliday{
			ID:          h.ID,
			Date:        calendar.FormatDate(h.Date),
			Name:        h.Name,
			Type:        h.Type,
			WorkingDay:  h.WorkingDay,
			Description: h.Description,
			CountryCode: h.CountryCode,
			CreatedAt:   h.CreatedAt,
			UpdatedAt:   h.UpdatedAt,
		})
	}
	return json.Marshal(out)
}

func decodeYear(data []byte) ([]domain.Holiday, error) {
	var in []cachedHoliday
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]domain.Holiday, 0, len(in))
	for _, c := range in {
		date, err := calendar.ParseDate(c.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Holiday{
			ID:          c.ID,
			Date:        date,
			Name:        c.Name,
			Type:        c.Type,
			WorkingDay:  c.WorkingDay,
			Description: c.Description,
			CountryCode: c.CountryCode,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out, nil
}
