package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/repository"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

// HolidayService owns holiday rows and hands out working-day calendars over them.
type HolidayService struct {
	store   repository.Store
	calOpts []calendar.Option
}

// NewHolidayService builds calendars with maxGapDays plus any extra options.
func NewHolidayService(store repository.Store, maxGapDays int, opts ...calendar.Option) *HolidayService {
	calOpts := append([]calendar.Option{calendar.WithMaxGapDays(maxGapDays)}, opts...)
	return &HolidayService{store: store, calOpts: calOpts}
}

// Calendar returns a calendar over a fresh per-call snapshot. Callers should
// use one calendar per request.
func (s *HolidayService) Calendar() *calendar.Calendar {
	return calendar.New(newYearLookup(s.store), s.calOpts...)
}

// ListFilter narrows List. Empty fields match everything; Type wins over Country.
type ListFilter struct {
	Type    string
	Country string
}

func (s *HolidayService) List(ctx context.Context, f ListFilter) ([]domain.Holiday, error) {
	switch {
	case strings.TrimSpace(f.Type) != "":
		return s.store.FindByType(ctx, strings.TrimSpace(f.Type))
	case strings.TrimSpace(f.Country) != "":
		return s.store.FindByCountryCode(ctx, strings.ToUpper(strings.TrimSpace(f.Country)))
	default:
		return s.store.FindAll(ctx)
	}
}

func (s *HolidayService) Range(ctx context.Context, start, end time.Time) ([]domain.Holiday, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.FindHolidaysByDateRange(ctx, start, end)
}

func (s *HolidayService) NonWorking(ctx context.Context, start, end time.Time) ([]domain.Holiday, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.FindNonWorkingByDateRange(ctx, start, end)
}

// IsHoliday reports whether any holiday row exists for date.
func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	ok, err := s.store.ExistsByHolidayDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("%w: %w", calendar.ErrDataUnavailable, err)
	}
	return ok, nil
}

func (s *HolidayService) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	return s.Calendar().IsWorkingDay(ctx, date)
}

func (s *HolidayService) NextWorkingDay(ctx context.Context, date time.Time) (time.Time, error) {
	return s.Calendar().NextWorkingDay(ctx, date)
}

func (s *HolidayService) WorkingDaysBetween(ctx context.Context, start, end time.Time) (int, error) {
	return s.Calendar().WorkingDaysBetween(ctx, start, end)
}

func (s *HolidayService) Get(ctx context.Context, id string) (*domain.Holiday, error) {
	return s.store.GetByID(ctx, id)
}

func (s *HolidayService) Create(ctx context.Context, h *domain.Holiday) error {
	h.ID = ""
	h.Normalize()
	if err := h.Validate(); err != nil {
		return err
	}
	if err := s.store.Create(ctx, h); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("holiday created",
		zap.String("holiday_id", h.ID),
		zap.String("date", calendar.FormatDate(h.Date)),
		zap.Bool("working_day", h.WorkingDay))
	return nil
}

func (s *HolidayService) Update(ctx context.Context, h *domain.Holiday) error {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, h); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("holiday updated",
		zap.String("holiday_id", h.ID),
		zap.String("date", calendar.FormatDate(h.Date)))
	return nil
}

func (s *HolidayService) Delete(ctx context.Context, id string) error {
	h, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("holiday deleted",
		zap.String("holiday_id", id),
		zap.String("date", calendar.FormatDate(h.Date)))
	return nil
}

func checkRange(start, end time.Time) error {
	if calendar.DateOf(start).After(calendar.DateOf(end)) {
		return fmt.Errorf("%w: start must not be after end", calendar.ErrInput)
	}
	return nil
}
