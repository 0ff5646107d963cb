package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/holidaytest"
)

func TestHolidayService_Calendar(t *testing.T) {
	ctx := context.Background()
	store := holidaytest.NewMemoryStore(
		domain.Holiday{ID: "1", Date: calendar.Date(2024, time.December, 25), Name: "Christmas Day"},
		domain.Holiday{ID: "2", Date: calendar.Date(2025, time.January, 1), Name: "New Year's Day"},
	)
	svc := NewHolidayService(store, calendar.DefaultMaxGapDays)

	t.Run("walk across a year boundary loads each year once", func(t *testing.T) {
		cal := svc.Calendar()
		// Christmas falls inside the first walk, New Year's Day inside the second.
		end, err := cal.CalculateEndDate(ctx, calendar.Date(2024, time.December, 23), 5)
		require.NoError(t, err)
		assert.Equal(t, calendar.Date(2024, time.December, 30), end)

		end, err = cal.CalculateEndDate(ctx, calendar.Date(2024, time.December, 30), 3)
		require.NoError(t, err)
		assert.Equal(t, calendar.Date(2025, time.January, 2), end)

		assert.Equal(t, 1, store.YearLoads[2024])
		assert.Equal(t, 1, store.YearLoads[2025])
	})

	t.Run("each calendar gets its own snapshot", func(t *testing.T) {
		before := store.YearLoads[2024]
		_, err := svc.IsWorkingDay(ctx, calendar.Date(2024, time.December, 25))
		require.NoError(t, err)
		assert.Equal(t, before+1, store.YearLoads[2024])
	})

	t.Run("store failure surfaces as data unavailable", func(t *testing.T) {
		failing := holidaytest.NewMemoryStore()
		failing.Err = errors.New("db down")
		_, err := NewHolidayService(failing, 10).IsWorkingDay(ctx, calendar.Date(2024, time.June, 3))
		assert.ErrorIs(t, err, calendar.ErrDataUnavailable)
	})

	t.Run("estimate ceiling stops runaway walks", func(t *testing.T) {
		limited := NewHolidayService(store, calendar.DefaultMaxGapDays, calendar.WithMaxEstimateDays(20))
		before := len(store.YearLoads)
		_, err := limited.Calendar().CalculateEndDate(ctx, calendar.Date(2024, time.January, 1), 20_000_000)
		assert.ErrorIs(t, err, calendar.ErrInput)
		assert.Len(t, store.YearLoads, before)
	})

	t.Run("cancelled context ends the walk", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Calendar().CalculateEndDate(cctx, calendar.Date(2024, time.January, 1), 5000)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestHolidayService_Queries(t *testing.T) {
	ctx := context.Background()
	store := holidaytest.NewMemoryStore(
		domain.Holiday{ID: "1", Date: calendar.Date(2024, time.July, 4), Name: "Independence Day", Type: "Federal", CountryCode: "USA"},
		domain.Holiday{ID: "2", Date: calendar.Date(2024, time.July, 5), Name: "Bridge", Type: "Company", WorkingDay: true, CountryCode: "USA"},
	)
	svc := NewHolidayService(store, calendar.DefaultMaxGapDays)

	t.Run("type filter wins over country", func(t *testing.T) {
		hs, err := svc.List(ctx, ListFilter{Type: "Company", Country: "usa"})
		require.NoError(t, err)
		assert.Len(t, hs, 1)
		assert.Equal(t, "type:Company", store.LastQuery)
	})

	t.Run("country filter is upper-cased", func(t *testing.T) {
		_, err := svc.List(ctx, ListFilter{Country: "usa"})
		require.NoError(t, err)
		assert.Equal(t, "country:USA", store.LastQuery)
	})

	t.Run("reversed range is rejected", func(t *testing.T) {
		_, err := svc.Range(ctx, calendar.Date(2024, time.August, 1), calendar.Date(2024, time.July, 1))
		assert.ErrorIs(t, err, calendar.ErrInput)
	})

	t.Run("non-working range skips working overrides", func(t *testing.T) {
		hs, err := svc.NonWorking(ctx, calendar.Date(2024, time.July, 1), calendar.Date(2024, time.July, 31))
		require.NoError(t, err)
		require.Len(t, hs, 1)
		assert.Equal(t, "Independence Day", hs[0].Name)
	})

	t.Run("working override still counts as a holiday", func(t *testing.T) {
		ok, err := svc.IsHoliday(ctx, calendar.Date(2024, time.July, 5))
		require.NoError(t, err)
		assert.True(t, ok)

		working, err := svc.IsWorkingDay(ctx, calendar.Date(2024, time.July, 5))
		require.NoError(t, err)
		assert.True(t, working)
	})

	t.Run("working days in july 2024", func(t *testing.T) {
		n, err := svc.WorkingDaysBetween(ctx, calendar.Date(2024, time.July, 1), calendar.Date(2024, time.July, 31))
		require.NoError(t, err)
		assert.Equal(t, 22, n)
	})
}

func TestHolidayService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises and defaults the country", func(t *testing.T) {
		store := holidaytest.NewMemoryStore()
		svc := NewHolidayService(store, 10)
		h := &domain.Holiday{Date: calendar.Date(2024, time.May, 27).Add(9 * time.Hour), Name: "  Memorial Day "}

		require.NoError(t, svc.Create(ctx, h))
		assert.NotEmpty(t, h.ID)
		assert.Equal(t, "Memorial Day", h.Name)
		assert.Equal(t, domain.DefaultCountryCode, h.CountryCode)
		assert.Equal(t, calendar.Date(2024, time.May, 27), h.Date)
	})

	t.Run("missing name is invalid", func(t *testing.T) {
		svc := NewHolidayService(holidaytest.NewMemoryStore(), 10)
		err := svc.Create(ctx, &domain.Holiday{Date: calendar.Date(2024, time.May, 27)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("delete of unknown id is not found", func(t *testing.T) {
		svc := NewHolidayService(holidaytest.NewMemoryStore(), 10)
		assert.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}
