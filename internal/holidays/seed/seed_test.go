package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/holidaytest"
)

func TestFederalHolidays(t *testing.T) {
	t.Run("2024 has eleven weekday holidays", func(t *testing.T) {
		hs, err := FederalHolidays(2024, "USA")
		require.NoError(t, err)
		require.Len(t, hs, 11)

		dates := make([]string, 0, len(hs))
		for _, h := range hs {
			dates = append(dates, calendar.FormatDate(h.Date))
			assert.False(t, h.WorkingDay)
			assert.Equal(t, FederalType, h.Type)
			assert.False(t, calendar.IsWeekend(h.Date), h.Name)
		}
		assert.Equal(t, "2024-01-01", dates[0])
		assert.Contains(t, dates, "2024-05-27")
		assert.Contains(t, dates, "2024-11-28")
		assert.Equal(t, "2024-12-25", dates[len(dates)-1])
	})

	t.Run("weekend holidays use the observed date", func(t *testing.T) {
		hs, err := FederalHolidays(2027, "US")
		require.NoError(t, err)

		var found bool
		for _, h := range hs {
			if calendar.FormatDate(h.Date) == "2027-07-05" {
				found = true
				assert.Contains(t, h.Description, "2027-07-04")
			}
		}
		assert.True(t, found, "independence day 2027 is observed on monday")
	})

	t.Run("holidays before their first year are omitted", func(t *testing.T) {
		hs, err := FederalHolidays(2020, "USA")
		require.NoError(t, err)
		for _, h := range hs {
			assert.NotEqual(t, "2020-06-19", calendar.FormatDate(h.Date))
		}
	})

	t.Run("other countries are rejected", func(t *testing.T) {
		_, err := FederalHolidays(2024, "GBR")
		assert.ErrorIs(t, err, ErrUnsupportedCountry)
	})
}

func TestSeeder_SeedYear(t *testing.T) {
	ctx := context.Background()
	store := holidaytest.NewMemoryStore(
		holidaytest.NonWorking(calendar.Date(2024, time.December, 25), "Company Christmas"),
	)
	seeder := NewSeeder(store)

	res, err := seeder.SeedYear(ctx, 2024, "USA")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	res, err = seeder.SeedYear(ctx, 2024, "USA")
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
	assert.Equal(t, 11, res.Skipped)
	assert.Equal(t, 11, store.Len())
}

func TestSeeder_ImportYAML(t *testing.T) {
	ctx := context.Background()

	t.Run("imports every entry", func(t *testing.T) {
		store := holidaytest.NewMemoryStore()
		doc := `
holidays:
  - date: 2025-12-26
    name: Company shutdown
    type: Company
  - date: "2025-12-29"
    name: Release freeze
    isWorkingDay: true
    countryCode: usa
`
		res, err := NewSeeder(store).ImportYAML(ctx, strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Inserted)

		working, err := store.IsNonWorkingHoliday(ctx, calendar.Date(2025, time.December, 29))
		require.NoError(t, err)
		assert.False(t, working)

		hs, err := store.FindByCountryCode(ctx, "USA")
		require.NoError(t, err)
		assert.Len(t, hs, 2)
	})

	t.Run("a bad date fails the whole import", func(t *testing.T) {
		store := holidaytest.NewMemoryStore()
		doc := `
holidays:
  - date: 2025-12-26
    name: Fine
  - date: 26/12/2025
    name: Broken
`
		_, err := NewSeeder(store).ImportYAML(ctx, strings.NewReader(doc))
		require.Error(t, err)
		assert.ErrorIs(t, err, calendar.ErrInput)
		assert.Contains(t, err.Error(), "entry 2")
		assert.Zero(t, store.Len())
	})

	t.Run("empty input imports nothing", func(t *testing.T) {
		res, err := NewSeeder(holidaytest.NewMemoryStore()).ImportYAML(ctx, strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, res.Inserted)
	})
}

func TestScheduler_RunOnce(t *testing.T) {
	store := holidaytest.NewMemoryStore()
	s := NewScheduler(NewSeeder(store), "USA", nil)
	s.now = func() time.Time { return time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC) }

	require.NoError(t, s.RunOnce(context.Background()))

	hs2024, _ := store.FindByYear(context.Background(), 2024)
	hs2025, _ := store.FindByYear(context.Background(), 2025)
	assert.Len(t, hs2024, 11)
	assert.NotEmpty(t, hs2025)
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(NewSeeder(holidaytest.NewMemoryStore()), "USA", nil)
	assert.Error(t, s.Start("not a cron spec"))
}
