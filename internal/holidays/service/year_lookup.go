package service

import (
	"context"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
)

type yearLoader interface {
	FindByYear(ctx context.Context, year int) ([]domain.Holiday, error)
}

// yearLookup loads each calendar year at most once and answers from memory.
// It belongs to a single request and is not safe for concurrent use.
type yearLookup struct {
	loader yearLoader
	years  map[int]*calendar.Snapshot
}

func newYearLookup(loader yearLoader) *yearLookup {
	return &yearLookup{loader: loader, years: make(map[int]*calendar.Snapshot, 2)}
}

func (l *yearLookup) IsNonWorkingHoliday(ctx context.Context, date time.Time) (bool, error) {
	year := date.Year()
	snap, ok := l.years[year]
	if !ok {
		hs, err := l.loader.FindByYear(ctx, year)
		if err != nil {
			return false, err
		}
		snap = calendar.NewSnapshot(domain.Overrides(hs)...)
		l.years[year] = snap
	}
	return snap.IsNonWorkingHoliday(ctx, date)
}
