package calendar

import (
	"context"
	"time"
)

// Override is one holiday row as the engine sees it.
type Override struct {
	Date       time.Time
	WorkingDay bool
}

// Snapshot is an immutable in-memory HolidayLookup. A later override for the
// same date replaces an earlier one.
type Snapshot struct {
	byDate map[time.Time]bool
}

func NewSnapshot(overrides ...Override) *Snapshot {
	s := &Snapshot{byDate: make(map[time.Time]bool, len(overrides))}
	for _, o := range overrides {
		s.byDate[DateOf(o.Date)] = o.WorkingDay
	}
	return s
}

func (s *Snapshot) IsNonWorkingHoliday(_ context.Context, date time.Time) (bool, error) {
	working, ok := s.byDate[DateOf(date)]
	return ok && !working, nil
}
