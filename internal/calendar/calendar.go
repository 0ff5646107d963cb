// Package calendar answers working-day questions over a weekend rule and a
// set of holiday overrides.
//
// A date is a working day iff it falls Monday to Friday and either no holiday
// row exists for it or the row is flagged as a working day. All dates are
// handled as civil dates; the time of day and location of inputs are ignored.
package calendar

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultMaxGapDays bounds a run of consecutive non-working days.
	DefaultMaxGapDays = 1000
	// DefaultMaxSpanDays bounds the range accepted by WorkingDaysBetween.
	DefaultMaxSpanDays = 36600
	// DefaultMaxEstimateDays bounds the estimate accepted by CalculateEndDate.
	DefaultMaxEstimateDays = 10000
	// maxYear is the last year a date can be rendered as YYYY-MM-DD.
	maxYear = 9999
)

// HolidayLookup reports whether a date is listed as a non-working holiday.
type HolidayLookup interface {
	IsNonWorkingHoliday(ctx context.Context, date time.Time) (bool, error)
}

// Calendar is stateless apart from its configuration and is safe for
// concurrent use as long as the lookup is.
type Calendar struct {
	holidays        HolidayLookup
	maxGapDays      int
	maxSpanDays     int
	maxEstimateDays int
}

type Option func(*Calendar)

func WithMaxGapDays(n int) Option {
	return func(c *Calendar) {
		if n > 0 {
			c.maxGapDays = n
		}
	}
}

func WithMaxSpanDays(n int) Option {
	return func(c *Calendar) {
		if n > 0 {
			c.maxSpanDays = n
		}
	}
}

func WithMaxEstimateDays(n int) Option {
	return func(c *Calendar) {
		if n > 0 {
			c.maxEstimateDays = n
		}
	}
}

// New returns a Calendar backed by holidays. A nil lookup means no holidays.
func New(holidays HolidayLookup, opts ...Option) *Calendar {
	if holidays == nil {
		holidays = NewSnapshot()
	}
	c := &Calendar{
		holidays:        holidays,
		maxGapDays:      DefaultMaxGapDays,
		maxSpanDays:     DefaultMaxSpanDays,
		maxEstimateDays: DefaultMaxEstimateDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay reports whether date is a working day. The only failure is a
// holiday lookup error, returned wrapped in ErrDataUnavailable.
func (c *Calendar) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	date = DateOf(date)
	if IsWeekend(date) {
		return false, nil
	}
	nonWorking, err := c.holidays.IsNonWorkingHoliday(ctx, date)
	if err != nil {
		return false, fmt.Errorf("%w: lookup %s: %w", ErrDataUnavailable, FormatDate(date), err)
	}
	return !nonWorking, nil
}

// NextWorkingDay returns the earliest working day strictly after date.
func (c *Calendar) NextWorkingDay(ctx context.Context, date time.Time) (time.Time, error) {
	next := DateOf(date)
	for gap := 0; ; gap++ {
		if gap >= c.maxGapDays {
			return time.Time{}, fmt.Errorf("%w: no working day within %d days after %s",
				ErrWalkLimit, c.maxGapDays, FormatDate(date))
		}
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		next = next.AddDate(0, 0, 1)
		if next.Year() > maxYear {
			return time.Time{}, fmt.Errorf("%w: no working day before year %d", ErrInput, maxYear+1)
		}
		ok, err := c.IsWorkingDay(ctx, next)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return next, nil
		}
	}
}

// CalculateEndDate returns the date on which an estimate of estimateDays
// working days is consumed when work begins on start. The (possibly advanced)
// start date counts as the first working day, so a one-day estimate starting
// on a working day ends the same day. Non-positive estimates return start;
// estimates above the configured maximum are an input error.
func (c *Calendar) CalculateEndDate(ctx context.Context, start time.Time, estimateDays int) (time.Time, error) {
	start = DateOf(start)
	if estimateDays <= 0 {
		return start, nil
	}
	if estimateDays > c.maxEstimateDays {
		return time.Time{}, fmt.Errorf("%w: estimate of %d days exceeds %d", ErrInput, estimateDays, c.maxEstimateDays)
	}

	current := start
	ok, err := c.IsWorkingDay(ctx, current)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		if current, err = c.NextWorkingDay(ctx, current); err != nil {
			return time.Time{}, err
		}
	}

	consumed, gap := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		if current.Year() > maxYear {
			return time.Time{}, fmt.Errorf("%w: end date falls after year %d", ErrInput, maxYear)
		}
		ok, err := c.IsWorkingDay(ctx, current)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			consumed++
			gap = 0
			if consumed == estimateDays {
				return current, nil
			}
		} else {
			gap++
			if gap >= c.maxGapDays {
				return time.Time{}, fmt.Errorf("%w: %d consecutive non-working days from %s",
					ErrWalkLimit, gap, FormatDate(current.AddDate(0, 0, 1-gap)))
			}
		}
		current = current.AddDate(0, 0, 1)
	}
}

// WorkingDaysBetween counts working days in the inclusive range [start, end].
// It returns 0 when start is after end.
func (c *Calendar) WorkingDaysBetween(ctx context.Context, start, end time.Time) (int, error) {
	start, end = DateOf(start), DateOf(end)
	if start.After(end) {
		return 0, nil
	}
	if span := DaysBetween(start, end); span > c.maxSpanDays {
		return 0, fmt.Errorf("%w: range of %d days exceeds %d", ErrInput, span, c.maxSpanDays)
	}

	count := 0
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		ok, err := c.IsWorkingDay(ctx, current)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// ValidateEndDate reports whether candidate is on or after the earliest
// feasible completion date for the estimate.
func (c *Calendar) ValidateEndDate(ctx context.Context, start time.Time, estimateDays int, candidate time.Time) (bool, error) {
	earliest, err := c.CalculateEndDate(ctx, start, estimateDays)
	if err != nil {
		return false, err
	}
	return MeetsEarliest(candidate, earliest), nil
}

// MeetsEarliest reports whether candidate falls on or after earliest.
func MeetsEarliest(candidate, earliest time.Time) bool {
	return !DateOf(candidate).Before(DateOf(earliest))
}
