package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateParam encodes an optional civil date for a pgx query.
func DateParam(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// DateValue decodes a scanned date column as a UTC midnight, nil when null.
func DateValue(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

// IntervalParam encodes an optional duration as an interval.
func IntervalParam(d *time.Duration) pgtype.Interval {
	if d == nil {
		return pgtype.Interval{}
	}
	return pgtype.Interval{Microseconds: d.Microseconds(), Valid: true}
}

// IntervalValue flattens an interval using 24-hour days and 30-day months.
func IntervalValue(iv pgtype.Interval) *time.Duration {
	if !iv.Valid {
		return nil
	}
	d := time.Duration(iv.Microseconds)*time.Microsecond +
		time.Duration(iv.Days)*24*time.Hour +
		time.Duration(iv.Months)*30*24*time.Hour
	return &d
}

// TextArray returns s, or an empty slice so that text[] columns never hold null.
func TextArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
