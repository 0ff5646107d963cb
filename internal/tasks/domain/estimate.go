package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
)

// HoursPerDay is the length of one working day of estimate.
const HoursPerDay = 8

// MaxEstimateDays is the largest estimate ParseDays accepts, the engine's
// default ceiling.
const MaxEstimateDays = calendar.DefaultMaxEstimateDays

// maxDurationDays is the largest day count a time.Duration can hold.
const maxDurationDays = float64(math.MaxInt64/int64(time.Hour)) / HoursPerDay

var ErrInvalidEstimate = errors.New("invalid estimate")

// DaysToDuration converts working days to a duration of whole hours.
// Fractions of an hour are dropped; non-positive input yields zero and input
// beyond the range of time.Duration saturates.
func DaysToDuration(days float64) time.Duration {
	if days <= 0 || math.IsNaN(days) {
		return 0
	}
	if days >= maxDurationDays {
		return time.Duration(math.MaxInt64/int64(time.Hour)) * time.Hour
	}
	return time.Duration(int64(days*HoursPerDay)) * time.Hour
}

// DurationToDays converts a duration back to working days using whole hours.
func DurationToDays(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(int64(d.Hours())) / HoursPerDay
}

// CeilDays rounds an estimate up to whole working days.
func CeilDays(d time.Duration) int {
	return int(math.Ceil(DurationToDays(d)))
}

// ParseDays accepts "P1.5D" or a bare number of days such as "1.5".
func ParseDays(s string) (time.Duration, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidEstimate)
	}
	num := raw
	if len(num) > 2 && (num[0] == 'P' || num[0] == 'p') && (num[len(num)-1] == 'D' || num[len(num)-1] == 'd') {
		num = num[1 : len(num)-1]
	}
	days, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(days) || math.IsInf(days, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEstimate, s)
	}
	if days < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidEstimate, s)
	}
	if days > MaxEstimateDays {
		return 0, fmt.Errorf("%w: %q exceeds %d days", ErrInvalidEstimate, s, MaxEstimateDays)
	}
	return DaysToDuration(days), nil
}

// FormatDays renders d as "P{days}D".
func FormatDays(d time.Duration) string {
	return "P" + strconv.FormatFloat(DurationToDays(d), 'f', -1, 64) + "D"
}
