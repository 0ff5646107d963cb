package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
)

const DefaultCountryCode = "USA"

var (
	ErrNotFound     = errors.New("holiday not found")
	ErrDateTaken    = errors.New("a holiday already exists for this date")
	ErrInvalidInput = errors.New("invalid holiday")
)

// Holiday is one dated calendar exception. A row with WorkingDay=false makes
// its weekday non-working; a row with WorkingDay=true is informational only.
type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Type        string
	WorkingDay  bool
	Description string
	CountryCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Override projects the row onto what the working-day engine needs.
func (h Holiday) Override() calendar.Override {
	return calendar.Override{Date: h.Date, WorkingDay: h.WorkingDay}
}

// Normalize trims text fields, truncates the date and applies defaults.
func (h *Holiday) Normalize() {
	h.Date = calendar.DateOf(h.Date)
	h.Name = strings.TrimSpace(h.Name)
	h.Type = strings.TrimSpace(h.Type)
	h.Description = strings.TrimSpace(h.Description)
	h.CountryCode = strings.ToUpper(strings.TrimSpace(h.CountryCode))
	if h.CountryCode == "" {
		h.CountryCode = DefaultCountryCode
	}
}

func (h Holiday) Validate() error {
	switch {
	case h.Date.IsZero():
		return fmt.Errorf("%w: holidayDate is required", ErrInvalidInput)
	case h.Name == "":
		return fmt.Errorf("%w: holidayName is required", ErrInvalidInput)
	case len(h.Name) > 255:
		return fmt.Errorf("%w: holidayName is too long", ErrInvalidInput)
	case len(h.Type) > 100:
		return fmt.Errorf("%w: holidayType is too long", ErrInvalidInput)
	case len(h.CountryCode) > 3:
		return fmt.Errorf("%w: countryCode must be at most 3 characters", ErrInvalidInput)
	}
	return nil
}

// Overrides converts rows for calendar.NewSnapshot.
func Overrides(hs []Holiday) []calendar.Override {
	out := make([]calendar.Override, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Override())
	}
	return out
}
