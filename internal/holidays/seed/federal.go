// Package seed fills the holiday table from built-in calendars and YAML files.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"go.uber.org/zap"

	hcal "github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

const FederalType = "Federal"

var ErrUnsupportedCountry = errors.New("no built-in holiday set for country")

// Store is the write side seeding needs.
type Store interface {
	UpsertByDate(ctx context.Context, h *domain.Holiday) (bool, error)
}

var usFederal = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Result counts what a seeding run did.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type Seeder struct {
	store Store
}

func NewSeeder(store Store) *Seeder {
	return &Seeder{store: store}
}

// FederalHolidays returns the observed US federal holidays of year as
// non-working rows, ordered by date. Holidays not yet established in year
// are omitted.
func FederalHolidays(year int, country string) ([]domain.Holiday, error) {
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case "", "US", "USA":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, country)
	}

	out := make([]domain.Holiday, 0, len(usFederal))
	for _, h := range usFederal {
		actual, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		desc := ""
		if !hcal.DateOf(actual).Equal(hcal.DateOf(observed)) {
			desc = "Observed; falls on " + hcal.FormatDate(actual)
		}
		out = append(out, domain.Holiday{
			Date:        hcal.DateOf(observed),
			Name:        h.Name,
			Type:        FederalType,
			Description: desc,
			CountryCode: domain.DefaultCountryCode,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SeedYear upserts the federal holidays of year. Dates that already have a
// row are left untouched.
func (s *Seeder) SeedYear(ctx context.Context, year int, country string) (Result, error) {
	hs, err := FederalHolidays(year, country)
	if err != nil {
		return Result{}, err
	}
	res, err := s.upsert(ctx, hs)
	if err != nil {
		return res, err
	}
	logging.FromContext(ctx).Info("holidays seeded",
		zap.Int("year", year),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (s *Seeder) upsert(ctx context.Context, hs []domain.Holiday) (Result, error) {
	var res Result
	for i := range hs {
		h := hs[i]
		h.Normalize()
		if err := h.Validate(); err != nil {
			return res, err
		}
		written, err := s.store.UpsertByDate(ctx, &h)
		if err != nil {
			return res, err
		}
		if written {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}
