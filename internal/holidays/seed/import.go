package seed

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

// File is the YAML layout accepted by ImportYAML:
//
//	holidays:
//	  - date: 2025-12-26
//	    name: Company shutdown
//	    type: Company
//	    isWorkingDay: false
type File struct {
	Holidays []Entry `yaml:"holidays"`
}

type Entry struct {
	Date         string `yaml:"date"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	IsWorkingDay bool   `yaml:"isWorkingDay"`
	Description  string `yaml:"description"`
	CountryCode  string `yaml:"countryCode"`
}

// ParseYAML decodes and validates every entry before anything is written.
func ParseYAML(r io.Reader) ([]domain.Holiday, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode holiday file: %w", err)
	}

	out := make([]domain.Holiday, 0, len(f.Holidays))
	for i, e := range f.Holidays {
		date, err := calendar.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		h := domain.Holiday{
			Date:        date,
			Name:        e.Name,
			Type:        e.Type,
			WorkingDay:  e.IsWorkingDay,
			Description: e.Description,
			CountryCode: e.CountryCode,
		}
		h.Normalize()
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// ImportYAML upserts the holidays listed in r.
func (s *Seeder) ImportYAML(ctx context.Context, r io.Reader) (Result, error) {
	hs, err := ParseYAML(r)
	if err != nil {
		return Result{}, err
	}
	res, err := s.upsert(ctx, hs)
	if err != nil {
		return res, err
	}
	logging.FromContext(ctx).Info("holidays imported",
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
