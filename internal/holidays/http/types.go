package http

import (
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
)

type holidayResponse struct {
	HolidayID    string    `json:"holidayId"`
	HolidayDate  string    `json:"holidayDate"`
	HolidayName  string    `json:"holidayName"`
	HolidayType  string    `json:"holidayType,omitempty"`
	IsWorkingDay bool      `json:"isWorkingDay"`
	Description  string    `json:"description,omitempty"`
	CountryCode  string    `json:"countryCode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResponse(h domain.Holiday) holidayResponse {
	return holidayResponse{
		HolidayID:    h.ID,
		HolidayDate:  calendar.FormatDate(h.Date),
		HolidayName:  h.Name,
		HolidayType:  h.Type,
		IsWorkingDay: h.WorkingDay,
		Description:  h.Description,
		CountryCode:  h.CountryCode,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func toResponses(hs []domain.Holiday) []holidayResponse {
	out := make([]holidayResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, toResponse(h))
	}
	return out
}

type holidayRequest struct {
	HolidayDate  string `json:"holidayDate"`
	HolidayName  string `json:"holidayName"`
	HolidayType  string `json:"holidayType"`
	IsWorkingDay *bool  `json:"isWorkingDay"`
	Description  string `json:"description"`
	CountryCode  string `json:"countryCode"`
}

func (r holidayRequest) toDomain() (domain.Holiday, error) {
	date, err := calendar.ParseDate(r.HolidayDate)
	if err != nil {
		return domain.Holiday{}, err
	}
	h := domain.Holiday{
		Date:        date,
		Name:        r.HolidayName,
		Type:        r.HolidayType,
		Description: r.Description,
		CountryCode: r.CountryCode,
	}
	if r.IsWorkingDay != nil {
		h.WorkingDay = *r.IsWorkingDay
	}
	return h, nil
}
