package http

import (
	"fmt"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/epics/domain"
)

type epicResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	StartDate          *string   `json:"startDate"`
	EndDate            *string   `json:"endDate"`
	Status             string    `json:"status"`
	Priority           string    `json:"priority"`
	ProjectID          *string   `json:"projectId"`
	AssignedTo         *string   `json:"assignedTo"`
	AssignedToName     string    `json:"assignedToName,omitempty"`
	ProgressPercentage int       `json:"progressPercentage"`
	ParentEpicID       *string   `json:"parentEpicId"`
	MilestoneID        *string   `json:"milestoneId"`
	Tags               []string  `json:"tags"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toResponse(e domain.Epic) epicResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return epicResponse{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		StartDate:          formatDate(e.StartDate),
		EndDate:            formatDate(e.EndDate),
		Status:             e.Status,
		Priority:           e.Priority,
		ProjectID:          e.ProjectID,
		AssignedTo:         e.AssignedTo,
		AssignedToName:     e.AssignedToName,
		ProgressPercentage: e.ProgressPercentage,
		ParentEpicID:       e.ParentEpicID,
		MilestoneID:        e.MilestoneID,
		Tags:               tags,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toResponses(es []domain.Epic) []epicResponse {
	out := make([]epicResponse, 0, len(es))
	for _, e := range es {
		out = append(out, toResponse(e))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := calendar.FormatDate(*t)
	return &s
}

type epicRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	ProjectID          *string  `json:"projectId"`
	AssignedTo         *string  `json:"assignedTo"`
	ProgressPercentage int      `json:"progressPercentage"`
	ParentEpicID       *string  `json:"parentEpicId"`
	MilestoneID        *string  `json:"milestoneId"`
	Tags               []string `json:"tags"`
}

func (r epicRequest) toDomain() (domain.Epic, error) {
	e := domain.Epic{
		Name:               r.Name,
		Description:        r.Description,
		Status:             r.Status,
		Priority:           r.Priority,
		ProjectID:          nonEmpty(r.ProjectID),
		AssignedTo:         nonEmpty(r.AssignedTo),
		ProgressPercentage: r.ProgressPercentage,
		ParentEpicID:       nonEmpty(r.ParentEpicID),
		MilestoneID:        nonEmpty(r.MilestoneID),
		Tags:               r.Tags,
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  **time.Time
	}{
		{"startDate", r.StartDate, &e.StartDate},
		{"endDate", r.EndDate, &e.EndDate},
	} {
		if f.raw == "" {
			continue
		}
		d, err := calendar.ParseDate(f.raw)
		if err != nil {
			return e, fmt.Errorf("invalid %s, expected YYYY-MM-DD", f.name)
		}
		*f.dst = &d
	}
	return e, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
