package http

import (
	"fmt"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/projects/domain"
)

type projectResponse struct {
	ProjectID            string    `json:"projectId"`
	ProjectCode          string    `json:"projectCode"`
	ProjectName          string    `json:"projectName"`
	ProjectDescription   string    `json:"projectDescription"`
	StartDate            string    `json:"startDate"`
	EndDate              *string   `json:"endDate"`
	Status               string    `json:"status"`
	Priority             string    `json:"priority"`
	Budget               *float64  `json:"budget"`
	ProjectManagerID     *string   `json:"projectManagerId"`
	ClientName           string    `json:"clientName,omitempty"`
	ProjectType          string    `json:"projectType,omitempty"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Tags                 []string  `json:"tags"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func toResponse(p domain.Project) projectResponse {
	resp := projectResponse{
		ProjectID:            p.ID,
		ProjectCode:          p.Code,
		ProjectName:          p.Name,
		ProjectDescription:   p.Description,
		StartDate:            calendar.FormatDate(p.StartDate),
		Status:               p.Status,
		Priority:             p.Priority,
		Budget:               p.Budget,
		ProjectManagerID:     p.ProjectManagerID,
		ClientName:           p.ClientName,
		ProjectType:          p.ProjectType,
		CompletionPercentage: p.CompletionPercentage,
		Tags:                 p.Tags,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if p.EndDate != nil {
		s := calendar.FormatDate(*p.EndDate)
		resp.EndDate = &s
	}
	return resp
}

func toResponses(ps []domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toResponse(p))
	}
	return out
}

type projectRequest struct {
	ProjectName          string   `json:"projectName"`
	ProjectDescription   string   `json:"projectDescription"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	Status               string   `json:"status"`
	Priority             string   `json:"priority"`
	Budget               *float64 `json:"budget"`
	ProjectManagerID     string   `json:"projectManagerId"`
	ClientName           string   `json:"clientName"`
	ProjectType          string   `json:"projectType"`
	CompletionPercentage float64  `json:"completionPercentage"`
	Tags                 []string `json:"tags"`
}

func (r projectRequest) toDomain() (domain.Project, error) {
	p := domain.Project{
		Name:                 r.ProjectName,
		Description:          r.ProjectDescription,
		Status:               r.Status,
		Priority:             r.Priority,
		Budget:               r.Budget,
		ClientName:           r.ClientName,
		ProjectType:          r.ProjectType,
		CompletionPercentage: r.CompletionPercentage,
		Tags:                 r.Tags,
	}
	if r.ProjectManagerID != "" {
		id := r.ProjectManagerID
		p.ProjectManagerID = &id
	}
	if r.StartDate != "" {
		d, err := calendar.ParseDate(r.StartDate)
		if err != nil {
			return p, fmt.Errorf("invalid startDate, expected YYYY-MM-DD")
		}
		p.StartDate = d
	}
	if r.EndDate != "" {
		d, err := calendar.ParseDate(r.EndDate)
		if err != nil {
			return p, fmt.Errorf("invalid endDate, expected YYYY-MM-DD")
		}
		p.EndDate = &d
	}
	return p, nil
}
