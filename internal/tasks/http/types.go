package http

import (
	"fmt"
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
)

type taskResponse struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	EpicID           *string   `json:"epicId"`
	SprintID         *string   `json:"sprintId"`
	StartDate        *string   `json:"startDate"`
	DueDate          *string   `json:"dueDate"`
	OriginalEstimate *string   `json:"originalEstimate"`
	Status           string    `json:"status"`
	AssigneeID       *string   `json:"assigneeId"`
	AssigneeName     string    `json:"assigneeName,omitempty"`
	Priority         string    `json:"priority"`
	Labels           []string  `json:"labels"`
	ParentTaskID     *string   `json:"parentTaskId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toResponse(t domain.Task) taskResponse {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	resp := taskResponse{
		ID:           t.ID,
		Type:         t.Type,
		Title:        t.Title,
		Description:  t.Description,
		EpicID:       t.EpicID,
		SprintID:     t.SprintID,
		StartDate:    formatDate(t.StartDate),
		DueDate:      formatDate(t.DueDate),
		Status:       t.Status,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		Priority:     t.Priority,
		Labels:       labels,
		ParentTaskID: t.ParentTaskID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.OriginalEstimate != nil {
		s := domain.FormatDays(*t.OriginalEstimate)
		resp.OriginalEstimate = &s
	}
	return resp
}

func toResponses(ts []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toResponse(t))
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

type taskRequest struct {
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	EpicID           *string  `json:"epicId"`
	SprintID         *string  `json:"sprintId"`
	StartDate        *string  `json:"startDate"`
	DueDate          *string  `json:"dueDate"`
	OriginalEstimate *string  `json:"originalEstimate"`
	Status           string   `json:"status"`
	AssigneeID       *string  `json:"assigneeId"`
	Priority         string   `json:"priority"`
	Labels           []string `json:"labels"`
	ParentTaskID     *string  `json:"parentTaskId"`
}

func (r taskRequest) toDomain() (domain.Task, error) {
	t := domain.Task{
		Type:         r.Type,
		Title:        r.Title,
		Description:  r.Description,
		EpicID:       emptyToNil(r.EpicID),
		SprintID:     emptyToNil(r.SprintID),
		Status:       r.Status,
		AssigneeID:   emptyToNil(r.AssigneeID),
		Priority:     r.Priority,
		Labels:       r.Labels,
		ParentTaskID: emptyToNil(r.ParentTaskID),
	}
	var err error
	if t.StartDate, err = parseOptionalDate("startDate", r.StartDate); err != nil {
		return t, err
	}
	if t.DueDate, err = parseOptionalDate("dueDate", r.DueDate); err != nil {
		return t, err
	}
	if r.OriginalEstimate != nil && *r.OriginalEstimate != "" {
		d, err := domain.ParseDays(*r.OriginalEstimate)
		if err != nil {
			return t, fmt.Errorf("invalid originalEstimate, expected P{days}D or a number of days up to %d", domain.MaxEstimateDays)
		}
		t.OriginalEstimate = &d
	}
	return t, nil
}

func parseOptionalDate(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, expected YYYY-MM-DD", name)
	}
	return &d, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type calculateEndDateRequest struct {
	StartDate    *string `json:"startDate"`
	EstimateDays *int    `json:"estimateDays"`
}
