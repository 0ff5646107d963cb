package http

import (
	"time"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

// userResponse never carries the password hash.
type userResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Department    string     `json:"department,omitempty"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"`
	Timezone      string     `json:"timezone,omitempty"`
	DateOfJoining *string    `json:"dateOfJoining,omitempty"`
	Salary        *float64   `json:"salary,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toResponse(u domain.User) userResponse {
	out := userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Name:        u.DisplayName(),
		Role:        u.Role,
		Department:  u.Department,
		PhoneNumber: u.PhoneNumber,
		Timezone:    u.Timezone,
		Salary:      u.Salary,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.DateOfJoining != nil {
		d := calendar.FormatDate(*u.DateOfJoining)
		out.DateOfJoining = &d
	}
	return out
}

func toResponses(us []domain.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toResponse(u))
	}
	return out
}
