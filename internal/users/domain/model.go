package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultRole = "Developer"
	RoleAdmin   = "Admin"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")
)

// User is an account. PasswordHash is empty for users that only sign in
// through Firebase.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          string
	Department    string
	PhoneNumber   string
	Timezone      string
	DateOfJoining *time.Time
	Salary        *float64
	IsActive      bool
	LastLogin     *time.Time
	FirebaseUID   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayName is "First Last", falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// UsernameBase returns the local part of an email address, lower-cased.
func UsernameBase(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return strings.ToLower(local)
}
