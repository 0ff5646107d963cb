package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ganttplan/ganttplan-backend/internal/auth"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignup      = errors.New("invalid signup")
)

const minPasswordLen = 6

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *domain.User) error
	UpdateLastLogin(ctx context.Context, email string) error
	LinkFirebaseUID(ctx context.Context, email, firebaseUID string) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type SignupInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	Department string
}

// Session is the result of a successful signup or login. Token is empty
// when the session was only verified.
type Session struct {
	Token string
	Email string
	Name  string
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	cost   int
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Signup registers a new user and signs them in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: a valid email is required", ErrInvalidSignup)
	}
	if len(in.Password) < minPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignup, minPasswordLen)
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, domain.ErrEmailTaken
	}

	username, err := s.uniqueUsername(ctx, domain.UsernameBase(email))
	if err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, err
	}
	logging.FromContext(ctx).Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))

	return s.session(u)
}

// Login checks the credentials and records the login time.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !u.IsActive || u.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, u.Email); err != nil {
		logging.FromContext(ctx).Warn("record last login failed", zap.Error(err))
	}
	return s.session(u)
}

// Verify describes the already authenticated user with the given email.
func (s *AuthService) Verify(ctx context.Context, email string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	return Session{Email: u.Email, Name: u.DisplayName()}, nil
}

// ResolveFirebase returns the local identity for a Firebase user, creating
// the account the first time the user is seen.
func (s *AuthService) ResolveFirebase(ctx context.Context, uid, email, name string) (auth.Identity, error) {
	email = normalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.FirebaseUID == nil || *u.FirebaseUID != uid {
			if err := s.users.LinkFirebaseUID(ctx, email, uid); err != nil {
				return auth.Identity{}, err
			}
		}
	case errors.Is(err, domain.ErrNotFound):
		username, err := s.uniqueUsername(ctx, domain.UsernameBase(email))
		if err != nil {
			return auth.Identity{}, err
		}
		first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
		u = &domain.User{
			Username:    username,
			Email:       email,
			FirstName:   first,
			LastName:    strings.TrimSpace(last),
			Role:        domain.DefaultRole,
			IsActive:    true,
			FirebaseUID: &uid,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return auth.Identity{}, err
		}
		logging.FromContext(ctx).Info("firebase user provisioned", zap.String("user_id", u.ID))
	default:
		return auth.Identity{}, err
	}
	return auth.Identity{Email: u.Email, UserID: u.ID, Role: u.Role}, nil
}

// uniqueUsername tries base, base1, base2, ... until one is free.
func (s *AuthService) uniqueUsername(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "user"
	}
	candidate := base
	for i := 1; i <= 1000; i++ {
		taken, err := s.users.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func (s *AuthService) session(u *domain.User) (Session, error) {
	token, err := s.tokens.Issue(auth.Identity{Email: u.Email, UserID: u.ID, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Email: u.Email, Name: u.DisplayName()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
