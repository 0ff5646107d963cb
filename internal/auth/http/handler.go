package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/auth"
	"github.com/ganttplan/ganttplan-backend/internal/auth/service"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

type Service interface {
	Signup(ctx context.Context, in service.SignupInput) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Verify(ctx context.Context, email string) (service.Session, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	s, err := h.svc.Signup(c.Request.Context(), service.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		return
	case errors.Is(err, service.ErrInvalidSignup):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	case err != nil:
		logging.FromContext(c.Request.Context()).Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(s, "Registration successful"))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}

	s, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(s, "Authentication successful"))
}

func (h *Handler) verify(c *gin.Context) {
	s, err := h.svc.Verify(c.Request.Context(), auth.UserEmail(c))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("verify failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": s.Email, "name": s.Name, "message": "Token is valid"})
}

func toAuthResponse(s service.Session, msg string) authResponse {
	return authResponse{Token: s.Token, Type: "Bearer", Email: s.Email, Name: s.Name, Message: msg}
}
