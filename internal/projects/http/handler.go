package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/projects/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.Project, error)
	Active(ctx context.Context) ([]domain.Project, error)
	ByStatus(ctx context.Context, status string) ([]domain.Project, error)
	ByClient(ctx context.Context, client string) ([]domain.Project, error)
	ByType(ctx context.Context, projectType string) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string) (domain.Schedule, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	h.respond(c, items, err)
}

func (h *Handler) active(c *gin.Context) {
	items, err := h.svc.Active(c.Request.Context())
	h.respond(c, items, err)
}

func (h *Handler) byStatus(c *gin.Context) {
	items, err := h.svc.ByStatus(c.Request.Context(), c.Param("status"))
	h.respond(c, items, err)
}

func (h *Handler) byClient(c *gin.Context) {
	items, err := h.svc.ByClient(c.Request.Context(), c.Param("clientName"))
	h.respond(c, items, err)
}

func (h *Handler) byType(c *gin.Context) {
	items, err := h.svc.ByType(c.Request.Context(), c.Param("projectType"))
	h.respond(c, items, err)
}

func (h *Handler) respond(c *gin.Context, items []domain.Project, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(items))
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*p))
}

func (h *Handler) create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid body")
		return
	}
	p, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Create(c.Request.Context(), &p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid body")
		return
	}
	p, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	p.ID = c.Param("id")
	if err := h.svc.Update(c.Request.Context(), &p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) schedule(c *gin.Context) {
	s, err := h.svc.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projectId":   s.ProjectID,
		"startDate":   calendar.FormatDate(s.StartDate),
		"endDate":     calendar.FormatDate(s.EndDate),
		"workingDays": s.WorkingDays,
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		apierr.NotFound(c, "project not found")
	case errors.Is(err, domain.ErrInvalidInput):
		apierr.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNoEndDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		apierr.Write(c, err)
	}
}
