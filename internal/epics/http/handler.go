package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/epics/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.Epic, error)
	Get(ctx context.Context, id string) (*domain.Epic, error)
	ByProject(ctx context.Context, projectID string) ([]domain.Epic, error)
	TopLevel(ctx context.Context) ([]domain.Epic, error)
	Children(ctx context.Context, parentID string) ([]domain.Epic, error)
	ByStatus(ctx context.Context, status string) ([]domain.Epic, error)
	ByPriority(ctx context.Context, priority string) ([]domain.Epic, error)
	ByAssignee(ctx context.Context, userID string) ([]domain.Epic, error)
	TaskCount(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, e *domain.Epic) error
	Update(ctx context.Context, e *domain.Epic) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	respond(c)(h.svc.List(c.Request.Context()))
}

func (h *Handler) topLevel(c *gin.Context) {
	respond(c)(h.svc.TopLevel(c.Request.Context()))
}

func (h *Handler) byProject(c *gin.Context) {
	respond(c)(h.svc.ByProject(c.Request.Context(), c.Param("projectId")))
}

func (h *Handler) children(c *gin.Context) {
	respond(c)(h.svc.Children(c.Request.Context(), c.Param("id")))
}

func (h *Handler) byStatus(c *gin.Context) {
	respond(c)(h.svc.ByStatus(c.Request.Context(), c.Param("status")))
}

func (h *Handler) byPriority(c *gin.Context) {
	respond(c)(h.svc.ByPriority(c.Request.Context(), c.Param("priority")))
}

func (h *Handler) byAssignee(c *gin.Context) {
	respond(c)(h.svc.ByAssignee(c.Request.Context(), c.Param("userId")))
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*e))
}

// taskCount answers with a bare number.
func (h *Handler) taskCount(c *gin.Context) {
	n, err := h.svc.TaskCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) create(c *gin.Context) {
	e, ok := bindEpic(c)
	if !ok {
		return
	}
	if err := h.svc.Create(c.Request.Context(), &e); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(e))
}

func (h *Handler) update(c *gin.Context) {
	e, ok := bindEpic(c)
	if !ok {
		return
	}
	e.ID = c.Param("id")
	if err := h.svc.Update(c.Request.Context(), &e); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(e))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindEpic(c *gin.Context) (domain.Epic, bool) {
	var req epicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return domain.Epic{}, false
	}
	e, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return domain.Epic{}, false
	}
	return e, true
}

func respond(c *gin.Context) func([]domain.Epic, error) {
	return func(es []domain.Epic, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toResponses(es))
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		apierr.NotFound(c, "epic not found")
	case errors.Is(err, domain.ErrInvalidInput):
		apierr.BadRequest(c, err.Error())
	default:
		apierr.Write(c, err)
	}
}
