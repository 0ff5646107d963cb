package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/users/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.User, error)
	Active(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	ByUsername(ctx context.Context, username string) (*domain.User, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	us, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(us))
}

func (h *Handler) active(c *gin.Context) {
	us, err := h.svc.Active(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(us))
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	h.respondOne(c, u, err)
}

func (h *Handler) byUsername(c *gin.Context) {
	u, err := h.svc.ByUsername(c.Request.Context(), c.Param("username"))
	h.respondOne(c, u, err)
}

func (h *Handler) respondOne(c *gin.Context, u *domain.User, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		apierr.NotFound(c, "user not found")
		return
	}
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*u))
}
