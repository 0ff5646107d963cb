package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/api/http/params"
	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/service"
)

const (
	msgEndDateRequired = "startDate and estimateDays are required"
	msgEndDateInvalid  = "Invalid date format or calculation error"
)

type Service interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Filter(ctx context.Context, f domain.Filter) ([]domain.Task, error)
	Epics(ctx context.Context) ([]domain.Task, error)
	TopLevel(ctx context.Context, epicID string) ([]domain.Task, error)
	Subtasks(ctx context.Context, parentID string) ([]domain.Task, error)
	ByType(ctx context.Context, typ string) ([]domain.Task, error)
	ByStatus(ctx context.Context, status string) ([]domain.Task, error)
	ByPriority(ctx context.Context, priority string) ([]domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	CalculateEndDate(ctx context.Context, start time.Time, estimateDays int) (service.EndDateEstimate, error)
	ValidateEndDate(ctx context.Context, start time.Time, estimateDays int, selected time.Time) (service.EndDateCheck, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	h.respondList(c)(h.svc.List(c.Request.Context()))
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*t))
}

func (h *Handler) filter(c *gin.Context) {
	from, ok := params.OptionalDate(c, "startDate")
	if !ok {
		return
	}
	to, ok := params.OptionalDate(c, "endDate")
	if !ok {
		return
	}
	f := domain.Filter{
		UpdatedFrom: from,
		UpdatedTo:   to,
		AssigneeID:  strings.TrimSpace(c.Query("assignee")),
		Status:      strings.TrimSpace(c.Query("status")),
		Priority:    strings.TrimSpace(c.Query("priority")),
	}
	for _, typ := range strings.Split(c.Query("types"), ",") {
		if typ = strings.TrimSpace(typ); typ != "" {
			f.Types = append(f.Types, typ)
		}
	}
	h.respondList(c)(h.svc.Filter(c.Request.Context(), f))
}

func (h *Handler) epics(c *gin.Context) {
	h.respondList(c)(h.svc.Epics(c.Request.Context()))
}

func (h *Handler) byEpic(c *gin.Context) {
	h.respondList(c)(h.svc.TopLevel(c.Request.Context(), c.Param("epicId")))
}

func (h *Handler) subtasks(c *gin.Context) {
	h.respondList(c)(h.svc.Subtasks(c.Request.Context(), c.Param("id")))
}

func (h *Handler) byType(c *gin.Context) {
	h.respondList(c)(h.svc.ByType(c.Request.Context(), c.Param("type")))
}

func (h *Handler) byStatus(c *gin.Context) {
	h.respondList(c)(h.svc.ByStatus(c.Request.Context(), c.Param("status")))
}

func (h *Handler) byPriority(c *gin.Context) {
	h.respondList(c)(h.svc.ByPriority(c.Request.Context(), c.Param("priority")))
}

func (h *Handler) respondList(c *gin.Context) func([]domain.Task, error) {
	return func(ts []domain.Task, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toResponses(ts))
	}
}

func (h *Handler) create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return
	}
	t, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Create(c.Request.Context(), &t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(t))
}

func (h *Handler) update(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return
	}
	t, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	t.ID = c.Param("id")
	if err := h.svc.Update(c.Request.Context(), &t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(t))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) calculateEndDate(c *gin.Context) {
	var req calculateEndDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, msgEndDateInvalid)
		return
	}
	if req.StartDate == nil || *req.StartDate == "" || req.EstimateDays == nil {
		apierr.BadRequest(c, msgEndDateRequired)
		return
	}
	start, err := calendar.ParseDate(*req.StartDate)
	if err != nil {
		apierr.BadRequest(c, msgEndDateInvalid)
		return
	}

	res, err := h.svc.CalculateEndDate(c.Request.Context(), start, *req.EstimateDays)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).Debug("end date calculated",
		zap.String("start", calendar.FormatDate(res.StartDate)),
		zap.Int("estimate_days", res.EstimateDays),
		zap.String("end", calendar.FormatDate(res.EndDate)))

	c.JSON(http.StatusOK, gin.H{
		"startDate":         calendar.FormatDate(res.StartDate),
		"estimateDays":      res.EstimateDays,
		"calculatedEndDate": calendar.FormatDate(res.EndDate),
		"isWorkingDay":      res.EndIsWorkingDay,
	})
}

func (h *Handler) validateEndDate(c *gin.Context) {
	start, ok := params.Date(c, "startDate")
	if !ok {
		return
	}
	days, ok := params.Int(c, "estimateDays")
	if !ok {
		return
	}
	selected, ok := params.Date(c, "selectedEndDate")
	if !ok {
		return
	}

	res, err := h.svc.ValidateEndDate(c.Request.Context(), start, days, selected)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isValid":           res.Valid,
		"calculatedEndDate": calendar.FormatDate(res.Calculated),
		"selectedEndDate":   calendar.FormatDate(res.Selected),
		"message":           res.Message,
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		apierr.NotFound(c, "task not found")
	case errors.Is(err, domain.ErrInvalidInput):
		apierr.BadRequest(c, err.Error())
	default:
		apierr.Write(c, err)
	}
}
