package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/api/http/params"
	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/domain"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/service"
)

// Service is what the handlers need from the holiday service.
type Service interface {
	List(ctx context.Context, f service.ListFilter) ([]domain.Holiday, error)
	Range(ctx context.Context, start, end time.Time) ([]domain.Holiday, error)
	NonWorking(ctx context.Context, start, end time.Time) ([]domain.Holiday, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	IsWorkingDay(ctx context.Context, date time.Time) (bool, error)
	NextWorkingDay(ctx context.Context, date time.Time) (time.Time, error)
	WorkingDaysBetween(ctx context.Context, start, end time.Time) (int, error)
	Get(ctx context.Context, id string) (*domain.Holiday, error)
	Create(ctx context.Context, h *domain.Holiday) error
	Update(ctx context.Context, h *domain.Holiday) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	hs, err := h.svc.List(c.Request.Context(), service.ListFilter{
		Type:    c.Query("type"),
		Country: c.Query("country"),
	})
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(hs))
}

func (h *Handler) byRange(c *gin.Context) {
	start, end, ok := params.DateRange(c)
	if !ok {
		return
	}
	hs, err := h.svc.Range(c.Request.Context(), start, end)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(hs))
}

func (h *Handler) nonWorking(c *gin.Context) {
	start, end, ok := params.DateRange(c)
	if !ok {
		return
	}
	hs, err := h.svc.NonWorking(c.Request.Context(), start, end)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(hs))
}

func (h *Handler) check(c *gin.Context) {
	date, ok := params.Date(c, "date")
	if !ok {
		return
	}
	exists, err := h.svc.IsHoliday(c.Request.Context(), date)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, exists)
}

func (h *Handler) workingDay(c *gin.Context) {
	date, ok := params.Date(c, "date")
	if !ok {
		return
	}
	working, err := h.svc.IsWorkingDay(c.Request.Context(), date)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, working)
}

func (h *Handler) nextWorkingDay(c *gin.Context) {
	date, ok := params.Date(c, "date")
	if !ok {
		return
	}
	next, err := h.svc.NextWorkingDay(c.Request.Context(), date)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":           calendar.FormatDate(date),
		"nextWorkingDay": calendar.FormatDate(next),
	})
}

func (h *Handler) workingDays(c *gin.Context) {
	start, end, ok := params.DateRange(c)
	if !ok {
		return
	}
	n, err := h.svc.WorkingDaysBetween(c.Request.Context(), start, end)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":       calendar.FormatDate(start),
		"end":         calendar.FormatDate(end),
		"workingDays": n,
	})
}

func (h *Handler) get(c *gin.Context) {
	hol, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*hol))
}

func (h *Handler) create(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return
	}
	hol, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Create(c.Request.Context(), &hol); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(hol))
}

func (h *Handler) update(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request body")
		return
	}
	hol, err := req.toDomain()
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	hol.ID = c.Param("id")
	if err := h.svc.Update(c.Request.Context(), &hol); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(hol))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		apierr.NotFound(c, "holiday not found")
	case errors.Is(err, domain.ErrDateTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		apierr.BadRequest(c, err.Error())
	default:
		apierr.Write(c, err)
	}
}
