// Package apierr maps errors shared across features onto HTTP responses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

// Status returns the HTTP status for working-day engine errors and 500 otherwise.
func Status(err error) int {
	switch {
	case errors.Is(err, calendar.ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, calendar.ErrWalkLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, calendar.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write responds with {"error": msg}. Server-side failures are logged and
// their detail is not leaked to the client.
func Write(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		logging.FromContext(c.Request.Context()).Error("holiday data unavailable", zap.Error(err))
		msg = "holiday data unavailable"
	case http.StatusInternalServerError:
		logging.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}
