// Package params reads and validates request parameters, answering 400 on failure.
package params

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/calendar"
)

// Date reads a required YYYY-MM-DD query parameter.
func Date(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		apierr.BadRequest(c, name+" is required")
		return time.Time{}, false
	}
	return parseDate(c, name, raw)
}

// OptionalDate reads a YYYY-MM-DD query parameter that may be absent.
func OptionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, ok := parseDate(c, name, raw)
	if !ok {
		return nil, false
	}
	return &d, true
}

// DateRange reads the required start and end parameters.
func DateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := Date(c, "start")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := Date(c, "end")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Int reads a required integer query parameter.
func Int(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		apierr.BadRequest(c, name+" is required")
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		apierr.BadRequest(c, "invalid "+name+", expected an integer")
		return 0, false
	}
	return n, true
}

func parseDate(c *gin.Context, name, raw string) (time.Time, bool) {
	d, err := calendar.ParseDate(raw)
	if err != nil {
		apierr.BadRequest(c, "invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}
