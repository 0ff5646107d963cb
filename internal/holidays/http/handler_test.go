package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/holidaytest"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/service"
)

func setupRouter(t *testing.T, store *holidaytest.MemoryStore, guards ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(service.NewHolidayService(store, calendar.DefaultMaxGapDays)).Register(r.Group("/holidays"), guards...)
	return r
}

func doRequest(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seededStore() *holidaytest.MemoryStore {
	return holidaytest.NewMemoryStore(
		holidaytest.NonWorking(calendar.Date(2024, time.December, 25), "Christmas Day"),
		holidaytest.NonWorking(calendar.Date(2024, time.January, 1), "New Year's Day"),
	)
}

func TestHolidayRoutes_Queries(t *testing.T) {
	r := setupRouter(t, seededStore())

	t.Run("list returns camelCase rows ordered by date", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "2024-01-01", got[0]["holidayDate"])
		assert.Equal(t, "Christmas Day", got[1]["holidayName"])
		assert.Equal(t, false, got[1]["isWorkingDay"])
	})

	t.Run("range requires both bounds", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/range?start=2024-01-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "end is required")
	})

	t.Run("range rejects malformed dates", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/range?start=01-01-2024&end=2024-12-31", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("range rejects start after end", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/range?start=2024-12-31&end=2024-01-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("range filters by date", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/range?start=2024-06-01&end=2024-12-31", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("check and working-day return bare booleans", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/check?date=2024-12-25", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Body.String())

		w = doRequest(r, http.MethodGet, "/holidays/working-day?date=2024-12-25", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "false", w.Body.String())

		w = doRequest(r, http.MethodGet, "/holidays/working-day?date=2024-12-24", nil)
		assert.Equal(t, "true", w.Body.String())
	})

	t.Run("next working day skips christmas", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/next-working-day?date=2024-12-24", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"date":"2024-12-24","nextWorkingDay":"2024-12-26"}`, w.Body.String())
	})

	t.Run("working days counts inclusively", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/holidays/working-days?start=2024-12-23&end=2024-12-27", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"start":"2024-12-23","end":"2024-12-27","workingDays":4}`, w.Body.String())
	})

	t.Run("store outage is a 503", func(t *testing.T) {
		broken := holidaytest.NewMemoryStore()
		broken.Err = errors.New("db down")
		w := doRequest(setupRouter(t, broken), http.MethodGet, "/holidays/working-day?date=2024-12-24", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestHolidayRoutes_Writes(t *testing.T) {
	t.Run("create, update and delete", func(t *testing.T) {
		store := seededStore()
		r := setupRouter(t, store)

		w := doRequest(r, http.MethodPost, "/holidays", map[string]any{
			"holidayDate": "2024-11-29",
			"holidayName": "Day after Thanksgiving",
			"holidayType": "Company",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var created map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		id := created["holidayId"].(string)
		assert.Equal(t, "USA", created["countryCode"])

		w = doRequest(r, http.MethodPut, "/holidays/"+id, map[string]any{
			"holidayDate":  "2024-11-29",
			"holidayName":  "Day after Thanksgiving",
			"isWorkingDay": true,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isWorkingDay":true`)

		w = doRequest(r, http.MethodDelete, "/holidays/"+id, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(r, http.MethodGet, "/holidays/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("duplicate date is a conflict", func(t *testing.T) {
		r := setupRouter(t, seededStore())
		w := doRequest(r, http.MethodPost, "/holidays", map[string]any{
			"holidayDate": "2024-12-25",
			"holidayName": "Christmas again",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing name is a bad request", func(t *testing.T) {
		r := setupRouter(t, seededStore())
		w := doRequest(r, http.MethodPost, "/holidays", map[string]any{"holidayDate": "2024-03-01"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("write guards run before handlers", func(t *testing.T) {
		deny := func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
		store := seededStore()
		r := setupRouter(t, store, deny)

		w := doRequest(r, http.MethodPost, "/holidays", map[string]any{
			"holidayDate": "2024-03-01",
			"holidayName": "Blocked",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 2, store.Len())

		w = doRequest(r, http.MethodGet, "/holidays", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
