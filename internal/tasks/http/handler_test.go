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
	holidaysvc "github.com/ganttplan/ganttplan-backend/internal/holidays/service"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/domain"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/service"
	"github.com/ganttplan/ganttplan-backend/internal/tasks/tasktest"
)

type fixture struct {
	router   *gin.Engine
	repo     *tasktest.MemoryRepo
	holidays *holidaytest.MemoryStore
}

// Holidays: Wednesday 2024-01-03.
func setupRouter(t *testing.T, seed ...domain.Task) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := holidaytest.NewMemoryStore(holidaytest.NonWorking(calendar.Date(2024, time.January, 3), "Offsite"))
	repo := tasktest.NewMemoryRepo(seed...)
	svc := service.NewTaskService(repo, holidaysvc.NewHolidayService(store, calendar.DefaultMaxGapDays),
		&tasktest.Directory{Names: map[string]string{"u-1": "Ada Lovelace"}})

	r := gin.New()
	New(svc).Register(r.Group("/tasks"))
	return fixture{router: r, repo: repo, holidays: store}
}

func doRequest(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestCalculateEndDate(t *testing.T) {
	f := setupRouter(t)

	t.Run("projects over the holiday", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date",
			map[string]any{"startDate": "2024-01-01", "estimateDays": 3})
		require.Equal(t, http.StatusOK, w.Code)

		got := decode(t, w)
		assert.Equal(t, "2024-01-01", got["startDate"])
		assert.Equal(t, float64(3), got["estimateDays"])
		assert.Equal(t, "2024-01-04", got["calculatedEndDate"])
		assert.Equal(t, true, got["isWorkingDay"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date", map[string]any{"startDate": "2024-01-01"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "startDate and estimateDays are required", decode(t, w)["error"])
	})

	t.Run("unparseable start date", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date",
			map[string]any{"startDate": "01/01/2024", "estimateDays": 3})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid date format or calculation error", decode(t, w)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date", `{"estimateDays":"three"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid date format or calculation error", decode(t, w)["error"])
	})

	t.Run("oversized estimate is rejected without loading holidays", func(t *testing.T) {
		f := setupRouter(t)
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date",
			map[string]any{"startDate": "2024-01-01", "estimateDays": 20000000})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "exceeds")
		assert.Empty(t, f.holidays.YearLoads)
	})

	t.Run("holiday store outage is a 503", func(t *testing.T) {
		f.holidays.Err = errors.New("db down")
		defer func() { f.holidays.Err = nil }()
		w := doRequest(f.router, http.MethodPost, "/tasks/calculate-end-date",
			map[string]any{"startDate": "2024-01-01", "estimateDays": 3})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestValidateEndDate(t *testing.T) {
	f := setupRouter(t)

	t.Run("valid", func(t *testing.T) {
		w := doRequest(f.router, http.MethodGet, "/tasks/validate-end-date?startDate=2024-01-01&estimateDays=3&selectedEndDate=2024-01-05", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode(t, w)
		assert.Equal(t, true, got["isValid"])
		assert.Equal(t, "2024-01-04", got["calculatedEndDate"])
		assert.Equal(t, "2024-01-05", got["selectedEndDate"])
		assert.Equal(t, "Valid end date", got["message"])
	})

	t.Run("too early", func(t *testing.T) {
		w := doRequest(f.router, http.MethodGet, "/tasks/validate-end-date?startDate=2024-01-01&estimateDays=3&selectedEndDate=2024-01-02", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode(t, w)
		assert.Equal(t, false, got["isValid"])
		assert.Equal(t, "End date must be on or after 2024-01-04", got["message"])
	})

	t.Run("oversized estimate", func(t *testing.T) {
		w := doRequest(f.router, http.MethodGet, "/tasks/validate-end-date?startDate=2024-01-01&estimateDays=20000000&selectedEndDate=2024-01-05", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "exceeds")
	})

	t.Run("missing and bad parameters", func(t *testing.T) {
		for target, msg := range map[string]string{
			"/tasks/validate-end-date?estimateDays=3&selectedEndDate=2024-01-02":                     "startDate is required",
			"/tasks/validate-end-date?startDate=2024-01-01&estimateDays=x&selectedEndDate=2024-01-02": "invalid estimateDays, expected an integer",
			"/tasks/validate-end-date?startDate=2024-01-01&estimateDays=3&selectedEndDate=2024-13-02": "invalid selectedEndDate, expected YYYY-MM-DD",
		} {
			w := doRequest(f.router, http.MethodGet, target, nil)
			require.Equal(t, http.StatusBadRequest, w.Code, target)
			assert.Equal(t, msg, decode(t, w)["error"], target)
		}
	})
}

func TestTaskCRUD(t *testing.T) {
	f := setupRouter(t)

	w := doRequest(f.router, http.MethodPost, "/tasks", map[string]any{
		"title":            "Build API",
		"type":             "story",
		"startDate":        "2024-01-01",
		"originalEstimate": "P2.5D",
		"assigneeId":       "u-1",
		"labels":           []string{"backend"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "2024-01-04", created["dueDate"])
	assert.Equal(t, "P2.5D", created["originalEstimate"])
	assert.Equal(t, "To Do", created["status"])
	assert.Equal(t, "Medium", created["priority"])

	t.Run("get enriches the assignee", func(t *testing.T) {
		w := doRequest(f.router, http.MethodGet, "/tasks/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ada Lovelace", decode(t, w)["assigneeName"])
	})

	t.Run("update rejects an early due date", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPut, "/tasks/"+id, map[string]any{
			"title":            "Build API",
			"startDate":        "2024-01-01",
			"dueDate":          "2024-01-02",
			"originalEstimate": "2.5",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "End date must be on or after 2024-01-04")
	})

	t.Run("bad estimate is a 400", func(t *testing.T) {
		w := doRequest(f.router, http.MethodPost, "/tasks", map[string]any{"title": "x", "originalEstimate": "soon"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("estimate beyond the ceiling is a 400", func(t *testing.T) {
		for _, est := range []string{"P400000D", "P1e300D"} {
			w := doRequest(f.router, http.MethodPost, "/tasks", map[string]any{
				"title": "x", "type": "task", "startDate": "2024-01-01", "originalEstimate": est,
			})
			require.Equal(t, http.StatusBadRequest, w.Code, est)
			assert.Contains(t, decode(t, w)["error"], "up to 10000", est)
		}
	})

	t.Run("delete then 404", func(t *testing.T) {
		w := doRequest(f.router, http.MethodDelete, "/tasks/"+id, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(f.router, http.MethodGet, "/tasks/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = doRequest(f.router, http.MethodDelete, "/tasks/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskQueries(t *testing.T) {
	epic := "e-1"
	start := calendar.Date(2024, time.January, 8)
	f := setupRouter(t,
		domain.Task{ID: "a", Type: domain.TypeStory, Title: "A", EpicID: &epic, Status: "Done", Priority: "High",
			StartDate: &start, UpdatedAt: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		domain.Task{ID: "b", Type: domain.TypeSubTask, Title: "B", EpicID: &epic, ParentTaskID: func() *string { s := "a"; return &s }(),
			Status: "To Do", Priority: "Low", UpdatedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		domain.Task{ID: "c", Type: domain.TypeEpic, Title: "C", Status: "To Do", Priority: "Medium"},
	)

	count := func(target string) int {
		w := doRequest(f.router, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return len(got)
	}

	assert.Equal(t, 3, count("/tasks"))
	assert.Equal(t, 1, count("/tasks/epics"))
	assert.Equal(t, 1, count("/tasks/epic/e-1"))
	assert.Equal(t, 1, count("/tasks/a/subtasks"))
	assert.Equal(t, 1, count("/tasks/type/SUB_TASK"))
	assert.Equal(t, 2, count("/tasks/status/to%20do"))
	assert.Equal(t, 1, count("/tasks/priority/high"))
	assert.Equal(t, 2, count("/tasks/filter?types=story,%20sub_task"))
	assert.Equal(t, 1, count("/tasks/filter?startDate=2024-03-02&endDate=2024-03-31"))
	assert.Equal(t, 0, count("/tasks/filter?status=done&priority=low"))

	t.Run("filter rejects unparseable dates", func(t *testing.T) {
		w := doRequest(f.router, http.MethodGet, "/tasks/filter?startDate=yesterday", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid startDate, expected YYYY-MM-DD", decode(t, w)["error"])
	})

	t.Run("repository failure is a 500", func(t *testing.T) {
		f.repo.Err = errors.New("boom")
		defer func() { f.repo.Err = nil }()
		w := doRequest(f.router, http.MethodGet, "/tasks", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
