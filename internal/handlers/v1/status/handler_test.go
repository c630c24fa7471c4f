package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/scheduler"
)

type fakeReporter struct {
	report *scheduler.SweepReport
}

func (f fakeReporter) LastSweep() (scheduler.SweepReport, bool) {
	if f.report == nil {
		return scheduler.SweepReport{}, false
	}
	return *f.report, true
}

func createTestLogData() *logging.LogData {
	logger := logging.SetupLogging("error")
	return logging.NewLogData(logger)
}

func TestHandler_GoodMethod(t *testing.T) {
	statusHandler := NewHandler(fakeReporter{})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.NoError(t, err)

	res := w.Result()
	assert.Equal(t, 200, res.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "lastSweep")
}

func TestHandler_IncludesLastSweep(t *testing.T) {
	started := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	statusHandler := NewHandler(fakeReporter{report: &scheduler.SweepReport{
		StartedAt: started,
		Duration:  2 * time.Second,
		Due:       2,
		Generated: 2,
	}})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	require.NoError(t, statusHandler.Handler(w, req, createTestLogData()))

	var body response
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	require.NotNil(t, body.LastSweep)
	assert.Equal(t, "2025-03-01T00:00:00Z", body.LastSweep.StartedAt)
	assert.Equal(t, int64(2000), body.LastSweep.DurationMs)
	assert.Equal(t, 2, body.LastSweep.Generated)
}

func TestHandler_BadMethod(t *testing.T) {
	statusHandler := NewHandler(fakeReporter{})
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.Error(t, err)

	res := w.Result()
	assert.Equal(t, 400, res.StatusCode)
}
