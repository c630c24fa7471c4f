package status

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/scheduler"
)

type sweepReporter interface {
	LastSweep() (scheduler.SweepReport, bool)
}

type Handler struct {
	Scheduler sweepReporter
}

func NewHandler(reporter sweepReporter) Handler {
	return Handler{Scheduler: reporter}
}

type lastSweep struct {
	StartedAt  string `json:"startedAt"`
	DurationMs int64  `json:"durationMs"`
	Due        int    `json:"due"`
	Generated  int    `json:"generated"`
	Terminated int    `json:"terminated"`
	Failed     int    `json:"failed"`
}

type response struct {
	Status    string     `json:"status"`
	LastSweep *lastSweep `json:"lastSweep,omitempty"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	resp := response{Status: "ok"}
	if h.Scheduler != nil {
		if report, ok := h.Scheduler.LastSweep(); ok {
			resp.LastSweep = &lastSweep{
				StartedAt:  report.StartedAt.Format(time.RFC3339),
				DurationMs: report.Duration.Milliseconds(),
				Due:        report.Due,
				Generated:  report.Generated,
				Terminated: report.Terminated,
				Failed:     report.Failed,
			}
			logData.AddData("lastSweepFailed", report.Failed)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp)
}
