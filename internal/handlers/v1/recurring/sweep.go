package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-recurring/internal/scheduler"
)

// SweepInput is the Huma input for a manual sweep.
type SweepInput struct {
	Date string `query:"date" format:"date" doc:"Sweep as of this day, defaults to today"`
}

// SweepReportBody is the summary of one sweep.
type SweepReportBody struct {
	StartedAt  string `json:"startedAt" doc:"RFC3339 start time"`
	DurationMs int64  `json:"durationMs" doc:"Wall time of the sweep"`
	Due        int    `json:"due" doc:"Anchors due at the start of the sweep"`
	Generated  int    `json:"generated" doc:"Occurrences created"`
	Terminated int    `json:"terminated" doc:"Series that reached their end"`
	Failed     int    `json:"failed" doc:"Anchors that could not be advanced"`
}

// SweepOutput is the Huma output for a manual sweep.
type SweepOutput struct {
	Body SweepReportBody
}

type sweeper interface {
	Run(ctx context.Context, now time.Time) scheduler.SweepReport
}

// SweepHandler handles POST /v1/recurring/sweep.
type SweepHandler struct {
	Scheduler sweeper
	now       func() time.Time
}

func NewSweepHandler(s sweeper) *SweepHandler {
	return &SweepHandler{Scheduler: s, now: time.Now}
}

func (h *SweepHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sweep-recurring-series",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/sweep",
		Summary:     "Run a sweep",
		Description: "Generates every occurrence due on or before the given day. Repeating a sweep for the same day creates nothing.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

// SweepReportFromScheduler converts a scheduler report for the API.
func SweepReportFromScheduler(r scheduler.SweepReport) SweepReportBody {
	return SweepReportBody{
		StartedAt:  r.StartedAt.Format(time.RFC3339),
		DurationMs: r.Duration.Milliseconds(),
		Due:        r.Due,
		Generated:  r.Generated,
		Terminated: r.Terminated,
		Failed:     r.Failed,
	}
}

func (h *SweepHandler) handle(ctx context.Context, input *SweepInput) (*SweepOutput, error) {
	now := h.now()
	if input.Date != "" {
		day, err := time.Parse(time.DateOnly, input.Date)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		now = day
	}

	report := h.Scheduler.Run(ctx, now)
	return &SweepOutput{Body: SweepReportFromScheduler(report)}, nil
}
