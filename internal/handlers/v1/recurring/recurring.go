// Package recurring exposes recurring series over the v1 API.
package recurring

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/service"
)

// ModeBody selects how a series is bounded.
type ModeBody struct {
	Kind    string `json:"kind" enum:"date-range,instalment-count,infinite" doc:"How the series ends"`
	EndDate string `json:"endDate,omitempty" format:"date" doc:"Inclusive last day, date-range only"`
	Eager   bool   `json:"eager,omitempty" doc:"Create every date-range occurrence up front, one per month"`
	Count   int    `json:"count,omitempty" minimum:"0" doc:"Number of instalments, instalment-count only"`
}

// SeriesBody is the response body for endpoints that return a whole series.
type SeriesBody struct {
	Transactions []transaction.Transaction `json:"transactions" doc:"Anchor first, then occurrences by date"`
}

// SeriesOutput is the Huma output for a whole series.
type SeriesOutput struct {
	Body SeriesBody
}

// AnchorOutput is the Huma output for a single anchor.
type AnchorOutput struct {
	Body transaction.Transaction
}

// AnchorPath identifies a series by its anchor.
type AnchorPath struct {
	ID string `path:"id" format:"uuid" doc:"Anchor transaction UUID"`
}

func (p AnchorPath) anchorID() (uuid.UUID, error) {
	id, err := uuid.FromString(p.ID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	return id, nil
}

// parseMode builds a recurrence.Mode. Bounds are checked by the service.
func parseMode(body ModeBody) (recurrence.Mode, error) {
	switch body.Kind {
	case "date-range":
		mode := recurrence.DateRange{Eager: body.Eager}
		if body.EndDate != "" {
			end, err := time.Parse(time.DateOnly, body.EndDate)
			if err != nil {
				return nil, huma.NewError(http.StatusBadRequest, "invalid mode.endDate", err)
			}
			mode.End = end
		}
		return mode, nil
	case "instalment-count":
		return recurrence.InstalmentCount{Count: body.Count}, nil
	case "infinite":
		return recurrence.Infinite{}, nil
	}
	return nil, huma.NewError(http.StatusBadRequest, "unknown mode kind "+body.Kind)
}

func seriesOutput(series []service.Transaction) *SeriesOutput {
	return &SeriesOutput{Body: SeriesBody{Transactions: transaction.FromServiceList(series)}}
}

func anchorOutput(anchor *service.Transaction) *AnchorOutput {
	return &AnchorOutput{Body: transaction.FromService(*anchor)}
}
