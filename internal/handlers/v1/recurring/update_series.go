package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/service"
)

// UpdateSeriesBody is a partial edit. Absent fields are left unchanged.
type UpdateSeriesBody struct {
	Amount            *string `json:"amount,omitempty" doc:"New positive decimal amount"`
	Description       *string `json:"description,omitempty" minLength:"1" maxLength:"255" doc:"New description"`
	RecurrenceType    *string `json:"recurrenceType,omitempty" enum:"daily,weekly,monthly,yearly" doc:"New cadence, applied from the next occurrence"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty" format:"date" doc:"New inclusive last day"`
	ClearEndDate      bool    `json:"clearEndDate,omitempty" doc:"Remove the end date so the series runs until cancelled"`
}

// UpdateSeriesInput is the Huma input for updating a series.
type UpdateSeriesInput struct {
	ID   string `path:"id" format:"uuid" doc:"Anchor transaction UUID"`
	Body UpdateSeriesBody
}

type seriesUpdater interface {
	UpdateRecurringSeries(ctx context.Context, anchorID uuid.UUID, upd service.SeriesUpdate) (*service.Transaction, error)
}

// UpdateSeriesHandler handles PATCH /v1/recurring/{id}.
type UpdateSeriesHandler struct {
	RecurringService seriesUpdater
}

func NewUpdateSeriesHandler(svc seriesUpdater) *UpdateSeriesHandler {
	return &UpdateSeriesHandler{RecurringService: svc}
}

func (h *UpdateSeriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-recurring-series",
		Method:      http.MethodPatch,
		Path:        "/v1/recurring/{id}",
		Summary:     "Update recurring series",
		Description: "Edits the anchor of a series. Occurrences already created are not changed.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func parseUpdateSeriesInput(body UpdateSeriesBody) (service.SeriesUpdate, error) {
	var upd service.SeriesUpdate

	if body.Amount != nil {
		amount, err := decimal.NewFromString(*body.Amount)
		if err != nil {
			return upd, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		upd.Amount = omit.From(amount)
	}
	if body.Description != nil {
		upd.Description = omit.From(*body.Description)
	}
	if body.RecurrenceType != nil {
		upd.RecurrenceType = omit.From(recurrence.Type(*body.RecurrenceType))
	}

	switch {
	case body.ClearEndDate && body.RecurrenceEndDate != nil:
		return upd, huma.NewError(http.StatusBadRequest, "recurrenceEndDate and clearEndDate are mutually exclusive")
	case body.ClearEndDate:
		upd.RecurrenceEndDate = omitnull.FromPtr[time.Time](nil)
	case body.RecurrenceEndDate != nil:
		end, err := time.Parse(time.DateOnly, *body.RecurrenceEndDate)
		if err != nil {
			return upd, huma.NewError(http.StatusBadRequest, "invalid recurrenceEndDate", err)
		}
		upd.RecurrenceEndDate = omitnull.From(end)
	}
	return upd, nil
}

func (h *UpdateSeriesHandler) handle(ctx context.Context, input *UpdateSeriesInput) (*AnchorOutput, error) {
	id, err := AnchorPath{ID: input.ID}.anchorID()
	if err != nil {
		return nil, err
	}
	upd, err := parseUpdateSeriesInput(input.Body)
	if err != nil {
		return nil, err
	}

	anchor, err := h.RecurringService.UpdateRecurringSeries(ctx, id, upd)
	if err != nil {
		return nil, httperr.FromService(err, "failed to update recurring series")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("anchorID", id.String())
		logData.AddData("version", anchor.Version)
	}
	return anchorOutput(anchor), nil
}
