package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/service"
)

// CreateSeriesBody is the request body for creating a recurring series.
type CreateSeriesBody struct {
	Type           string   `json:"type" enum:"income,expense" doc:"Direction of every occurrence"`
	UserID         string   `json:"userID" format:"uuid" doc:"Owner UUID"`
	CategoryID     string   `json:"categoryID" format:"uuid" doc:"Category UUID"`
	Amount         string   `json:"amount" doc:"Positive decimal amount"`
	Description    string   `json:"description" minLength:"1" maxLength:"255" doc:"Free text description"`
	Date           string   `json:"date" format:"date" doc:"First occurrence, YYYY-MM-DD"`
	RecurrenceType string   `json:"recurrenceType" enum:"daily,weekly,monthly,yearly" doc:"Cadence of the series"`
	Mode           ModeBody `json:"mode" doc:"How the series is bounded"`
}

// CreateSeriesInput is the Huma input for creating a recurring series.
type CreateSeriesInput struct {
	Body CreateSeriesBody
}

type seriesCreator interface {
	CreateRecurringSeries(ctx context.Context, in service.SeriesInput) ([]service.Transaction, error)
}

// CreateSeriesHandler handles POST /v1/recurring.
type CreateSeriesHandler struct {
	RecurringService seriesCreator
}

// NewCreateSeriesHandler creates a new CreateSeriesHandler.
func NewCreateSeriesHandler(svc seriesCreator) *CreateSeriesHandler {
	return &CreateSeriesHandler{RecurringService: svc}
}

// Register registers the create series endpoint with the Huma API.
func (h *CreateSeriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-recurring-series",
		Method:        http.MethodPost,
		Path:          "/v1/recurring",
		Summary:       "Create recurring series",
		Description:   "Creates a series anchor. Bounded series are materialized immediately; open-ended series are advanced by the scheduler.",
		Tags:          []string{"Recurring"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateSeriesInput(input *CreateSeriesInput) (service.SeriesInput, error) {
	userID, err := uuid.FromString(input.Body.UserID)
	if err != nil {
		return service.SeriesInput{}, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}
	categoryID, err := uuid.FromString(input.Body.CategoryID)
	if err != nil {
		return service.SeriesInput{}, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.SeriesInput{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	date, err := time.Parse(time.DateOnly, input.Body.Date)
	if err != nil {
		return service.SeriesInput{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}
	mode, err := parseMode(input.Body.Mode)
	if err != nil {
		return service.SeriesInput{}, err
	}

	return service.SeriesInput{
		Type:           service.TransactionType(input.Body.Type),
		Amount:         amount,
		Description:    input.Body.Description,
		CategoryID:     categoryID,
		UserID:         userID,
		Date:           date,
		RecurrenceType: recurrence.Type(input.Body.RecurrenceType),
		Mode:           mode,
	}, nil
}

func (h *CreateSeriesHandler) handle(ctx context.Context, input *CreateSeriesInput) (*SeriesOutput, error) {
	in, err := parseCreateSeriesInput(input)
	if err != nil {
		return nil, err
	}

	series, err := h.RecurringService.CreateRecurringSeries(ctx, in)
	if err != nil {
		return nil, httperr.FromService(err, "failed to create recurring series")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("anchorID", series[0].ID.String())
		logData.AddData("mode", in.Mode.Name())
		logData.AddData("createdCount", len(series))
	}
	return seriesOutput(series), nil
}
