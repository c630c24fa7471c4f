package recurring

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
	"github.com/carson-networks/budget-recurring/internal/service"
)

type seriesGetter interface {
	GetSeries(ctx context.Context, anchorID uuid.UUID) ([]service.Transaction, error)
}

// GetSeriesHandler handles GET /v1/recurring/{id}.
type GetSeriesHandler struct {
	RecurringService seriesGetter
}

func NewGetSeriesHandler(svc seriesGetter) *GetSeriesHandler {
	return &GetSeriesHandler{RecurringService: svc}
}

func (h *GetSeriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recurring-series",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/{id}",
		Summary:     "Get recurring series",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *GetSeriesHandler) handle(ctx context.Context, input *AnchorPath) (*SeriesOutput, error) {
	id, err := input.anchorID()
	if err != nil {
		return nil, err
	}

	series, err := h.RecurringService.GetSeries(ctx, id)
	if err != nil {
		return nil, httperr.FromService(err, "failed to load recurring series")
	}
	return seriesOutput(series), nil
}
