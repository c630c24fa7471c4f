package recurring

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
	"github.com/carson-networks/budget-recurring/internal/service"
)

type seriesCanceller interface {
	CancelRecurrence(ctx context.Context, anchorID uuid.UUID) (*service.Transaction, error)
}

// CancelSeriesHandler handles POST /v1/recurring/{id}/cancel.
type CancelSeriesHandler struct {
	RecurringService seriesCanceller
}

func NewCancelSeriesHandler(svc seriesCanceller) *CancelSeriesHandler {
	return &CancelSeriesHandler{RecurringService: svc}
}

func (h *CancelSeriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "cancel-recurring-series",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/{id}/cancel",
		Summary:     "Cancel recurring series",
		Description: "Stops future occurrences. Existing occurrences are kept. Cancelling twice is a no-op.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *CancelSeriesHandler) handle(ctx context.Context, input *AnchorPath) (*AnchorOutput, error) {
	id, err := input.anchorID()
	if err != nil {
		return nil, err
	}

	anchor, err := h.RecurringService.CancelRecurrence(ctx, id)
	if err != nil {
		return nil, httperr.FromService(err, "failed to cancel recurring series")
	}
	return anchorOutput(anchor), nil
}
