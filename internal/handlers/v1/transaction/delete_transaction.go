package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
)

// DeleteTransactionInput is the Huma input for deleting a transaction.
type DeleteTransactionInput struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

// DeleteTransactionOutput is empty; success is reported as 204.
type DeleteTransactionOutput struct{}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction/{id}",
		Summary:       "Delete transaction",
		Description:   "Deletes a transaction. Deleting a generated occurrence leaves its series untouched; deleting an anchor keeps its occurrences without a parent.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	if err := h.TransactionService.DeleteTransaction(ctx, id); err != nil {
		return nil, httperr.FromService(err, "failed to delete transaction")
	}
	return &DeleteTransactionOutput{}, nil
}
