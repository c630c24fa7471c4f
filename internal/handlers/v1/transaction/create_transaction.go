package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/handlers/httperr"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Type            string `json:"type" enum:"income,expense" doc:"Direction of the transaction"`
	UserID          string `json:"userID" format:"uuid" doc:"Owner UUID"`
	CategoryID      string `json:"categoryID" format:"uuid" doc:"Category UUID"`
	Amount          string `json:"amount" doc:"Positive decimal amount"`
	Description     string `json:"description" minLength:"1" maxLength:"255" doc:"Free text description"`
	TransactionDate string `json:"transactionDate,omitempty" format:"date" doc:"Calendar date YYYY-MM-DD, defaults to today"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for a created transaction.
type CreateTransactionResponse struct {
	ID string `json:"id" doc:"UUID of the created transaction"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, transaction service.Transaction) (uuid.UUID, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
	now                func() time.Time
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc, now: time.Now}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a new one-off transaction.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses the fields Huma's schema validation
// cannot. A zero date means the caller left it out.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.Transaction, error) {
	userID, err := uuid.FromString(input.Body.UserID)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}
	categoryID, err := uuid.FromString(input.Body.CategoryID)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	var transactionDate time.Time
	if input.Body.TransactionDate != "" {
		transactionDate, err = time.Parse(time.DateOnly, input.Body.TransactionDate)
		if err != nil {
			return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
	}

	return service.Transaction{
		Type:            service.TransactionType(input.Body.Type),
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          amount,
		Description:     input.Body.Description,
		TransactionDate: transactionDate,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	transaction, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	if transaction.TransactionDate.IsZero() {
		transaction.TransactionDate = h.now()
	}

	id, err := h.TransactionService.CreateTransaction(ctx, transaction)
	if err != nil {
		return nil, httperr.FromService(err, "failed to create transaction")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", id.String())
	}

	return &CreateTransactionOutput{Body: CreateTransactionResponse{ID: id.String()}}, nil
}
