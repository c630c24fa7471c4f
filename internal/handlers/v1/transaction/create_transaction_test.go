package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/budget-recurring/internal/service"
)

// mockTransactionService is a mock for transactionCreator and transactionDeleter.
type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, transaction service.Transaction) (uuid.UUID, error) {
	args := m.Called(ctx, transaction)
	if args.Get(0) == nil {
		return uuid.Nil, args.Error(1)
	}
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestAPI registers the handler against a humatest API and returns it.
func newTestAPI(t *testing.T, svc transactionCreator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc).Register(api)
	return api
}

func validBody() CreateTransactionBody {
	return CreateTransactionBody{
		Type:        "expense",
		UserID:      uuid.Must(uuid.NewV4()).String(),
		CategoryID:  uuid.Must(uuid.NewV4()).String(),
		Amount:      "12.50",
		Description: "Coffee",
	}
}

// -- parseCreateTransactionInput unit tests --

func TestParseCreateTransactionInput_ValidInput(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	categoryID := uuid.Must(uuid.NewV4())

	input := &CreateTransactionInput{
		Body: CreateTransactionBody{
			Type:            "income",
			UserID:          userID.String(),
			CategoryID:      categoryID.String(),
			Amount:          "123.45",
			Description:     "Salary",
			TransactionDate: "2025-01-15",
		},
	}

	tx, err := parseCreateTransactionInput(input)
	assert.NoError(t, err)
	assert.Equal(t, service.TransactionTypeIncome, tx.Type)
	assert.Equal(t, userID, tx.UserID)
	assert.Equal(t, categoryID, tx.CategoryID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, "Salary", tx.Description)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), tx.TransactionDate)
}

func TestParseCreateTransactionInput_ValidInputWithoutDate(t *testing.T) {
	input := &CreateTransactionInput{Body: validBody()}

	tx, err := parseCreateTransactionInput(input)
	assert.NoError(t, err)
	assert.True(t, tx.TransactionDate.IsZero())
}

func TestParseCreateTransactionInput_InvalidAmount(t *testing.T) {
	body := validBody()
	body.Amount = "twelve"

	_, err := parseCreateTransactionInput(&CreateTransactionInput{Body: body})
	assert.Error(t, err)
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	body := validBody()
	txID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx service.Transaction) bool {
		return tx.UserID.String() == body.UserID &&
			tx.CategoryID.String() == body.CategoryID &&
			tx.Type == service.TransactionTypeExpense &&
			tx.Amount.Equal(decimal.RequireFromString("12.50")) &&
			tx.Description == "Coffee" &&
			!tx.TransactionDate.IsZero()
	})).Return(txID, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusCreated, resp.Code)
	var out CreateTransactionResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, txID.String(), out.ID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_WithDate_Success(t *testing.T) {
	body := validBody()
	body.TransactionDate = "2025-06-01"

	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx service.Transaction) bool {
		return tx.TransactionDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	})).Return(uuid.Must(uuid.NewV4()), nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingRequiredFields(t *testing.T) {
	mockSvc := new(mockTransactionService)

	// Huma schema validation rejects the request before the handler runs.
	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", map[string]any{
		"userID": uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateTransactionBody)
	}{
		{"empty description", func(b *CreateTransactionBody) { b.Description = "" }},
		{"unknown type", func(b *CreateTransactionBody) { b.Type = "transfer" }},
		{"invalid userID", func(b *CreateTransactionBody) { b.UserID = "not-a-uuid" }},
		{"invalid categoryID", func(b *CreateTransactionBody) { b.CategoryID = "not-a-uuid" }},
		{"invalid transactionDate", func(b *CreateTransactionBody) { b.TransactionDate = "01/06/2025" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockTransactionService)
			body := validBody()
			tt.mutate(&body)

			resp := newTestAPI(t, mockSvc).Post("/v1/transaction", body)

			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
			mockSvc.AssertNotCalled(t, "CreateTransaction")
		})
	}
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionService)
	body := validBody()
	body.Amount = "not-a-decimal"

	// Amount has no Huma format tag, so parseCreateTransactionInput returns 400.
	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ValidationError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(uuid.Nil, &service.ValidationError{Field: "amount", Message: "must be greater than zero"})
	body := validBody()
	body.Amount = "-5.00"

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "body.amount")
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(uuid.Nil, errors.New("database unavailable"))

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", validBody())

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
