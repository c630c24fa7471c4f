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
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/service"
)

type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) ListTransactions(ctx context.Context, filter service.TransactionListFilter, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, filter, cursor)
	txs, _ := args.Get(0).([]service.Transaction)
	next, _ := args.Get(1).(*service.TransactionCursor)
	return txs, next, args.Error(2)
}

func newListTestAPI(t *testing.T, svc transactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

func serviceTransaction(now time.Time) service.Transaction {
	return service.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		Type:            service.TransactionTypeExpense,
		UserID:          uuid.Must(uuid.NewV4()),
		CategoryID:      uuid.Must(uuid.NewV4()),
		Amount:          decimal.RequireFromString("10"),
		Description:     "Coffee",
		TransactionDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Version:         1,
		CreatedAt:       now,
	}
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_NoCursor(t *testing.T) {
	input := &ListTransactionsInput{
		Body: ListTransactionsBody{},
	}

	filter, cursor, err := parseListTransactionsInput(input)
	assert.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Nil(t, filter.UserID)
	assert.Nil(t, filter.ParentID)
}

func TestParseListTransactionsInput_WithFilter(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	parentID := uuid.Must(uuid.NewV4())

	filter, _, err := parseListTransactionsInput(&ListTransactionsInput{
		Body: ListTransactionsBody{UserID: userID.String(), ParentID: parentID.String()},
	})

	require.NoError(t, err)
	require.NotNil(t, filter.UserID)
	require.NotNil(t, filter.ParentID)
	assert.Equal(t, userID, *filter.UserID)
	assert.Equal(t, parentID, *filter.ParentID)
}

func TestParseListTransactionsInput_WithCursor(t *testing.T) {
	cursorMaxTime := "2025-06-15T08:00:00Z"

	input := &ListTransactionsInput{
		Body: ListTransactionsBody{
			Cursor: &ListTransactionsCursor{
				Position:        40,
				Limit:           10,
				MaxCreationTime: cursorMaxTime,
			},
		},
	}

	_, cursor, err := parseListTransactionsInput(input)
	assert.NoError(t, err)

	expectedMax, _ := time.Parse(time.RFC3339, cursorMaxTime)
	assert.NotNil(t, cursor)
	assert.Equal(t, 40, cursor.Position)
	assert.Equal(t, 10, cursor.Limit)
	assert.Equal(t, expectedMax, cursor.MaxCreationTime)
}

func TestParseListTransactionsInput_InvalidCursorMaxCreationTime(t *testing.T) {
	input := &ListTransactionsInput{
		Body: ListTransactionsBody{
			Cursor: &ListTransactionsCursor{
				Position:        0,
				Limit:           10,
				MaxCreationTime: "not-a-date",
			},
		},
	}

	_, _, err := parseListTransactionsInput(input)
	assert.Error(t, err)
}

func TestParseListTransactionsInput_InvalidUserID(t *testing.T) {
	_, _, err := parseListTransactionsInput(&ListTransactionsInput{
		Body: ListTransactionsBody{UserID: "nope"},
	})
	assert.Error(t, err)
}

// -- HTTP integration tests --

func TestHTTP_ListTransactions_SinglePage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tx := serviceTransaction(now)

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, service.TransactionListFilter{}, (*service.TransactionCursor)(nil)).
		Return([]service.Transaction{tx}, (*service.TransactionCursor)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	got := body.Transactions[0]
	assert.Equal(t, tx.ID.String(), got.ID)
	assert.Equal(t, "expense", got.Type)
	assert.Equal(t, "10.00", got.Amount)
	assert.Equal(t, "2025-06-01", got.TransactionDate)
	assert.False(t, got.IsRecurring)
	assert.Nil(t, got.ParentTransactionID)
	assert.Nil(t, body.NextCursor)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_RendersSeriesFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	anchor := serviceTransaction(now)
	anchor.IsRecurring = true
	anchor.RecurrenceType = recurrence.TypeMonthly
	anchor.NextOccurrence = &next
	child := serviceTransaction(now)
	child.ParentTransactionID = &anchor.ID

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f service.TransactionListFilter) bool {
		return f.UserID != nil && *f.UserID == anchor.UserID
	}), (*service.TransactionCursor)(nil)).
		Return([]service.Transaction{anchor, child}, (*service.TransactionCursor)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{UserID: anchor.UserID.String()})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 2)
	assert.True(t, body.Transactions[0].IsRecurring)
	assert.Equal(t, "monthly", body.Transactions[0].RecurrenceType)
	require.NotNil(t, body.Transactions[0].NextOccurrence)
	assert.Equal(t, "2025-07-01", *body.Transactions[0].NextOccurrence)
	require.NotNil(t, body.Transactions[1].ParentTransactionID)
	assert.Equal(t, anchor.ID.String(), *body.Transactions[1].ParentTransactionID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_MultiplePages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svcDefaultLimit := 20

	txs := []service.Transaction{serviceTransaction(now), serviceTransaction(now)}

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, service.TransactionListFilter{}, (*service.TransactionCursor)(nil)).
		Return(txs, &service.TransactionCursor{
			Position:        svcDefaultLimit,
			Limit:           svcDefaultLimit,
			MaxCreationTime: now,
		}, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 2)
	assert.NotNil(t, body.NextCursor)
	assert.Equal(t, svcDefaultLimit, body.NextCursor.Position)
	assert.Equal(t, svcDefaultLimit, body.NextCursor.Limit)
	assert.Equal(t, now.Format(time.RFC3339), body.NextCursor.MaxCreationTime)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_WithCursor(t *testing.T) {
	maxTime := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, mock.MatchedBy(func(c *service.TransactionCursor) bool {
		return c != nil &&
			c.Position == 40 &&
			c.Limit == 10 &&
			c.MaxCreationTime.Equal(maxTime)
	})).Return(([]service.Transaction)(nil), (*service.TransactionCursor)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{
		Cursor: &ListTransactionsCursor{
			Position:        40,
			Limit:           10,
			MaxCreationTime: maxTime.Format(time.RFC3339),
		},
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Transactions)
	assert.Nil(t, body.NextCursor)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, mock.Anything).
		Return(([]service.Transaction)(nil), (*service.TransactionCursor)(nil), errors.New("database unavailable"))

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_InvalidCursorMaxCreationTime(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{
		Cursor: &ListTransactionsCursor{
			Position:        0,
			Limit:           10,
			MaxCreationTime: "not-a-date",
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}

func TestHTTP_ListTransactions_InvalidUserID(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", ListTransactionsBody{UserID: "not-a-uuid"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}
