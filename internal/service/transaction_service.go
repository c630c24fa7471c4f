package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage   *storage.Storage
	processor ActionProcessor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, processor ActionProcessor) *TransactionService {
	return &TransactionService{storage: store, processor: processor}
}

// CreateTransaction creates a new non-recurring transaction and returns its ID.
func (s *TransactionService) CreateTransaction(ctx context.Context, transaction Transaction) (uuid.UUID, error) {
	if err := validateTransaction(transaction); err != nil {
		return uuid.Nil, err
	}

	action := &actions.CreateTransaction{
		Create: &sqlconfig.TransactionCreate{
			Type:            transactionTypeToStorage(transaction.Type),
			Amount:          transaction.Amount,
			Description:     transaction.Description,
			TransactionDate: recurrence.Day(transaction.TransactionDate),
			CategoryID:      transaction.CategoryID,
			UserID:          transaction.UserID,
		},
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}

	return action.Result.ID, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, listFilter TransactionListFilter, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	filter := &sqlconfig.TransactionFilter{
		UserID:          listFilter.UserID,
		ParentID:        listFilter.ParentID,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	return transactionsFromStorage(rows), nextCursor, nil
}

// DeleteTransaction removes a transaction. Removing an occurrence never
// changes its anchor; removing an anchor leaves its occurrences in place
// without a parent.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return translateError(s.processor.Process(ctx, &actions.DeleteTransaction{ID: id}))
}
