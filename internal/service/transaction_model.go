package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a transaction in the service layer. Anchors carry
// the recurrence fields; occurrences point back at their anchor.
type Transaction struct {
	ID                  uuid.UUID
	Type                TransactionType
	Amount              decimal.Decimal
	Description         string
	TransactionDate     time.Time
	CategoryID          uuid.UUID
	UserID              uuid.UUID
	IsRecurring         bool
	RecurrenceType      recurrence.Type
	RecurrenceEndDate   *time.Time
	NextOccurrence      *time.Time
	ParentTransactionID *uuid.UUID
	Version             int64
	CreatedAt           time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListFilter narrows ListTransactions. Nil fields match everything.
type TransactionListFilter struct {
	UserID   *uuid.UUID
	ParentID *uuid.UUID
}

func transactionTypeToStorage(t TransactionType) sqlconfig.TransactionType {
	return sqlconfig.TransactionType(t)
}

func transactionTypeFromStorage(t sqlconfig.TransactionType) TransactionType {
	return TransactionType(t)
}

func transactionFromStorage(row *sqlconfig.Transaction) Transaction {
	return Transaction{
		ID:                  row.ID,
		Type:                transactionTypeFromStorage(row.Type),
		Amount:              row.Amount,
		Description:         row.Description,
		TransactionDate:     row.TransactionDate,
		CategoryID:          row.CategoryID,
		UserID:              row.UserID,
		IsRecurring:         row.IsRecurring,
		RecurrenceType:      row.RecurrenceType,
		RecurrenceEndDate:   row.RecurrenceEndDate,
		NextOccurrence:      row.NextOccurrence,
		ParentTransactionID: row.ParentTransactionID,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt,
	}
}

func transactionsFromStorage(rows []*sqlconfig.Transaction) []Transaction {
	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}
	return converted
}
