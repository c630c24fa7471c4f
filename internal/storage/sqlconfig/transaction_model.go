package sqlconfig

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrStaleRecord = errors.New("transaction was modified concurrently")
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a transaction record. Dates are calendar days
// expressed as UTC midnight.
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

// IsAnchor reports whether the record heads a series, active or not.
func (t *Transaction) IsAnchor() bool {
	return t.ParentTransactionID == nil && t.RecurrenceType != ""
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
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
}

// TransactionOrder selects the sort order of List.
type TransactionOrder int

const (
	// OrderNewestFirst sorts by created_at then id, descending.
	OrderNewestFirst TransactionOrder = iota
	// OrderByDate sorts by transaction_date then created_at, ascending.
	OrderByDate
	// OrderByNextOccurrence sorts by next_occurrence then id, ascending.
	OrderByNextOccurrence
)

// TransactionFilter specifies filters for listing transactions. All set
// fields must match.
type TransactionFilter struct {
	UserID      *uuid.UUID
	ParentID    *uuid.UUID
	IsRecurring *bool
	// DueOnOrBefore matches records whose next_occurrence is non-null and
	// not after the given day.
	DueOnOrBefore   *time.Time
	MaxCreationTime *time.Time
	Limit           int
	Offset          int
	Order           TransactionOrder
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --inpackage --with-expecter --filename mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	// List returns up to Limit+1 rows when Limit is set so callers can
	// detect a following page.
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	// Save writes every mutable field of txn if its Version still matches
	// the stored one and returns the stored record with the bumped version.
	Save(ctx context.Context, txn *Transaction) (*Transaction, error)
	// Delete removes a record. Records whose parent is removed keep
	// existing with ParentTransactionID cleared.
	Delete(ctx context.Context, id uuid.UUID) error
}
