package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
)

var _ ITransactionTable = (*TransactionsTable)(nil)

const transactionsTable = "transactions"

var transactionColumns = []any{
	"id", "type", "amount", "description", "transaction_date",
	"category_id", "user_id", "is_recurring", "recurrence_type",
	"recurrence_end_date", "next_occurrence", "parent_transaction_id",
	"version", "created_at",
}

type transactionRow struct {
	ID                  uuid.UUID       `db:"id"`
	Type                string          `db:"type"`
	Amount              decimal.Decimal `db:"amount"`
	Description         string          `db:"description"`
	TransactionDate     time.Time       `db:"transaction_date"`
	CategoryID          uuid.UUID       `db:"category_id"`
	UserID              uuid.UUID       `db:"user_id"`
	IsRecurring         bool            `db:"is_recurring"`
	RecurrenceType      recurrence.Type `db:"recurrence_type"`
	RecurrenceEndDate   *time.Time      `db:"recurrence_end_date"`
	NextOccurrence      *time.Time      `db:"next_occurrence"`
	ParentTransactionID *uuid.UUID      `db:"parent_transaction_id"`
	Version             int64           `db:"version"`
	CreatedAt           time.Time       `db:"created_at"`
}

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(db *sql.DB) *TransactionsTable {
	return &TransactionsTable{exec: bob.NewDB(db)}
}

// NewTransactionsTableWithExecutor binds the table to an executor such as a bob.Tx.
func NewTransactionsTableWithExecutor(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

// Insert creates a new transaction and returns the stored record.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	q := psql.Insert(
		im.Into(transactionsTable,
			"id", "type", "amount", "description", "transaction_date",
			"category_id", "user_id", "is_recurring", "recurrence_type",
			"recurrence_end_date", "next_occurrence", "parent_transaction_id",
		),
		im.Values(psql.Arg(
			id,
			string(create.Type),
			create.Amount,
			create.Description,
			recurrence.Day(create.TransactionDate),
			create.CategoryID,
			create.UserID,
			create.IsRecurring,
			create.RecurrenceType,
			dayPtr(create.RecurrenceEndDate),
			dayPtr(create.NextOccurrence),
			create.ParentTransactionID,
		)),
		im.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

// List returns transactions matching the filter. Nil filter returns all.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
	}
	order := OrderNewestFirst
	if filter != nil {
		if filter.UserID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if filter.ParentID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("parent_transaction_id").EQ(psql.Arg(*filter.ParentID))))
		}
		if filter.IsRecurring != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("is_recurring").EQ(psql.Arg(*filter.IsRecurring))))
		}
		if filter.DueOnOrBefore != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("next_occurrence").LTE(psql.Arg(recurrence.Day(*filter.DueOnOrBefore)))))
		}
		if filter.MaxCreationTime != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
		order = filter.Order
	}

	switch order {
	case OrderByDate:
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("transaction_date")).Asc(),
			sm.OrderBy(psql.Quote("created_at")).Asc(),
			sm.OrderBy(psql.Quote("id")).Asc(),
		)
	case OrderByNextOccurrence:
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("next_occurrence")).Asc(),
			sm.OrderBy(psql.Quote("id")).Asc(),
		)
	default:
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("created_at")).Desc(),
			sm.OrderBy(psql.Quote("id")).Desc(),
		)
	}

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}

// Save updates the record if the stored version still matches txn.Version.
func (t *TransactionsTable) Save(ctx context.Context, txn *Transaction) (*Transaction, error) {
	q := psql.Update(
		um.Table(transactionsTable),
		um.SetCol("type").ToArg(string(txn.Type)),
		um.SetCol("amount").ToArg(txn.Amount),
		um.SetCol("description").ToArg(txn.Description),
		um.SetCol("transaction_date").ToArg(recurrence.Day(txn.TransactionDate)),
		um.SetCol("category_id").ToArg(txn.CategoryID),
		um.SetCol("user_id").ToArg(txn.UserID),
		um.SetCol("is_recurring").ToArg(txn.IsRecurring),
		um.SetCol("recurrence_type").ToArg(txn.RecurrenceType),
		um.SetCol("recurrence_end_date").ToArg(dayPtr(txn.RecurrenceEndDate)),
		um.SetCol("next_occurrence").ToArg(dayPtr(txn.NextOccurrence)),
		um.SetCol("parent_transaction_id").ToArg(txn.ParentTransactionID),
		um.SetCol("version").ToArg(txn.Version+1),
		um.Where(psql.Quote("id").EQ(psql.Arg(txn.ID))),
		um.Where(psql.Quote("version").EQ(psql.Arg(txn.Version))),
		um.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		if _, findErr := t.FindByID(ctx, txn.ID); findErr != nil {
			return nil, findErr
		}
		return nil, ErrStaleRecord
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

// Delete removes a transaction. The foreign key clears parent_transaction_id
// on any occurrences of a deleted anchor.
func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(transactionsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Returning("id"),
	)
	_, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[uuid.UUID])
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	day := recurrence.Day(*t)
	return &day
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:                  row.ID,
		Type:                TransactionType(row.Type),
		Amount:              row.Amount,
		Description:         row.Description,
		TransactionDate:     recurrence.Day(row.TransactionDate),
		CategoryID:          row.CategoryID,
		UserID:              row.UserID,
		IsRecurring:         row.IsRecurring,
		RecurrenceType:      row.RecurrenceType,
		RecurrenceEndDate:   dayPtr(row.RecurrenceEndDate),
		NextOccurrence:      dayPtr(row.NextOccurrence),
		ParentTransactionID: row.ParentTransactionID,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt,
	}
}
