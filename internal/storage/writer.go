package storage

import (
	"context"

	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// committer is satisfied by bob.Tx and memory.Tx.
type committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx           committer
	Transactions sqlconfig.ITransactionTable
}

func NewWriter(tx committer, transactions sqlconfig.ITransactionTable) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: transactions,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
