package actions

import (
	"context"

	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// CreateTransaction inserts one plain, non-recurring record.
type CreateTransaction struct {
	Create *sqlconfig.TransactionCreate

	Result *sqlconfig.Transaction
	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Transactions.Insert(ctx, t.Create)
	if err != nil {
		return err
	}

	t.Result = created
	return nil
}
