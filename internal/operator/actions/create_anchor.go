package actions

import (
	"context"

	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// CreateAnchor persists the anchor of an open-ended series. The scheduler
// materializes its occurrences from Anchor.NextOccurrence onwards.
type CreateAnchor struct {
	Anchor *sqlconfig.TransactionCreate

	Result *sqlconfig.Transaction
	IAction
}

func (c *CreateAnchor) Perform(ctx context.Context, writer *storage.Writer) error {
	anchor, err := writer.Transactions.Insert(ctx, c.Anchor)
	if err != nil {
		return err
	}

	c.Result = anchor
	return nil
}
