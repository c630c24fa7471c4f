package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// CancelSeries stops a series. Existing occurrences are kept. Cancelling a
// series that is already stopped succeeds without writing.
type CancelSeries struct {
	AnchorID uuid.UUID

	Result *sqlconfig.Transaction
	IAction
}

func (c *CancelSeries) Perform(ctx context.Context, writer *storage.Writer) error {
	anchor, err := writer.Transactions.FindByID(ctx, c.AnchorID)
	if err != nil {
		return err
	}
	if !anchor.IsAnchor() {
		return ErrNotAnchor
	}

	if !anchor.IsRecurring && anchor.NextOccurrence == nil {
		c.Result = anchor
		return nil
	}

	anchor.IsRecurring = false
	anchor.NextOccurrence = nil
	saved, err := writer.Transactions.Save(ctx, anchor)
	if err != nil {
		return err
	}

	c.Result = saved
	return nil
}
