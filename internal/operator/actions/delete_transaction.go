package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/storage"
)

// DeleteTransaction removes one record. Deleting an occurrence leaves its
// anchor untouched; deleting an anchor detaches its occurrences.
type DeleteTransaction struct {
	ID uuid.UUID
	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Transactions.Delete(ctx, d.ID)
}
