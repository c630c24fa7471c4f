package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/budget-recurring/internal/storage"
)

var ErrNotAnchor = errors.New("transaction is not the anchor of a recurring series")

// IAction is a unit of work run inside one storage transaction. Returning
// an error rolls the transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
