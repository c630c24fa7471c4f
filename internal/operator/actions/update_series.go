package actions

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// UpdateSeries edits an anchor in place. Unset fields are left as stored.
//
// A new cadence moves a live pointer to Next(pointer, cadence); anchors
// without a pointer only have the cadence relabelled. A new end date that
// the pointer has already passed terminates the series. A null end date
// removes the bound.
type UpdateSeries struct {
	AnchorID uuid.UUID

	Amount            omit.Val[decimal.Decimal]
	Description       omit.Val[string]
	RecurrenceType    omit.Val[recurrence.Type]
	RecurrenceEndDate omitnull.Val[time.Time]

	Result *sqlconfig.Transaction
	IAction
}

func (u *UpdateSeries) Perform(ctx context.Context, writer *storage.Writer) error {
	anchor, err := writer.Transactions.FindByID(ctx, u.AnchorID)
	if err != nil {
		return err
	}
	if !anchor.IsAnchor() {
		return ErrNotAnchor
	}

	if amount, ok := u.Amount.Get(); ok {
		anchor.Amount = amount
	}
	if description, ok := u.Description.Get(); ok {
		anchor.Description = description
	}

	if typ, ok := u.RecurrenceType.Get(); ok && typ != anchor.RecurrenceType {
		anchor.RecurrenceType = typ
		if anchor.IsRecurring && anchor.NextOccurrence != nil {
			next, err := recurrence.Next(*anchor.NextOccurrence, typ)
			if err != nil {
				return err
			}
			anchor.NextOccurrence = &next
		}
	}

	if !u.RecurrenceEndDate.IsUnset() {
		if end, ok := u.RecurrenceEndDate.Get(); ok {
			end = recurrence.Day(end)
			if end.Before(recurrence.Day(anchor.TransactionDate)) {
				return recurrence.ErrEndBeforeStart
			}
			anchor.RecurrenceEndDate = &end
			if anchor.NextOccurrence != nil && anchor.NextOccurrence.After(end) {
				anchor.IsRecurring = false
				anchor.NextOccurrence = nil
			}
		} else {
			anchor.RecurrenceEndDate = nil
		}
	}

	saved, err := writer.Transactions.Save(ctx, anchor)
	if err != nil {
		return err
	}

	u.Result = saved
	return nil
}
