package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// AdvanceSeries moves one live series forward by at most one occurrence.
// The anchor is re-read inside the transaction so a series cancelled or
// advanced since it was listed is left alone.
type AdvanceSeries struct {
	AnchorID uuid.UUID
	Today    time.Time

	Transition recurrence.Transition
	Occurrence *sqlconfig.Transaction
	IAction
}

func (a *AdvanceSeries) Perform(ctx context.Context, writer *storage.Writer) error {
	anchor, err := writer.Transactions.FindByID(ctx, a.AnchorID)
	if err != nil {
		return err
	}
	if anchor.ParentTransactionID != nil {
		return ErrNotAnchor
	}

	transition, err := recurrence.Advance(recurrence.Anchor{
		IsRecurring:    anchor.IsRecurring,
		Type:           anchor.RecurrenceType,
		NextOccurrence: anchor.NextOccurrence,
		EndDate:        anchor.RecurrenceEndDate,
	}, a.Today)
	if err != nil {
		return fmt.Errorf("advance %s: %w", anchor.ID, err)
	}
	a.Transition = transition

	switch transition.Action {
	case recurrence.ActionSkip:
		return nil
	case recurrence.ActionDeactivate, recurrence.ActionTerminate:
		anchor.IsRecurring = false
		anchor.NextOccurrence = nil
	case recurrence.ActionGenerate:
		occurrence, err := writer.Transactions.Insert(ctx, occurrenceOf(anchor, transition.OccurrenceDate))
		if err != nil {
			return fmt.Errorf("insert occurrence: %w", err)
		}
		a.Occurrence = occurrence
		next := transition.NextOccurrence
		anchor.NextOccurrence = &next
	}

	if _, err = writer.Transactions.Save(ctx, anchor); err != nil {
		return fmt.Errorf("save anchor: %w", err)
	}
	return nil
}
