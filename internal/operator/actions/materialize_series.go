package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// MaterializeSeries writes a bounded series in one go: the anchor first,
// then one child per entry of OccurrenceDates, each linked to the anchor.
type MaterializeSeries struct {
	Anchor          *sqlconfig.TransactionCreate
	OccurrenceDates []time.Time

	// Result holds the anchor followed by its children in date order.
	Result []*sqlconfig.Transaction
	IAction
}

func (m *MaterializeSeries) Perform(ctx context.Context, writer *storage.Writer) error {
	anchor, err := writer.Transactions.Insert(ctx, m.Anchor)
	if err != nil {
		return fmt.Errorf("insert anchor: %w", err)
	}

	result := make([]*sqlconfig.Transaction, 0, len(m.OccurrenceDates)+1)
	result = append(result, anchor)
	for i, date := range m.OccurrenceDates {
		child, err := writer.Transactions.Insert(ctx, occurrenceOf(anchor, date))
		if err != nil {
			return fmt.Errorf("insert occurrence %d: %w", i+1, err)
		}
		result = append(result, child)
	}

	m.Result = result
	return nil
}

// occurrenceOf builds a plain child record of anchor dated on date.
func occurrenceOf(anchor *sqlconfig.Transaction, date time.Time) *sqlconfig.TransactionCreate {
	parentID := anchor.ID
	return &sqlconfig.TransactionCreate{
		Type:                anchor.Type,
		Amount:              anchor.Amount,
		Description:         anchor.Description,
		TransactionDate:     date,
		CategoryID:          anchor.CategoryID,
		UserID:              anchor.UserID,
		ParentTransactionID: &parentID,
	}
}
