package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/operator"
	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify() {
	n.calls++
}

type failingProcessor struct {
	err   error
	calls int
}

func (p *failingProcessor) Process(context.Context, actions.IAction) error {
	p.calls++
	return p.err
}

// newMemoryService wires a Service to in-memory storage and a running
// operator, the way main does for the memory driver.
func newMemoryService(t *testing.T, offsetHours int) (*Service, *storage.Storage, *countingNotifier) {
	t.Helper()
	store := storage.NewMemoryStorage()
	delegator := operator.NewOperatorDelegator(store, 1, logging.SetupLogging("error"))
	delegator.Start()
	t.Cleanup(delegator.Stop)

	notifier := &countingNotifier{}
	return NewService(store, delegator, recurrence.NewNormalizer(offsetHours), notifier), store, notifier
}

func rentSeries(mode recurrence.Mode) SeriesInput {
	return SeriesInput{
		Type:           TransactionTypeExpense,
		Amount:         decimal.RequireFromString("1200.00"),
		Description:    "Rent",
		CategoryID:     uuid.Must(uuid.NewV4()),
		UserID:         uuid.Must(uuid.NewV4()),
		Date:           date(2025, 1, 1),
		RecurrenceType: recurrence.TypeMonthly,
		Mode:           mode,
	}
}
