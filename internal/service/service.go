package service

import (
	"context"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
)

// ActionProcessor runs an action in its own storage transaction.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Notifier is told when a series the scheduler drives has been created.
type Notifier interface {
	Notify()
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Recurring   *RecurringService
}

// NewService creates a new Service. Reads go to store directly, writes are
// handed to processor. notifier may be nil.
func NewService(store *storage.Storage, processor ActionProcessor, normalizer recurrence.Normalizer, notifier Notifier) *Service {
	return &Service{
		Transaction: NewTransactionService(store, processor),
		Recurring:   NewRecurringService(store, processor, normalizer, notifier),
	}
}
