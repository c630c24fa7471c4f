package service

import (
	"context"

	"github.com/aarondl/opt/omitnull"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// RecurringService creates and manages recurring series.
type RecurringService struct {
	storage    *storage.Storage
	processor  ActionProcessor
	normalizer recurrence.Normalizer
	notifier   Notifier
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(store *storage.Storage, processor ActionProcessor, normalizer recurrence.Normalizer, notifier Notifier) *RecurringService {
	return &RecurringService{
		storage:    store,
		processor:  processor,
		normalizer: normalizer,
		notifier:   notifier,
	}
}

// CreateRecurringSeries validates and persists a series. Bounded series
// return the anchor followed by every occurrence; open-ended series return
// the anchor alone.
func (s *RecurringService) CreateRecurringSeries(ctx context.Context, in SeriesInput) ([]Transaction, error) {
	if err := ValidateSeries(in); err != nil {
		return nil, err
	}

	action, err := seriesAction(in, s.normalizer)
	if err != nil {
		return nil, err
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}

	switch a := action.(type) {
	case *actions.MaterializeSeries:
		return transactionsFromStorage(a.Result), nil
	case *actions.CreateAnchor:
		if s.notifier != nil {
			s.notifier.Notify()
		}
		return []Transaction{transactionFromStorage(a.Result)}, nil
	}
	return nil, nil
}

// UpdateRecurringSeries applies a partial edit to a series anchor.
func (s *RecurringService) UpdateRecurringSeries(ctx context.Context, anchorID uuid.UUID, upd SeriesUpdate) (*Transaction, error) {
	if err := ValidateSeriesUpdate(upd); err != nil {
		return nil, err
	}

	action := &actions.UpdateSeries{
		AnchorID:          anchorID,
		Amount:            upd.Amount,
		Description:       upd.Description,
		RecurrenceType:    upd.RecurrenceType,
		RecurrenceEndDate: upd.RecurrenceEndDate,
	}
	if end, ok := upd.RecurrenceEndDate.Get(); ok {
		action.RecurrenceEndDate = omitnull.From(s.normalizer.Normalize(end))
	}

	if err := s.processor.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}
	updated := transactionFromStorage(action.Result)
	return &updated, nil
}

// CancelRecurrence stops a series. Occurrences already created are kept.
func (s *RecurringService) CancelRecurrence(ctx context.Context, anchorID uuid.UUID) (*Transaction, error) {
	action := &actions.CancelSeries{AnchorID: anchorID}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}
	cancelled := transactionFromStorage(action.Result)
	return &cancelled, nil
}

// GetSeries returns the anchor followed by its occurrences in date order.
func (s *RecurringService) GetSeries(ctx context.Context, anchorID uuid.UUID) ([]Transaction, error) {
	anchor, err := s.storage.Transactions.FindByID(ctx, anchorID)
	if err != nil {
		return nil, translateError(err)
	}
	if !anchor.IsAnchor() {
		return nil, ErrNotAnchor
	}

	children, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		ParentID: &anchor.ID,
		Order:    sqlconfig.OrderByDate,
	})
	if err != nil {
		return nil, err
	}

	series := make([]Transaction, 0, len(children)+1)
	series = append(series, transactionFromStorage(anchor))
	for _, child := range children {
		series = append(series, transactionFromStorage(child))
	}
	return series, nil
}
