package service

import (
	"time"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// seriesAction builds the write that creates a validated series. Bounded
// series are written in full; open-ended ones get an anchor with a pointer
// for the scheduler.
func seriesAction(in SeriesInput, normalizer recurrence.Normalizer) (actions.IAction, error) {
	raw := recurrence.Day(in.Date)
	plan := recurrence.PlanFor(in.Mode, raw, normalizer)

	anchor := &sqlconfig.TransactionCreate{
		Type:              transactionTypeToStorage(in.Type),
		Amount:            in.Amount,
		Description:       in.Description,
		TransactionDate:   normalizer.Normalize(raw),
		CategoryID:        in.CategoryID,
		UserID:            in.UserID,
		IsRecurring:       true,
		RecurrenceType:    in.RecurrenceType,
		RecurrenceEndDate: plan.End,
	}

	if plan.Eager() {
		return &actions.MaterializeSeries{
			Anchor:          anchor,
			OccurrenceDates: occurrenceDates(raw, plan.Occurrences, normalizer),
		}, nil
	}

	next, err := recurrence.Next(raw, in.RecurrenceType)
	if err != nil {
		return nil, err
	}
	next = normalizer.Normalize(next)
	anchor.NextOccurrence = &next
	return &actions.CreateAnchor{Anchor: anchor}, nil
}

// occurrenceDates returns the dates of occurrences 2..n of a bounded
// series, one calendar month apart whatever the cadence.
func occurrenceDates(raw time.Time, n int, normalizer recurrence.Normalizer) []time.Time {
	if n < 2 {
		return nil
	}
	dates := make([]time.Time, 0, n-1)
	for k := 1; k < n; k++ {
		dates = append(dates, normalizer.Normalize(recurrence.AddMonths(raw, k)))
	}
	return dates
}
