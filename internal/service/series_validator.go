package service

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
)

// ValidateSeries checks a series request before anything is written.
func ValidateSeries(in SeriesInput) error {
	if err := validateTransactionFields(in.Type, in.Amount.IsPositive(), in.UserID, in.CategoryID); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return invalid("date", "is required")
	}
	if in.RecurrenceType == "" {
		return invalid("recurrenceType", "is required")
	}
	if !in.RecurrenceType.Valid() {
		return invalid("recurrenceType", fmt.Sprintf("must be one of %v", recurrence.Types))
	}
	if in.Mode == nil {
		return invalid("mode", "is required")
	}

	err := recurrence.ValidateMode(in.Mode, recurrence.Day(in.Date))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, recurrence.ErrInstalmentBounds):
		return invalid("instalments", err.Error())
	case errors.Is(err, recurrence.ErrMissingEndDate),
		errors.Is(err, recurrence.ErrEndBeforeStart),
		errors.Is(err, recurrence.ErrRangeTooLong):
		return invalid("endDate", err.Error())
	}
	return invalid("mode", err.Error())
}

// ValidateSeriesUpdate checks the fields present in an update.
func ValidateSeriesUpdate(upd SeriesUpdate) error {
	if amount, ok := upd.Amount.Get(); ok && !amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if typ, ok := upd.RecurrenceType.Get(); ok && !typ.Valid() {
		return invalid("recurrenceType", fmt.Sprintf("must be one of %v", recurrence.Types))
	}
	return nil
}

func validateTransaction(t Transaction) error {
	if err := validateTransactionFields(t.Type, t.Amount.IsPositive(), t.UserID, t.CategoryID); err != nil {
		return err
	}
	if t.TransactionDate.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}

func validateTransactionFields(typ TransactionType, positive bool, userID, categoryID uuid.UUID) error {
	if !typ.Valid() {
		return invalid("type", "must be income or expense")
	}
	if !positive {
		return invalid("amount", "must be greater than zero")
	}
	if userID.IsNil() {
		return invalid("userId", "is required")
	}
	if categoryID.IsNil() {
		return invalid("categoryId", "is required")
	}
	return nil
}
