package service

import (
	"errors"
	"fmt"

	"github.com/carson-networks/budget-recurring/internal/operator/actions"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrNotAnchor   = actions.ErrNotAnchor
	ErrStaleRecord = sqlconfig.ErrStaleRecord
)

// ValidationError reports a rejected input field. Nothing has been written
// when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// translateError maps storage and action errors onto the service's errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sqlconfig.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, recurrence.ErrEndBeforeStart):
		return invalid("recurrenceEndDate", err.Error())
	}
	return err
}
