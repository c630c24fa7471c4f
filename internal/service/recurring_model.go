package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/aarondl/opt/omitnull"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
)

// SeriesInput describes a recurring series to create. Date is the raw
// first occurrence; the stored dates are normalized to the configured
// client timezone.
type SeriesInput struct {
	Type           TransactionType
	Amount         decimal.Decimal
	Description    string
	CategoryID     uuid.UUID
	UserID         uuid.UUID
	Date           time.Time
	RecurrenceType recurrence.Type
	Mode           recurrence.Mode
}

// SeriesUpdate is a partial edit of a series anchor. Unset fields are left
// unchanged; a null RecurrenceEndDate removes the bound.
type SeriesUpdate struct {
	Amount            omit.Val[decimal.Decimal]
	Description       omit.Val[string]
	RecurrenceType    omit.Val[recurrence.Type]
	RecurrenceEndDate omitnull.Val[time.Time]
}
