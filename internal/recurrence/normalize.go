package recurrence

import "time"

// Normalizer maps a client supplied date onto the calendar day that is
// persisted. Dates are stored without a zone, so a client west of UTC
// would otherwise see every stored day one day early.
type Normalizer struct {
	shiftDays int
}

// NewNormalizer derives the day shift from a signed UTC offset in hours.
func NewNormalizer(offsetHours int) Normalizer {
	return Normalizer{shiftDays: shiftForOffset(offsetHours)}
}

// ceil(-offset/24) without floating point.
func shiftForOffset(offsetHours int) int {
	n := -offsetHours
	if n <= 0 {
		return n / 24
	}
	return (n + 23) / 24
}

func (n Normalizer) ShiftDays() int {
	return n.shiftDays
}

// Normalize returns the persisted calendar day for raw.
func (n Normalizer) Normalize(raw time.Time) time.Time {
	return Day(raw).AddDate(0, 0, n.shiftDays)
}
