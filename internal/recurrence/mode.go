package recurrence

import (
	"errors"
	"fmt"
	"time"
)

const (
	MaxRangeMonths = 60
	MinInstalments = 2
	MaxInstalments = 360
)

var (
	ErrMissingEndDate   = errors.New("date range requires an end date")
	ErrEndBeforeStart   = errors.New("end date is before start date")
	ErrRangeTooLong     = fmt.Errorf("date range must span between 1 and %d months", MaxRangeMonths)
	ErrInstalmentBounds = fmt.Errorf("instalment count must be between %d and %d", MinInstalments, MaxInstalments)
)

// Mode selects how a series is materialized. The set of implementations
// is closed: DateRange, InstalmentCount and Infinite.
type Mode interface {
	Name() string
	validate(start time.Time) error
}

// DateRange bounds a series by an inclusive end day. With Eager set, one
// occurrence per month is created up front; otherwise the scheduler
// advances the series until End has passed.
type DateRange struct {
	End   time.Time
	Eager bool
}

// InstalmentCount pre-generates exactly Count monthly occurrences.
type InstalmentCount struct {
	Count int
}

// Infinite leaves the series open; the scheduler advances it forever.
type Infinite struct{}

func (DateRange) Name() string       { return "date-range" }
func (InstalmentCount) Name() string { return "instalment-count" }
func (Infinite) Name() string        { return "infinite" }

func (m DateRange) validate(start time.Time) error {
	if m.End.IsZero() {
		return ErrMissingEndDate
	}
	if Day(m.End).Before(Day(start)) {
		return ErrEndBeforeStart
	}
	if span := MonthSpan(start, m.End); span <= 0 || span > MaxRangeMonths {
		return ErrRangeTooLong
	}
	return nil
}

func (m InstalmentCount) validate(time.Time) error {
	if m.Count < MinInstalments || m.Count > MaxInstalments {
		return ErrInstalmentBounds
	}
	return nil
}

func (Infinite) validate(time.Time) error {
	return nil
}

// ValidateMode checks the bounds a mode places on a series starting at start.
func ValidateMode(m Mode, start time.Time) error {
	return m.validate(start)
}

// Plan describes how a validated mode is materialized.
type Plan struct {
	// Occurrences is the number of records created up front; zero for
	// series driven by the scheduler.
	Occurrences int
	// End is the inclusive bound stored on the anchor, if any.
	End *time.Time
}

func (p Plan) Eager() bool {
	return p.Occurrences > 0
}

// PlanFor resolves the occurrence count and stored bound for a series whose
// first occurrence falls on raw. Dates are normalized with n.
func PlanFor(m Mode, raw time.Time, n Normalizer) Plan {
	switch v := m.(type) {
	case DateRange:
		end := n.Normalize(v.End)
		if v.Eager {
			return Plan{Occurrences: MonthSpan(raw, v.End), End: &end}
		}
		return Plan{End: &end}
	case InstalmentCount:
		end := n.Normalize(AddMonths(raw, v.Count-1))
		return Plan{Occurrences: v.Count, End: &end}
	}
	return Plan{}
}
