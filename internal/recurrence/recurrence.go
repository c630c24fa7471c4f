package recurrence

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Type is the cadence of a recurring series. The zero value means the
// record carries no cadence and is stored as NULL.
type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

var ErrUnknownType = errors.New("unknown recurrence type")

// Types lists the supported cadences in ascending unit size.
var Types = []Type{TypeDaily, TypeWeekly, TypeMonthly, TypeYearly}

func (t Type) Valid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeMonthly, TypeYearly:
		return true
	}
	return false
}

// ParseType converts a user supplied string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Value implements driver.Valuer.
func (t Type) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner.
func (t *Type) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = Type(v)
	case []byte:
		*t = Type(v)
	default:
		return fmt.Errorf("recurrence.Type: cannot scan %T", src)
	}
	return nil
}

// Day truncates an instant to its calendar day, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Next returns day advanced by exactly one cadence unit. Month and year
// steps use calendar arithmetic, so a day that does not exist in the
// target month rolls over the way time.AddDate normalizes it
// (2025-01-31 + 1 month = 2025-03-03).
func Next(day time.Time, t Type) (time.Time, error) {
	switch t {
	case TypeDaily:
		return day.AddDate(0, 0, 1), nil
	case TypeWeekly:
		return day.AddDate(0, 0, 7), nil
	case TypeMonthly:
		return day.AddDate(0, 1, 0), nil
	case TypeYearly:
		return day.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
}

// AddMonths steps day forward by k calendar months.
func AddMonths(day time.Time, k int) time.Time {
	return day.AddDate(0, k, 0)
}

// MonthSpan counts the calendar months touched by [start, end], inclusive
// of both ends. Same month yields 1; end before start yields <= 0.
func MonthSpan(start, end time.Time) int {
	yearDiff := end.Year() - start.Year()
	monthDiff := int(end.Month()) - int(start.Month())
	return yearDiff*12 + monthDiff + 1
}
