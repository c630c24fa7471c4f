package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_ShiftFromOffset(t *testing.T) {
	testCases := []struct {
		name   string
		offset int
		shift  int
	}{
		{"UTC", 0, 0},
		{"West of UTC", -3, 1},
		{"Far west", -11, 1},
		{"East of UTC", 5, 0},
		{"Full day west", -24, 1},
		{"More than a day west", -25, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.shift, NewNormalizer(tc.offset).ShiftDays())
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(-3)
	raw := time.Date(2025, 1, 31, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, date(2025, 2, 1), n.Normalize(raw))
	assert.Equal(t, date(2025, 1, 31), NewNormalizer(0).Normalize(raw))
}

func TestValidateMode_DateRange(t *testing.T) {
	start := date(2025, 1, 1)

	assert.NoError(t, ValidateMode(DateRange{End: date(2025, 12, 1)}, start))
	assert.NoError(t, ValidateMode(DateRange{End: start}, start))
	assert.NoError(t, ValidateMode(DateRange{End: date(2029, 12, 31)}, start))

	assert.ErrorIs(t, ValidateMode(DateRange{}, start), ErrMissingEndDate)
	assert.ErrorIs(t, ValidateMode(DateRange{End: date(2024, 12, 31)}, start), ErrEndBeforeStart)
	assert.ErrorIs(t, ValidateMode(DateRange{End: date(2030, 1, 1)}, start), ErrRangeTooLong)
}

func TestValidateMode_InstalmentCount(t *testing.T) {
	start := date(2025, 1, 1)

	testCases := []struct {
		count int
		valid bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{12, true},
		{360, true},
		{361, false},
	}

	for _, tc := range testCases {
		err := ValidateMode(InstalmentCount{Count: tc.count}, start)
		if tc.valid {
			assert.NoError(t, err, "count %d", tc.count)
		} else {
			assert.ErrorIs(t, err, ErrInstalmentBounds, "count %d", tc.count)
		}
	}
}

func TestValidateMode_Infinite(t *testing.T) {
	assert.NoError(t, ValidateMode(Infinite{}, date(2025, 1, 1)))
}

func TestPlanFor(t *testing.T) {
	n := NewNormalizer(0)
	raw := date(2025, 1, 1)

	plan := PlanFor(DateRange{End: date(2025, 12, 1), Eager: true}, raw, n)
	assert.True(t, plan.Eager())
	assert.Equal(t, 12, plan.Occurrences)
	assert.Equal(t, date(2025, 12, 1), *plan.End)

	plan = PlanFor(DateRange{End: date(2025, 12, 1)}, raw, n)
	assert.False(t, plan.Eager())
	assert.Equal(t, date(2025, 12, 1), *plan.End)

	plan = PlanFor(InstalmentCount{Count: 12}, raw, n)
	assert.Equal(t, 12, plan.Occurrences)
	assert.Equal(t, date(2025, 12, 1), *plan.End)

	plan = PlanFor(Infinite{}, raw, n)
	assert.False(t, plan.Eager())
	assert.Nil(t, plan.End)
}

func TestPlanFor_AppliesShiftToBound(t *testing.T) {
	plan := PlanFor(InstalmentCount{Count: 3}, date(2025, 1, 10), NewNormalizer(-3))

	assert.Equal(t, date(2025, 3, 11), *plan.End)
}

func TestModeNames(t *testing.T) {
	assert.Equal(t, "date-range", DateRange{}.Name())
	assert.Equal(t, "instalment-count", InstalmentCount{}.Name())
	assert.Equal(t, "infinite", Infinite{}.Name())
}
