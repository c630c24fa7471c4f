package recurrence

import "time"

// Action is the outcome of evaluating one anchor during a sweep.
type Action int

const (
	// ActionSkip leaves the anchor untouched.
	ActionSkip Action = iota
	// ActionGenerate materializes one occurrence and moves the pointer.
	ActionGenerate
	// ActionTerminate ends a series whose bound has passed.
	ActionTerminate
	// ActionDeactivate repairs an active anchor that has no pointer.
	ActionDeactivate
)

func (a Action) String() string {
	switch a {
	case ActionGenerate:
		return "generate"
	case ActionTerminate:
		return "terminate"
	case ActionDeactivate:
		return "deactivate"
	}
	return "skip"
}

// Anchor is the slice of an anchor record the state machine reads.
type Anchor struct {
	IsRecurring    bool
	Type           Type
	NextOccurrence *time.Time
	EndDate        *time.Time
}

// Transition is the decision for one anchor. OccurrenceDate and
// NextOccurrence are set only for ActionGenerate.
type Transition struct {
	Action         Action
	OccurrenceDate time.Time
	NextOccurrence time.Time
}

// Advance decides what a sweep running on day today does with an anchor.
// A terminated anchor (not recurring) is never reconsidered.
func Advance(a Anchor, today time.Time) (Transition, error) {
	today = Day(today)
	if !a.IsRecurring {
		return Transition{Action: ActionSkip}, nil
	}
	if a.NextOccurrence == nil {
		return Transition{Action: ActionDeactivate}, nil
	}
	if a.EndDate != nil && today.After(Day(*a.EndDate)) {
		return Transition{Action: ActionTerminate}, nil
	}
	current := Day(*a.NextOccurrence)
	if current.After(today) {
		return Transition{Action: ActionSkip}, nil
	}
	next, err := Next(current, a.Type)
	if err != nil {
		return Transition{}, err
	}
	return Transition{
		Action:         ActionGenerate,
		OccurrenceDate: current,
		NextOccurrence: next,
	}, nil
}
