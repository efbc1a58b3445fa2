package emotion

import "github.com/easeaico/project-integrate/internal/types"

// Trend is the smoothed nervous-system state carried across turns.
type Trend struct {
	Current   types.NervousState `json:"current"`
	LastState types.NervousState `json:"lastState"`
	Streak    int                `json:"streak"`
}

// StateMachine smooths per-turn readings into a Trend.
type StateMachine struct {
	minTurns int
}

const minShiftTurns = 2

// NewStateMachine returns a StateMachine.
func NewStateMachine() *StateMachine {
	return &StateMachine{minTurns: minShiftTurns}
}

// Update returns the trend after one more reading. The current state only moves
// once a new state has been read minTurns times in a row, unless the reading
// calls for immediate regulation.
func (s *StateMachine) Update(trend Trend, reading types.StateAssessment) Trend {
	if reading.State == types.StateUnknown {
		// Unknown readings neither confirm nor break a streak.
		if trend.Current == "" {
			trend.Current = types.StateUnknown
		}
		return trend
	}

	streak := 1
	if trend.LastState == reading.State {
		streak = trend.Streak + 1
	}

	switch {
	case trend.Current == "" || trend.Current == types.StateUnknown:
		trend.Current = reading.State
	case reading.NeedsImmediateRegulation:
		trend.Current = reading.State
	case reading.State != trend.Current && streak >= s.minTurns:
		trend.Current = reading.State
	}

	trend.LastState = reading.State
	trend.Streak = streak
	return trend
}

// Describe renders the trend for the system instruction.
func (t Trend) Describe() string {
	switch {
	case t.Current == "" || t.Current == types.StateUnknown:
		return ""
	case t.LastState == t.Current && t.Streak > 1:
		return "The user has stayed " + string(t.Current) + " for several turns."
	case t.LastState != "" && t.LastState != t.Current:
		return "The user is mostly " + string(t.Current) + " but the latest message reads " + string(t.LastState) + "."
	default:
		return "The user is currently " + string(t.Current) + "."
	}
}
