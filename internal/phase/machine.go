package phase

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/easeaico/project-integrate/internal/types"
)

// DefaultStallLimit is the number of unchanged turns after which the default edge is forced.
const DefaultStallLimit = 3

// State is the persisted part of a machine.
type State struct {
	Protocol     types.Protocol    `json:"protocol"`
	Phase        types.Phase       `json:"phase"`
	Data         map[string]string `json:"sessionData,omitempty"`
	StalledTurns int               `json:"stalledTurns"`
}

// Transition is the outcome of one Advance.
type Transition struct {
	From    types.Phase
	To      types.Phase
	Signals SignalSet
	// Forced is set when the stall guard moved the phase.
	Forced bool
}

// Changed reports whether the phase moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Machine applies a Definition to one session's State.
type Machine struct {
	def        *Definition
	state      State
	stallLimit int
}

// NewMachine rebuilds a machine from persisted state. An empty or foreign phase
// starts the protocol from its first phase.
func NewMachine(state State, stallLimit int) (*Machine, error) {
	def, err := Lookup(state.Protocol)
	if err != nil {
		return nil, err
	}
	if stallLimit <= 0 {
		stallLimit = DefaultStallLimit
	}
	if !def.Has(state.Phase) {
		state.Phase = def.Start()
		state.StalledTurns = 0
	}
	state.Data = maps.Clone(state.Data)
	return &Machine{def: def, state: state, stallLimit: stallLimit}, nil
}

// Definition returns the protocol table.
func (m *Machine) Definition() *Definition {
	return m.def
}

// Current returns the current phase.
func (m *Machine) Current() types.Phase {
	return m.state.Phase
}

// State returns a copy of the persisted state.
func (m *Machine) State() State {
	s := m.state
	s.Data = maps.Clone(m.state.Data)
	return s
}

// Advance records the user's answer for the current phase and moves along the
// edge table using signals from userText and replyText.
func (m *Machine) Advance(userText, replyText string) Transition {
	from := m.state.Phase
	m.record(from, userText)

	signals := ExtractSignals(userText, replyText)
	t := Transition{From: from, To: from, Signals: signals}
	if m.def.IsTerminal(from) {
		return t
	}

	t.To = m.def.Next(from, signals)
	if t.To == from {
		m.state.StalledTurns++
		if m.state.StalledTurns >= m.stallLimit {
			t.To = m.def.DefaultNext(from)
			t.Forced = true
			slog.Info("phase stall guard forced advance",
				"protocol", m.state.Protocol,
				"from", from,
				"to", t.To,
				"stalled_turns", m.state.StalledTurns)
		}
	}
	if t.To != from {
		m.state.StalledTurns = 0
	}
	m.state.Phase = t.To
	return t
}

// Restart returns to the first phase and clears the recorded answers.
func (m *Machine) Restart() {
	m.state.Phase = m.def.Start()
	m.state.Data = nil
	m.state.StalledTurns = 0
}

// AnotherPart starts the Six F's again for a new part.
func (m *Machine) AnotherPart() error {
	if m.state.Protocol != types.ProtocolSixFs {
		return fmt.Errorf("another part is only available for %s", types.ProtocolSixFs)
	}
	m.Restart()
	return nil
}

// Select jumps to phase on explicit menu selection.
func (m *Machine) Select(phase types.Phase) error {
	if !m.def.Has(phase) {
		return fmt.Errorf("phase %q is not part of protocol %s", phase, m.state.Protocol)
	}
	m.state.Phase = phase
	m.state.StalledTurns = 0
	return nil
}

func (m *Machine) record(phase types.Phase, userText string) {
	answer := strings.TrimSpace(userText)
	if answer == "" {
		return
	}
	step, ok := m.def.Step(phase)
	if !ok || step.Field == "" {
		return
	}
	if m.state.Data == nil {
		m.state.Data = make(map[string]string)
	}
	if prev := m.state.Data[step.Field]; prev != "" {
		answer = prev + "\n" + answer
	}
	m.state.Data[step.Field] = answer
}
