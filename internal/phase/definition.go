// Package phase holds the per-protocol phase tables and the transition logic.
package phase

import (
	"fmt"

	"github.com/easeaico/project-integrate/internal/types"
)

// Edge is a declared transition. It fires when every signal of All and at
// least one signal of Any is present. An edge with neither is unconditional.
type Edge struct {
	To  types.Phase
	Any SignalSet
	All SignalSet
}

func (e Edge) unconditional() bool {
	return e.Any == 0 && e.All == 0
}

func (e Edge) holds(signals SignalSet) bool {
	if !signals.Has(e.All) {
		return false
	}
	return e.Any == 0 || signals.Any(e.Any)
}

// Step describes one phase of a protocol.
type Step struct {
	Phase types.Phase
	Title string
	// Prompt is the question the phase opens with.
	Prompt string
	// Field is the sessionData key the user's answer is recorded under.
	Field string
	// Default is the edge forced by the stall guard.
	Default types.Phase
	Edges   []Edge
	// Hold ends the walk on entering this phase, so it always gets a turn of its own.
	Hold bool
}

// Definition is the fixed phase table of one protocol.
type Definition struct {
	Protocol    types.Protocol
	Title       string
	Instruction string
	steps       []Step
	index       map[types.Phase]int
	terminal    types.Phase
}

// maxHops bounds how many edges one turn may chain through.
const maxHops = 2

func newDefinition(protocol types.Protocol, title, instruction string, terminal types.Phase, steps ...Step) *Definition {
	d := &Definition{
		Protocol:    protocol,
		Title:       title,
		Instruction: instruction,
		steps:       steps,
		index:       make(map[types.Phase]int, len(steps)),
		terminal:    terminal,
	}
	for i, s := range steps {
		d.index[s.Phase] = i
	}
	return d
}

// Start returns the first phase of the protocol.
func (d *Definition) Start() types.Phase {
	return d.steps[0].Phase
}

// Has reports whether phase belongs to the protocol.
func (d *Definition) Has(phase types.Phase) bool {
	_, ok := d.index[phase]
	return ok
}

// Step returns the step for phase.
func (d *Definition) Step(phase types.Phase) (Step, bool) {
	i, ok := d.index[phase]
	if !ok {
		return Step{}, false
	}
	return d.steps[i], true
}

// Steps returns the steps in declaration order.
func (d *Definition) Steps() []Step {
	return append([]Step(nil), d.steps...)
}

// Prompt returns the opening question of phase.
func (d *Definition) Prompt(phase types.Phase) string {
	s, _ := d.Step(phase)
	return s.Prompt
}

// IsTerminal reports whether phase is never left automatically.
func (d *Definition) IsTerminal(phase types.Phase) bool {
	return phase == d.terminal
}

// Next walks the edge table from phase. Each hop takes the first edge whose
// guard holds; unconditional edges are only taken on the first hop. The walk
// stops at the terminal phase, at a Hold phase, after maxHops hops, or when no
// edge holds.
func (d *Definition) Next(phase types.Phase, signals SignalSet) types.Phase {
	current := phase
	for hop := 0; hop < maxHops; hop++ {
		if d.IsTerminal(current) {
			break
		}
		step, ok := d.Step(current)
		if !ok {
			break
		}
		next, moved := current, false
		for _, e := range step.Edges {
			if e.unconditional() && hop > 0 {
				continue
			}
			if e.holds(signals) {
				next, moved = e.To, true
				break
			}
		}
		if !moved {
			break
		}
		current = next
		if s, ok := d.Step(current); ok && s.Hold {
			break
		}
	}
	return current
}

// DefaultNext returns the edge forced by the stall guard, or phase itself when terminal.
func (d *Definition) DefaultNext(phase types.Phase) types.Phase {
	if d.IsTerminal(phase) {
		return phase
	}
	s, ok := d.Step(phase)
	if !ok || s.Default == "" {
		return phase
	}
	return s.Default
}

// Reachable returns every phase reachable from phase through declared edges,
// including phase itself.
func (d *Definition) Reachable(phase types.Phase) map[types.Phase]bool {
	seen := map[types.Phase]bool{phase: true}
	queue := []types.Phase{phase}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		s, ok := d.Step(p)
		if !ok {
			continue
		}
		for _, e := range s.Edges {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}

func (d *Definition) validate() error {
	if len(d.steps) == 0 {
		return fmt.Errorf("protocol %s has no phases", d.Protocol)
	}
	if !d.Has(d.terminal) {
		return fmt.Errorf("protocol %s: terminal phase %s not declared", d.Protocol, d.terminal)
	}
	for _, s := range d.steps {
		declared := s.Default == ""
		for _, e := range s.Edges {
			if !d.Has(e.To) {
				return fmt.Errorf("protocol %s: phase %s has edge to unknown phase %s", d.Protocol, s.Phase, e.To)
			}
			if e.To == s.Default {
				declared = true
			}
		}
		if !declared {
			return fmt.Errorf("protocol %s: phase %s defaults to %s without an edge", d.Protocol, s.Phase, s.Default)
		}
	}
	return nil
}
