// Package prompt assembles the system instruction sent to the remote model.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/types"
)

// DefaultHistoryTurns is the number of recent turns rendered into a prompt.
const DefaultHistoryTurns = 3

// BuildContext contains all inputs for prompt assembly.
type BuildContext struct {
	Definition *phase.Definition
	Phase      types.Phase
	// Answers are the sessionData entries recorded so far.
	Answers    map[string]string
	Memory     memory.Snapshot
	History    []types.Message
	Assessment types.StateAssessment
	Trend      emotion.Trend
}

// Builder assembles system instructions.
type Builder struct {
	historyTurns int
}

// NewBuilder creates a prompt Builder.
func NewBuilder(historyTurns int) *Builder {
	if historyTurns <= 0 {
		historyTurns = DefaultHistoryTurns
	}
	return &Builder{historyTurns: historyTurns}
}

// Recent returns the messages of the last historyTurns turns.
func (b *Builder) Recent(history []types.Message) []types.Message {
	limit := b.historyTurns * 2
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]types.Message(nil), history...)
}

// Build renders the system instruction.
func (b *Builder) Build(ctx BuildContext) (string, error) {
	if ctx.Definition == nil {
		return "", fmt.Errorf("protocol definition is required")
	}
	step, ok := ctx.Definition.Step(ctx.Phase)
	if !ok {
		return "", fmt.Errorf("phase %q is not part of protocol %s", ctx.Phase, ctx.Definition.Protocol)
	}

	data := struct {
		ProtocolTitle    string
		Instruction      string
		Phase            types.Phase
		PhaseTitle       string
		PhasePrompt      string
		PhaseAnswers     []string
		State            types.NervousState
		Intensity        int
		StateInstruction string
		Trend            string
		Memory           memory.Snapshot
		History          []types.Message
	}{
		ProtocolTitle:    ctx.Definition.Title,
		Instruction:      ctx.Definition.Instruction,
		Phase:            step.Phase,
		PhaseTitle:       step.Title,
		PhasePrompt:      step.Prompt,
		PhaseAnswers:     answersFor(ctx.Answers, step.Field),
		State:            ctx.Assessment.State,
		Intensity:        ctx.Assessment.Intensity,
		StateInstruction: emotion.StateInstruction(ctx.Assessment.State),
		Trend:            ctx.Trend.Describe(),
		Memory:           ctx.Memory,
		History:          b.Recent(ctx.History),
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return buf.String(), nil
}

func answersFor(answers map[string]string, field string) []string {
	if field == "" || answers[field] == "" {
		return nil
	}
	return strings.Split(answers[field], "\n")
}
