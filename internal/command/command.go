// Package command handles the slash commands of the terminal companion.
package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
)

// Name identifies a slash command.
type Name string

const (
	Help        Name = "help"
	State       Name = "state"
	Practices   Name = "practices"
	Restart     Name = "restart"
	AnotherPart Name = "another-part"
	Phase       Name = "phase"
	Finish      Name = "finish"
	Quit        Name = "quit"
)

// Command is a parsed slash command.
type Command struct {
	Name Name
	Arg  string
}

// Parse recognises "/name arg". ok is false for ordinary text.
func Parse(input string) (Command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, "/"), " ")
	name = strings.ToLower(name)
	switch name {
	case "another", "anotherpart":
		name = string(AnotherPart)
	case "exit":
		name = string(Quit)
	case "?":
		name = string(Help)
	}
	return Command{Name: Name(name), Arg: strings.TrimSpace(arg)}, true
}

// Dispatcher runs commands against one engine.
type Dispatcher struct {
	engine  *dialogue.Engine
	library *practice.Library
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(engine *dialogue.Engine, library *practice.Library) *Dispatcher {
	return &Dispatcher{engine: engine, library: library}
}

// Run executes cmd for sessionID and returns the text to show. Engine errors
// are rendered, not returned; only a done ctx is returned as an error.
func (d *Dispatcher) Run(ctx context.Context, sessionID string, cmd Command) (string, error) {
	var doc *session.Document
	var err error
	switch cmd.Name {
	case Help, Quit:
		return render(tplHelp, nil), nil
	case Practices:
		return render(tplPractices, map[string]any{"Practices": d.library.All()}), nil
	case State:
		doc, err = d.engine.Get(ctx, sessionID)
		if err == nil {
			return render(tplState, stateView(doc)), nil
		}
	case Restart:
		doc, err = d.engine.Restart(ctx, sessionID)
	case AnotherPart:
		doc, err = d.engine.AnotherPart(ctx, sessionID)
	case Phase:
		if cmd.Arg == "" {
			return render(tplPhaseUsage, phasesOf(ctx, d.engine, sessionID)), nil
		}
		doc, err = d.engine.SelectPhase(ctx, sessionID, types.Phase(cmd.Arg))
	case Finish:
		doc, err = d.engine.Finish(ctx, sessionID)
		if err == nil {
			return render(tplFinished, stateView(doc)), nil
		}
	default:
		return render(tplUnknown, map[string]any{"Name": cmd.Name}), nil
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Warn("command failed", "command", cmd.Name, "session_id", sessionID, "error", err.Error())
		return render(tplError, map[string]any{"Message": userMessage(err)}), nil
	}
	last, _ := doc.LastAssistant()
	return last.Text, nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "This session could not be found."
	case errors.Is(err, dialogue.ErrInvalidAction):
		return err.Error()
	default:
		return "Something went wrong, please try again."
	}
}

type view struct {
	Protocol   types.Protocol
	Phase      types.Phase
	PhaseTitle string
	Trend      string
	Parts      []string
	Themes     []string
	Completed  []string
	Turns      int
	Finished   bool
}

func stateView(doc *session.Document) view {
	v := view{
		Protocol:  doc.Machine.Protocol,
		Phase:     doc.Machine.Phase,
		Trend:     doc.Trend.Describe(),
		Parts:     doc.Memory.IdentifiedParts,
		Themes:    doc.Memory.ExploredThemes,
		Completed: doc.Memory.CompletedInterventions,
		Finished:  doc.Finished,
	}
	if def, err := phase.Lookup(doc.Machine.Protocol); err == nil {
		if step, ok := def.Step(doc.Machine.Phase); ok {
			v.PhaseTitle = step.Title
		}
	}
	for _, m := range doc.Messages {
		if m.Role == types.RoleUser {
			v.Turns++
		}
	}
	return v
}

func phasesOf(ctx context.Context, engine *dialogue.Engine, sessionID string) map[string]any {
	data := map[string]any{}
	doc, err := engine.Get(ctx, sessionID)
	if err != nil {
		return data
	}
	def, err := phase.Lookup(doc.Machine.Protocol)
	if err != nil {
		return data
	}
	data["Steps"] = def.Steps()
	return data
}
