package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/prompt"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
)

var (
	// ErrFinished is returned for turns on a finished session.
	ErrFinished = errors.New("session is finished")
	// ErrInvalidAction wraps lifecycle requests the session's protocol rejects.
	ErrInvalidAction = errors.New("invalid action")
)

// Engine runs turns and lifecycle actions against a session store, one at a
// time per session.
type Engine struct {
	generator       *Generator
	store           session.Store
	locker          *session.Locker
	defaultProtocol types.Protocol
}

// NewEngine creates an Engine. A nil store keeps sessions in memory.
func NewEngine(generator *Generator, store session.Store) *Engine {
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Engine{
		generator:       generator,
		store:           store,
		locker:          session.NewLocker(),
		defaultProtocol: types.ProtocolSixFs,
	}
}

// Start creates a session and sends the protocol's opening message.
func (e *Engine) Start(ctx context.Context, protocol types.Protocol) (*session.Document, error) {
	return e.StartWithID(ctx, uuid.NewString(), protocol)
}

// StartWithID is Start with a caller-chosen id. An existing session is replaced.
func (e *Engine) StartWithID(ctx context.Context, id string, protocol types.Protocol) (*session.Document, error) {
	if protocol == "" {
		protocol = e.defaultProtocol
	}
	doc, err := session.NewDocument(id, protocol)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	def, err := phase.Lookup(protocol)
	if err != nil {
		return nil, err
	}
	opening, err := prompt.BuildOpening(def)
	if err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	e.say(doc, opening)
	e.save(ctx, doc)
	return doc.Clone(), nil
}

// Turn processes one user message. Unknown ids start a fresh session with the
// default protocol. A cancelled ctx commits nothing.
func (e *Engine) Turn(ctx context.Context, id, userText string) (Turn, error) {
	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	defer unlock()

	doc, persist, err := e.loadOrCreate(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	if doc.Finished {
		return Turn{}, ErrFinished
	}

	turn, err := e.generator.GenerateTurn(ctx, doc, userText)
	if err != nil {
		return Turn{}, err
	}
	if persist {
		e.save(ctx, turn.Document)
	}
	turn.Document = turn.Document.Clone()
	return turn, nil
}

// Get returns the stored session.
func (e *Engine) Get(ctx context.Context, id string) (*session.Document, error) {
	return e.store.Load(ctx, id)
}

// Restart returns the session to the protocol's first phase. Memory is kept.
func (e *Engine) Restart(ctx context.Context, id string) (*session.Document, error) {
	return e.act(ctx, id, func(m *phase.Machine) error {
		m.Restart()
		return nil
	})
}

// AnotherPart starts the Six F's again for a new part. Memory is kept.
func (e *Engine) AnotherPart(ctx context.Context, id string) (*session.Document, error) {
	return e.act(ctx, id, func(m *phase.Machine) error {
		return m.AnotherPart()
	})
}

// SelectPhase moves the session to p on explicit menu selection.
func (e *Engine) SelectPhase(ctx context.Context, id string, p types.Phase) (*session.Document, error) {
	return e.act(ctx, id, func(m *phase.Machine) error {
		return m.Select(p)
	})
}

// Finish marks the session finished. Further turns are rejected.
func (e *Engine) Finish(ctx context.Context, id string) (*session.Document, error) {
	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Finished = true
	doc.UpdatedAt = e.generator.now()
	e.save(ctx, doc)
	return doc, nil
}

func (e *Engine) act(ctx context.Context, id string, move func(*phase.Machine) error) (*session.Document, error) {
	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	machine, err := phase.NewMachine(doc.Machine, e.generator.stallLimit)
	if err != nil {
		return nil, err
	}
	if err := move(machine); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	doc.Machine = machine.State()
	doc.Finished = false
	e.say(doc, PhasePrompt(machine.Definition(), machine.Current(), doc.Memory))
	e.save(ctx, doc)
	return doc, nil
}

// say appends a scripted assistant message and remembers its questions.
func (e *Engine) say(doc *session.Document, text string) {
	now := e.generator.now()
	doc.Messages = append(doc.Messages, types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleAssistant,
		Text:      text,
		Timestamp: now,
		Phase:     doc.Machine.Phase,
		Source:    types.SourceScripted,
	})
	doc.Memory = doc.Memory.Update("", memory.TurnContext{ReplyText: text})
	doc.LastPracticeID = ""
	doc.UpdatedAt = now
}

// loadOrCreate reports whether the document should be saved after the turn.
// A store failure other than not-found continues on a fresh document that is
// not saved, so the stored session is never overwritten.
func (e *Engine) loadOrCreate(ctx context.Context, id string) (*session.Document, bool, error) {
	doc, err := e.store.Load(ctx, id)
	if err == nil {
		return doc, true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, false, ctxErr
	}
	persist := errors.Is(err, session.ErrNotFound)
	if !persist {
		slog.Error("failed to load session, continuing without persistence", "session_id", id, "error", err.Error())
	}
	doc, err = session.NewDocument(id, e.defaultProtocol)
	if err != nil {
		return nil, false, err
	}
	return doc, persist, nil
}

func (e *Engine) save(ctx context.Context, doc *session.Document) {
	if err := e.store.Save(ctx, doc.ID, doc); err != nil {
		slog.Error("failed to save session", "session_id", doc.ID, "error", err.Error())
	}
}
