// Package dialogue runs one guided turn end to end and manages session lifecycles.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/entity"
	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/models"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/prompt"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

// DefaultMaxTokens bounds the remote reply length.
const DefaultMaxTokens = 400

// Reply is the assistant text tagged with how it was produced.
type Reply struct {
	Source types.ReplySource `json:"source"`
	Text   string            `json:"text"`
}

// Turn is the result of one user turn.
type Turn struct {
	Reply      Reply                 `json:"reply"`
	Assessment types.StateAssessment `json:"stateUpdate"`
	Entities   []types.Entity        `json:"entities"`
	Practice   *types.Practice       `json:"suggestedPractice,omitempty"`
	PhaseFrom  types.Phase           `json:"phaseBefore"`
	PhaseAfter types.Phase           `json:"phaseAfter"`
	Signals    []string              `json:"signals,omitempty"`
	Forced     bool                  `json:"forced,omitempty"`
	// Document is the session after the turn was committed.
	Document *session.Document `json:"-"`
}

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	Classifier  emotion.TextClassifier
	Extractor   *entity.Extractor
	Recommender *practice.Recommender
	Builder     *prompt.Builder
	// Completer may be nil, in which case every reply is a fallback.
	Completer  models.Completer
	MaxTokens  int
	StallLimit int
	// Therapeutic also scans the assistant reply for entities.
	Therapeutic bool
	Now         func() time.Time
}

// Generator produces turns. It holds no per-session state.
type Generator struct {
	classifier  emotion.TextClassifier
	extractor   *entity.Extractor
	recommender *practice.Recommender
	builder     *prompt.Builder
	completer   models.Completer
	trends      *emotion.StateMachine
	maxTokens   int
	stallLimit  int
	therapeutic bool
	now         func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(opts Options) *Generator {
	g := &Generator{
		classifier:  opts.Classifier,
		extractor:   opts.Extractor,
		recommender: opts.Recommender,
		builder:     opts.Builder,
		completer:   opts.Completer,
		trends:      emotion.NewStateMachine(),
		maxTokens:   opts.MaxTokens,
		stallLimit:  opts.StallLimit,
		therapeutic: opts.Therapeutic,
		now:         opts.Now,
	}
	if g.classifier == nil {
		g.classifier = emotion.NewKeywordClassifier()
	}
	if g.extractor == nil {
		g.extractor = entity.NewExtractor()
	}
	if g.recommender == nil {
		g.recommender = practice.NewRecommender(practice.DefaultLibrary())
	}
	if g.builder == nil {
		g.builder = prompt.NewBuilder(prompt.DefaultHistoryTurns)
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.stallLimit <= 0 {
		g.stallLimit = phase.DefaultStallLimit
	}
	if g.now == nil {
		g.now = func() time.Time { return time.Now().UTC() }
	}
	return g
}

// GenerateTurn processes userText against doc and returns the committed turn.
// doc is not modified. An error is returned only for a cancelled ctx or a
// document whose protocol is unknown; remote failures fall back.
func (g *Generator) GenerateTurn(ctx context.Context, doc *session.Document, userText string) (Turn, error) {
	if doc == nil {
		return Turn{}, fmt.Errorf("session document is nil")
	}
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	machine, err := phase.NewMachine(doc.Machine, g.stallLimit)
	if err != nil {
		return Turn{}, fmt.Errorf("failed to rebuild phase machine: %w", err)
	}
	from := machine.Current()

	assessment := g.classifier.Classify(ctx, userText)

	var reply Reply
	var suggested *types.Practice
	if assessment.NeedsImmediateRegulation {
		reply = Reply{Source: types.SourceRegulation, Text: RegulationReply(doc.Memory)}
		suggested = g.recommender.Urgent(assessment)
		slog.Info("regulation short-circuit",
			"session_id", doc.ID,
			"state", assessment.State,
			"intensity", assessment.Intensity)
	} else {
		reply, err = g.respond(ctx, doc, machine, assessment, userText)
		if err != nil {
			return Turn{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}

	entities := g.extractor.Extract(g.extractionText(userText, reply.Text), nil)
	mem := doc.Memory.Update(userText, memory.TurnContext{
		ReplyText:        reply.Text,
		Entities:         entities,
		PreviousPractice: g.previousPractice(doc),
	})

	transition := phase.Transition{From: from, To: from}
	if reply.Source != types.SourceRegulation {
		suggested = g.recommender.Recommend(assessment, reply.Text, entity.Names(entities), from)
		transition = machine.Advance(userText, reply.Text)
	}

	next := g.commit(doc, userText, reply, assessment, entities, suggested, mem, machine, transition)
	return Turn{
		Reply:      reply,
		Assessment: assessment,
		Entities:   entities,
		Practice:   suggested,
		PhaseFrom:  transition.From,
		PhaseAfter: transition.To,
		Signals:    transition.Signals.Names(),
		Forced:     transition.Forced,
		Document:   next,
	}, nil
}

// respond tries the remote model and falls back on any failure. It returns an
// error only when ctx itself is done.
func (g *Generator) respond(ctx context.Context, doc *session.Document, machine *phase.Machine, assessment types.StateAssessment, userText string) (Reply, error) {
	fallback := func() Reply {
		bucket := BucketFor(assessment, phase.ExtractSignals(userText, ""))
		return Reply{
			Source: types.SourceFallback,
			Text:   Fallback(machine.Definition(), machine.Current(), bucket, doc.Memory),
		}
	}
	if g.completer == nil {
		return fallback(), nil
	}

	state := machine.State()
	instructions, err := g.builder.Build(prompt.BuildContext{
		Definition: machine.Definition(),
		Phase:      state.Phase,
		Answers:    state.Data,
		Memory:     doc.Memory.Snapshot(),
		History:    doc.Messages,
		Assessment: assessment,
		Trend:      doc.Trend,
	})
	if err != nil {
		slog.Warn("failed to build prompt, using fallback", "session_id", doc.ID, "error", err.Error())
		return fallback(), nil
	}

	raw, err := g.completer.Complete(ctx, models.Request{
		SystemInstructions: instructions,
		History:            g.history(doc.Messages, userText),
		MaxTokens:          g.maxTokens,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Reply{}, ctxErr
	}
	if err != nil {
		slog.Warn("remote reply unavailable, using fallback", "session_id", doc.ID, "phase", state.Phase, "error", err.Error())
		return fallback(), nil
	}

	parsed, err := utils.ParseRemoteReply(raw)
	if err != nil {
		slog.Warn("malformed remote reply, using fallback", "session_id", doc.ID, "error", err.Error())
		return fallback(), nil
	}
	text := strings.TrimSpace(doc.Memory.DropAskedQuestions(parsed.Reply))
	if text == "" {
		slog.Info("remote reply only repeated asked questions, using fallback", "session_id", doc.ID)
		return fallback(), nil
	}
	return Reply{Source: types.SourceRemote, Text: text}, nil
}

func (g *Generator) history(messages []types.Message, userText string) []models.ChatTurn {
	recent := g.builder.Recent(messages)
	turns := make([]models.ChatTurn, 0, len(recent)+1)
	for _, m := range recent {
		turns = append(turns, models.ChatTurn{Role: m.Role, Content: m.Text})
	}
	return append(turns, models.ChatTurn{Role: types.RoleUser, Content: userText})
}

func (g *Generator) extractionText(userText, replyText string) string {
	if !g.therapeutic || replyText == "" {
		return userText
	}
	return userText + "\n" + replyText
}

func (g *Generator) previousPractice(doc *session.Document) *types.Practice {
	if doc.LastPracticeID == "" {
		return nil
	}
	p, ok := g.recommender.Library().ByID(doc.LastPracticeID)
	if !ok {
		return nil
	}
	return p
}

func (g *Generator) commit(
	doc *session.Document,
	userText string,
	reply Reply,
	assessment types.StateAssessment,
	entities []types.Entity,
	suggested *types.Practice,
	mem memory.State,
	machine *phase.Machine,
	transition phase.Transition,
) *session.Document {
	now := g.now()
	next := doc.Clone()
	reading := assessment

	next.Messages = append(next.Messages,
		types.Message{
			ID:            uuid.NewString(),
			Role:          types.RoleUser,
			Text:          userText,
			Timestamp:     now,
			StateSnapshot: &reading,
			Entities:      entities,
			Phase:         transition.From,
		},
		types.Message{
			ID:         uuid.NewString(),
			Role:       types.RoleAssistant,
			Text:       reply.Text,
			Timestamp:  now,
			Phase:      transition.To,
			Source:     reply.Source,
			PracticeID: practiceID(suggested),
		},
	)
	next.Entities = append(next.Entities, entities...)
	next.Memory = mem
	next.Machine = machine.State()
	next.Trend = g.trends.Update(doc.Trend, assessment)
	next.LastPracticeID = practiceID(suggested)
	next.UpdatedAt = now
	return next
}

func practiceID(p *types.Practice) string {
	if p == nil {
		return ""
	}
	return p.ID
}
