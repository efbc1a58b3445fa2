// Package memory keeps the per-session anti-repetition memory.
package memory

import (
	"slices"
	"strings"

	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

// List limits.
const (
	MaxAskedQuestions    = 50
	MaxDiscussedPatterns = 30
	MaxUserChallenges    = 20
	MaxContextNotes      = 20
)

var (
	patternTriggers   = []string{"always", "every time", "pattern", "keep", "again"}
	challengeTriggers = []string{"struggling", "stuck", "difficult", "hard", "can't"}
	goalTriggers      = []string{"i want", "i hope", "my goal", "i'd like", "i wish"}
	contextTriggers   = []string{
		"ceremony",
		"retreat",
		"journey",
		"medicine",
		"trip",
		"integration",
		"therapist",
		"family",
		"work",
		"relationship",
	}
	completionTriggers = []string{
		"tried it",
		"did it",
		"i tried",
		"i did the",
		"i practiced",
		"done it",
		"that helped",
		"it helped",
	}
)

// State is the conversation memory stored with a session.
type State struct {
	AskedQuestions         []string `json:"askedQuestions"`
	DiscussedPatterns      []string `json:"discussedPatterns"`
	UserChallenges         []string `json:"userChallenges"`
	ContextNotes           []string `json:"contextNotes"`
	ExploredThemes         []string `json:"exploredThemes"`
	IdentifiedParts        []string `json:"identifiedParts"`
	CompletedInterventions []string `json:"completedInterventions"`
	UserGoals              []string `json:"userGoals"`
	Version                int      `json:"version"`
}

// TurnContext carries what one committed turn contributes besides the user text.
type TurnContext struct {
	// ReplyText is the assistant reply of the turn being committed.
	ReplyText string
	Entities  []types.Entity
	// PreviousPractice is the practice suggested by the prior assistant message.
	PreviousPractice *types.Practice
}

// Update returns a copy of s with one turn folded in. s is not modified.
func (s State) Update(userText string, turn TurnContext) State {
	next := s.Clone()

	for _, q := range utils.Questions(turn.ReplyText) {
		next.AskedQuestions = addUnique(next.AskedQuestions, q, MaxAskedQuestions)
	}

	for _, sentence := range utils.Sentences(userText) {
		lowered := strings.ToLower(sentence)
		if utils.ContainsAny(lowered, patternTriggers) {
			next.DiscussedPatterns = addUnique(next.DiscussedPatterns, sentence, MaxDiscussedPatterns)
		}
		if utils.ContainsAny(lowered, challengeTriggers) {
			next.UserChallenges = addUnique(next.UserChallenges, sentence, MaxUserChallenges)
		}
		if utils.ContainsAny(lowered, goalTriggers) {
			next.UserGoals = addUnique(next.UserGoals, sentence, 0)
		}
		if utils.ContainsAny(lowered, contextTriggers) {
			next.ContextNotes = addUnique(next.ContextNotes, sentence, MaxContextNotes)
		}
	}

	for _, e := range turn.Entities {
		if e.Category == types.CategoryParts {
			next.IdentifiedParts = addUnique(next.IdentifiedParts, e.Name, 0)
			continue
		}
		next.ExploredThemes = addUnique(next.ExploredThemes, e.Name, 0)
	}

	if p := turn.PreviousPractice; p != nil && utils.ContainsAny(strings.ToLower(userText), completionTriggers) {
		next.CompletedInterventions = addUnique(next.CompletedInterventions, p.Title, 0)
	}

	next.Version++
	return next
}

// HasAsked reports whether a similar question was already asked.
func (s State) HasAsked(question string) bool {
	return containsSimilar(s.AskedQuestions, question)
}

// DropAskedQuestions removes question sentences of text that were already asked.
// Text without repeated questions is returned unchanged; otherwise the kept
// sentences keep their original spacing and line breaks.
func (s State) DropAskedQuestions(text string) string {
	var sb strings.Builder
	dropped, skipBreak := false, false
	for _, segment := range utils.Segments(text) {
		if segment == "\n" && skipBreak {
			skipBreak = false
			continue
		}
		skipBreak = false
		sentence := strings.TrimSpace(segment)
		if strings.HasSuffix(sentence, "?") && s.HasAsked(sentence) {
			dropped, skipBreak = true, true
			continue
		}
		sb.WriteString(segment)
	}
	if !dropped {
		return text
	}
	return strings.TrimSpace(sb.String())
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		AskedQuestions:         slices.Clone(s.AskedQuestions),
		DiscussedPatterns:      slices.Clone(s.DiscussedPatterns),
		UserChallenges:         slices.Clone(s.UserChallenges),
		ContextNotes:           slices.Clone(s.ContextNotes),
		ExploredThemes:         slices.Clone(s.ExploredThemes),
		IdentifiedParts:        slices.Clone(s.IdentifiedParts),
		CompletedInterventions: slices.Clone(s.CompletedInterventions),
		UserGoals:              slices.Clone(s.UserGoals),
		Version:                s.Version,
	}
}
