// Package emotion infers the user's nervous-system state from free text.
package emotion

import (
	"context"
	"math"
	"strings"

	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

// TextClassifier infers a StateAssessment from a user message. Implementations must be total.
type TextClassifier interface {
	Classify(ctx context.Context, text string) types.StateAssessment
}

// KeywordClassifier scores text against fixed vocabularies. It is pure and deterministic.
type KeywordClassifier struct {
	vocab Vocabulary
}

// NewKeywordClassifier returns a classifier over DefaultVocabulary.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{vocab: DefaultVocabulary}
}

// NewKeywordClassifierWithVocabulary returns a classifier over custom word lists.
func NewKeywordClassifierWithVocabulary(vocab Vocabulary) *KeywordClassifier {
	return &KeywordClassifier{vocab: vocab}
}

// Classify implements TextClassifier.
func (c *KeywordClassifier) Classify(_ context.Context, text string) types.StateAssessment {
	return c.Assess(text)
}

// Assess scores text without a context.
func (c *KeywordClassifier) Assess(text string) types.StateAssessment {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return unknownAssessment(0)
	}

	counts := c.counts(lowered)
	winner := types.StateUnknown
	maxCount := 0
	tied := false
	for _, state := range []types.NervousState{types.StateSympathetic, types.StateDorsal, types.StateVentral} {
		switch n := counts[state]; {
		case n > maxCount:
			winner, maxCount, tied = state, n, false
		case n == maxCount && n > 0:
			tied = true
		}
	}
	if maxCount == 0 || tied {
		return unknownAssessment(maxCount)
	}
	return assessmentFor(winner, maxCount)
}

// Counts returns the number of vocabulary entries hit per state.
func (c *KeywordClassifier) Counts(text string) map[types.NervousState]int {
	return c.counts(strings.ToLower(text))
}

func (c *KeywordClassifier) counts(lowered string) map[types.NervousState]int {
	return map[types.NervousState]int{
		types.StateSympathetic: utils.CountContained(lowered, c.vocab.Sympathetic),
		types.StateDorsal:      utils.CountContained(lowered, c.vocab.Dorsal),
		types.StateVentral:     utils.CountContained(lowered, c.vocab.Ventral),
	}
}

func assessmentFor(state types.NervousState, count int) types.StateAssessment {
	s, ok := stateScoring[state]
	if !ok {
		return unknownAssessment(count)
	}
	intensity := types.ClampIntensity(min(s.cap, s.base+count*2))
	return types.StateAssessment{
		State:                    state,
		Intensity:                intensity,
		Confidence:               confidence(count),
		NeedsImmediateRegulation: NeedsRegulation(state, intensity),
	}
}

func unknownAssessment(count int) types.StateAssessment {
	return types.StateAssessment{
		State:      types.StateUnknown,
		Intensity:  unknownIntensity,
		Confidence: confidence(count),
	}
}

func confidence(count int) float64 {
	return math.Min(1, float64(count)/3)
}

// NeedsRegulation reports whether a reading calls for regulation before anything else.
func NeedsRegulation(state types.NervousState, intensity int) bool {
	switch state {
	case types.StateSympathetic:
		return intensity > sympatheticRegulationThreshold
	case types.StateDorsal:
		return intensity > dorsalRegulationThreshold
	default:
		return false
	}
}
