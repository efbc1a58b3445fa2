package practice

import (
	"strings"

	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

type rule struct {
	kind     string
	keywords []string
	urgency  func(types.StateAssessment) types.Urgency
}

func fixed(u types.Urgency) func(types.StateAssessment) types.Urgency {
	return func(types.StateAssessment) types.Urgency { return u }
}

// Rules are checked in order; the first match wins.
var rules = []rule{
	{
		kind:     TypePolyvagal,
		keywords: []string{"safe", "safety", "trauma", "abuse", "threat", "danger"},
		urgency:  fixed(types.UrgencyMedium),
	},
	{
		kind:     TypeParts,
		keywords: []string{"part of me", "parts", " part", "conflict", "torn", "protector", "exile"},
		urgency:  fixed(types.UrgencyLow),
	},
	{
		kind:     TypeSomatic,
		keywords: []string{"body", "sensation", "chest", "stomach", "throat", "tension", "tight"},
		urgency:  fixed(types.UrgencyLow),
	},
	{
		kind:     TypeBreathing,
		keywords: []string{"overwhelm", "too much", "panic", "can't cope", "flooded"},
		urgency: func(s types.StateAssessment) types.Urgency {
			if s.State == types.StateSympathetic {
				return types.UrgencyHigh
			}
			return types.UrgencyMedium
		},
	},
	{
		kind:     TypeSelfCompassion,
		keywords: []string{"shame", "ashamed", "critic", "worthless", "not good enough", "blame myself"},
		urgency:  fixed(types.UrgencyMedium),
	},
}

// Recommender picks at most one practice per turn.
type Recommender struct {
	library *Library
}

// NewRecommender returns a Recommender over library.
func NewRecommender(library *Library) *Recommender {
	return &Recommender{library: library}
}

// Library returns the underlying catalogue.
func (r *Recommender) Library() *Library {
	return r.library
}

// Recommend applies the ordered rules to the reply text and the session themes.
// Parts work is not suggested while a Six F's phase is already doing it.
// It returns nil when no rule matches.
func (r *Recommender) Recommend(state types.StateAssessment, replyText string, themes []string, current types.Phase) *types.Practice {
	if r == nil || r.library == nil {
		return nil
	}
	text := strings.ToLower(replyText + " " + strings.Join(themes, " "))
	inPartsWork := isSixFsPhase(current)
	for _, rl := range rules {
		if rl.kind == TypeParts && inPartsWork {
			continue
		}
		if !utils.ContainsAny(text, rl.keywords) {
			continue
		}
		p := r.library.byKind(rl.kind)
		p.Urgency = rl.urgency(state)
		return &p
	}
	return nil
}

// Urgent returns the regulation practice offered when a reading needs immediate regulation.
func (r *Recommender) Urgent(state types.StateAssessment) *types.Practice {
	if r == nil || r.library == nil {
		return nil
	}
	var p types.Practice
	switch state.State {
	case types.StateDorsal:
		p = r.library.byKind(TypeOrienting)
	default:
		p = r.library.byKind(TypeBreathing)
	}
	p.Urgency = types.UrgencyHigh
	return &p
}

func isSixFsPhase(p types.Phase) bool {
	def, err := phase.Lookup(types.ProtocolSixFs)
	if err != nil {
		return false
	}
	return p != phase.Summary && def.Has(p)
}
