package emotion

import "github.com/easeaico/project-integrate/internal/types"

// Vocabulary holds the word lists scored by the keyword classifier.
type Vocabulary struct {
	Sympathetic []string
	Dorsal      []string
	Ventral     []string
}

// DefaultVocabulary is the built-in word list set.
var DefaultVocabulary = Vocabulary{
	Sympathetic: []string{
		"anxious",
		"anxiety",
		"panic",
		"panicking",
		"racing",
		"heart is racing",
		"too much",
		"overwhelm",
		"can't breathe",
		"cannot breathe",
		"scared",
		"terrified",
		"afraid",
		"angry",
		"enraged",
		"furious",
		"tense",
		"tight",
		"restless",
		"on edge",
		"shaking",
		"jittery",
		"stressed",
		"worried",
		"frantic",
	},
	Dorsal: []string{
		"numb",
		"shut down",
		"shutdown",
		"frozen",
		"freeze",
		"empty",
		"hopeless",
		"disconnected",
		"exhausted",
		"collapsed",
		"heavy",
		"nothing matters",
		"can't move",
		"foggy",
		"dissociat",
		"flat",
		"withdrawn",
		"give up",
	},
	Ventral: []string{
		"calm",
		"safe",
		"grounded",
		"connected",
		"peaceful",
		"relaxed",
		"open",
		"curious",
		"warm",
		"settled",
		"present",
		"at ease",
		"content",
		"grateful",
		"joy",
		"playful",
	},
}

// scoring is the saturating intensity formula for one state: min(cap, base+2*count).
type scoring struct {
	base int
	cap  int
}

var stateScoring = map[types.NervousState]scoring{
	types.StateSympathetic: {base: 3, cap: 10},
	types.StateDorsal:      {base: 3, cap: 8},
	types.StateVentral:     {base: 2, cap: 10},
}

const (
	sympatheticRegulationThreshold = 7
	dorsalRegulationThreshold      = 6
	unknownIntensity               = 5
)

// StateInstruction returns a short response guideline for the given state.
func StateInstruction(state types.NervousState) string {
	switch state {
	case types.StateSympathetic:
		return "The user is activated. Slow down, keep sentences short, and offer grounding before going deeper."
	case types.StateDorsal:
		return "The user may be shut down. Be gentle, invite small movements or orienting, and avoid pressure."
	case types.StateVentral:
		return "The user seems settled. It is a good moment for curious, open exploration."
	default:
		return ""
	}
}
