package dialogue

import (
	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/types"
)

// Bucket is the coarse quality of a user message used to pick a fallback reply.
type Bucket string

const (
	BucketSelfEnergy Bucket = "selfEnergy"
	BucketBlended    Bucket = "blended"
	BucketFear       Bucket = "fear"
	BucketDistress   Bucket = "distress"
	BucketBodily     Bucket = "bodily"
	BucketNeutral    Bucket = "neutral"
)

const distressIntensity = 5

// BucketFor maps a reading and the user's signals to a fallback bucket.
func BucketFor(a types.StateAssessment, signals phase.SignalSet) Bucket {
	switch {
	case signals.Has(phase.SignalBlended):
		return BucketBlended
	case signals.Has(phase.SignalSelfEnergy):
		return BucketSelfEnergy
	case signals.Has(phase.SignalFear):
		return BucketFear
	case (a.State == types.StateSympathetic || a.State == types.StateDorsal) && a.Intensity >= distressIntensity:
		return BucketDistress
	case signals.Any(phase.SignalLocation | phase.SignalDescription):
		return BucketBodily
	default:
		return BucketNeutral
	}
}

// closers never ask a question, so at least one of them is always usable.
var closers = []string{
	"Thank you for staying with this. There's no right answer here, so share whatever feels true right now.",
	"I'm here with you. Take whatever time you need, and we can keep going at your pace.",
}

var regulationReplies = []string{
	"I'm here with you. It sounds like a lot is moving through your body right now. Would a short grounding practice help before we go on?",
	"Let's slow everything down together. Can you feel where your body is supported, and let your out-breath be a little longer than your in-breath?",
	"I'm here with you. There's no rush at all. Let's pause the exploration and take a few slow breaths together, and we can return whenever you're ready.",
}

var fallbackReplies = map[types.Phase]map[Bucket][]string{
	phase.Find: {
		BucketDistress: {
			"It makes sense that something is asking for attention. Let's go gently. If that feeling were a part of you, where would you notice it most?",
		},
		BucketBodily: {
			"Thank you for noticing that. Let's stay with that area for a moment. What do you become aware of there?",
		},
		BucketNeutral: {
			"Let's go slowly. Is there a feeling, a sensation or an inner voice that stands out a little more than the rest?",
		},
	},
	phase.FindLocation: {
		BucketBodily: {
			"Good, you've found where it lives. Just notice it there, without needing to change anything.",
		},
		BucketNeutral: {
			"Sometimes a part shows up as tightness, warmth or pressure. Is there a place in your body that draws your attention?",
		},
	},
	phase.Focus: {
		BucketSelfEnergy: {
			"That openness is really welcome. As you stay with it, what else do you notice about this part?",
		},
		BucketDistress: {
			"Let's stay right at the edge of it, with as much space as you need. What do you notice as you keep it company?",
		},
		BucketNeutral: {
			"Keep your attention resting on it for a moment. What are you aware of as you focus there?",
		},
	},
	phase.FleshOut: {
		BucketBodily: {
			"That's a vivid picture. Does it seem to have an age, or a sense of how long it has been with you?",
		},
		BucketNeutral: {
			"Take your time getting to know it. If it had a shape, a color or an image, what would it be?",
		},
	},
	phase.FeelToward: {
		BucketBlended: {
			"It sounds like another part has strong feelings about this one. See if that part would be willing to step back a little, just for now.",
		},
		BucketSelfEnergy: {
			"That curiosity is a good sign that more of you is here. Let the part know you're interested in it.",
		},
		BucketNeutral: {
			"Notice how you're relating to this part as you sit with it. Is there openness, or something else?",
		},
	},
	phase.Unblend: {
		BucketSelfEnergy: {
			"Something has shifted and there's more room now. Let's turn back toward the first part with that openness.",
		},
		BucketBlended: {
			"That reaction makes sense too. Could the part having it give you just a little room, so you can see the first part clearly?",
		},
	},
	phase.Befriend: {
		BucketFear: {
			"Thank you for hearing that. It sounds like the part carries a real worry. What does it believe could happen?",
		},
		BucketNeutral: {
			"Let the part feel that you're here with it. What would it like you to understand about the job it does?",
		},
	},
	phase.Fears: {
		BucketFear: {
			"That fear makes sense given what it has been protecting. What would help it feel even a little safer?",
		},
		BucketNeutral: {
			"Parts usually hold on because they're protecting something. What does it worry about if it let go?",
		},
	},
	phase.AddressFears: {
		BucketNeutral: {
			"See if the part can take in that you're here now. How is it responding to you?",
		},
	},
	phase.CheckIn: {
		BucketDistress: {
			"Thank you for telling me. Let's keep this light and go at your pace. What is one word for how your body feels?",
		},
	},
	phase.Ventral: {
		BucketNeutral: {
			"Remember a moment with someone or somewhere that felt easy. What do you notice in your breath or shoulders when you recall it?",
		},
	},
	phase.Sympathetic: {
		BucketDistress: {
			"You're noticing activation right now, which is useful information. Where does that energy move in your body?",
		},
	},
	phase.Dorsal: {
		BucketNeutral: {
			"Shutdown can be hard to describe. Is it more like heaviness, fog, or distance from things?",
		},
	},
	phase.Glimmers: {
		BucketNeutral: {
			"Glimmers can be tiny, like warm light, a familiar song or a pet. Which small things bring you back a little?",
		},
	},
	phase.Associations: {
		BucketNeutral: {
			"Let whatever comes arrive without sorting it. What memories, feelings or words gather around this image?",
		},
	},
	phase.Interpretation: {
		BucketNeutral: {
			"There's no single right reading. If this image had a message for your life right now, what might it say?",
		},
	},
}

// fallbackCandidates lists replies for phase and bucket in preference order,
// ending with the phase's default branch.
func fallbackCandidates(def *phase.Definition, p types.Phase, bucket Bucket) []string {
	byBucket := fallbackReplies[p]
	candidates := append([]string(nil), byBucket[bucket]...)
	if bucket != BucketNeutral {
		candidates = append(candidates, byBucket[BucketNeutral]...)
	}
	if prompt := def.Prompt(p); prompt != "" {
		candidates = append(candidates, prompt)
	}
	return append(candidates, closers...)
}

// pickUnasked returns the first candidate that asks nothing already asked.
func pickUnasked(candidates []string, mem memory.State) string {
	for _, c := range candidates {
		if c != "" && mem.DropAskedQuestions(c) == c {
			return c
		}
	}
	return closers[len(closers)-1]
}

// Fallback returns a deterministic reply for phase and bucket. It never fails.
func Fallback(def *phase.Definition, p types.Phase, bucket Bucket, mem memory.State) string {
	return pickUnasked(fallbackCandidates(def, p, bucket), mem)
}

// RegulationReply returns the grounding message sent instead of a phase reply.
func RegulationReply(mem memory.State) string {
	return pickUnasked(regulationReplies, mem)
}

// PhasePrompt returns the phase's own prompt unless it was already asked, in
// which case the neutral fallback chain is used.
func PhasePrompt(def *phase.Definition, p types.Phase, mem memory.State) string {
	candidates := append([]string{def.Prompt(p)}, fallbackCandidates(def, p, BucketNeutral)...)
	return pickUnasked(candidates, mem)
}
