package phase

import (
	"strings"

	"github.com/easeaico/project-integrate/internal/utils"
)

// Signal is one content feature detected in a turn.
type Signal uint32

// SignalSet is a bitmask of signals.
type SignalSet = Signal

const (
	// SignalAnswered marks a substantive user answer of at least three words.
	SignalAnswered Signal = 1 << iota
	SignalPartNamed
	SignalLocation
	SignalDescription
	SignalTowardFeeling
	SignalSelfEnergy
	SignalBlended
	SignalSteppedBack
	SignalFear
	SignalFearNeed
	SignalFearEased
	SignalVentral
	SignalSympathetic
	SignalDorsal
	SignalTrigger
	SignalGlimmer
	SignalAssociation
	SignalDynamics
	SignalInterpretation
	SignalRitual

	// Reply-side signals.
	SignalAskedFeelToward
	SignalUnblendPrompt
)

// Has reports whether every signal of want is present.
func (s Signal) Has(want Signal) bool {
	return s&want == want
}

// Any reports whether at least one signal of want is present.
func (s Signal) Any(want Signal) bool {
	return s&want != 0
}

var signalNames = []struct {
	signal Signal
	name   string
}{
	{SignalAnswered, "answered"},
	{SignalPartNamed, "partNamed"},
	{SignalLocation, "location"},
	{SignalDescription, "description"},
	{SignalTowardFeeling, "towardFeeling"},
	{SignalSelfEnergy, "selfEnergy"},
	{SignalBlended, "blended"},
	{SignalSteppedBack, "steppedBack"},
	{SignalFear, "fear"},
	{SignalFearNeed, "fearNeed"},
	{SignalFearEased, "fearEased"},
	{SignalVentral, "ventral"},
	{SignalSympathetic, "sympathetic"},
	{SignalDorsal, "dorsal"},
	{SignalTrigger, "trigger"},
	{SignalGlimmer, "glimmer"},
	{SignalAssociation, "association"},
	{SignalDynamics, "dynamics"},
	{SignalInterpretation, "interpretation"},
	{SignalRitual, "ritual"},
	{SignalAskedFeelToward, "askedFeelToward"},
	{SignalUnblendPrompt, "unblendPrompt"},
}

// Names lists the signals in s, for logs.
func (s Signal) Names() []string {
	var out []string
	for _, n := range signalNames {
		if s.Has(n.signal) {
			out = append(out, n.name)
		}
	}
	return out
}

func (s Signal) String() string {
	return strings.Join(s.Names(), "|")
}

var userVocabulary = []struct {
	signal Signal
	words  []string
}{
	{SignalPartNamed, []string{"part", "feeling", "sensation", "voice", "critic", "protector", "emotion", "knot", "pressure"}},
	{SignalLocation, []string{
		"chest", "stomach", "belly", "throat", "head", "shoulder", "back", "neck", "jaw",
		"heart", "gut", "arm", "leg", "hand", "face", "in my body",
	}},
	{SignalDescription, []string{
		"shape", "color", "colour", "size", "texture", "dark", "heavy", "sharp", "round",
		"ball", "looks like", "it's like", "like a", "image", "years old", "young", "hot", "cold",
	}},
	{SignalTowardFeeling, []string{"toward", "towards", "feel about it", "feel for it"}},
	// Self-energy.
	{SignalSelfEnergy, []string{
		"curious", "compassion", "calm", "open", "warm", "i care", "caring", "kindness", "accept", "patient",
		"connected", "clear", "confident", "want to know", "interest", "gentle", "tender",
	}},
	{SignalBlended, []string{
		"annoyed", "frustrated", "critical", "angry", "hate", "irritat", "want it gone",
		"get rid", "disgust", "impatient", "sick of", "scared of it",
	}},
	{SignalSteppedBack, []string{"step back", "stepped back", "moved back", "some space", "soften", "it did", "willing"}},
	{SignalFear, []string{"afraid", "scared", "fear", "worried", "worry", "what if", "terrified", "would happen"}},
	{SignalFearNeed, []string{"needs", "need to", "reassur", "protect", "would help", "wants me to", "it wants"}},
	{SignalFearEased, []string{"relief", "relieved", "lighter", "softer", "better", "okay", "calmer", "at ease", "trusts", "agrees"}},
	{SignalVentral, []string{"safe", "calm", "connected", "at ease", "relaxed", "peace", "grounded", "present"}},
	{SignalSympathetic, []string{"anxious", "racing", "tense", "fight", "flight", "alert", "restless", "angry", "panic", "on edge"}},
	{SignalDorsal, []string{"numb", "shut down", "collapse", "tired", "heavy", "frozen", "disconnect", "fog", "withdraw"}},
	{SignalTrigger, []string{"trigger", "sets me off", "reminds me", "happens when", "whenever", "every time", "after"}},
	{SignalGlimmer, []string{
		"glimmer", "small moment", "sunlight", "smile", "music", "my dog", "my cat", "nature",
		"tea", "friend", "laugh", "walk",
	}},
	{SignalAssociation, []string{"reminds me", "associat", "makes me think", "connected to", "like my", "brings up"}},
	{SignalDynamics, []string{"between", "part of me", "inner", "dynamic", "conflict", "pull", "side of me", "tension"}},
	{SignalInterpretation, []string{"means", "meaning", "message", "teaching", "realize", "understand", "learn"}},
	{SignalRitual, []string{"ritual", "honor", "honour", "ceremony", "i will", "commit", "candle", "write", "altar"}},
}

var replyVocabulary = []struct {
	signal Signal
	words  []string
}{
	{SignalAskedFeelToward, []string{"how do you feel toward", "what do you feel toward", "how do you feel about this part"}},
	{SignalUnblendPrompt, []string{"step back", "separate a little", "give you some space", "relax back", "make some room"}},
}

const answeredMinWords = 3

// ExtractSignals detects the transition signals of one turn. It is pure.
func ExtractSignals(userText, replyText string) SignalSet {
	var set SignalSet
	user := strings.ToLower(userText)
	if len(strings.Fields(user)) >= answeredMinWords {
		set |= SignalAnswered
	}
	for _, v := range userVocabulary {
		if utils.ContainsAny(user, v.words) {
			set |= v.signal
		}
	}

	reply := strings.ToLower(replyText)
	for _, v := range replyVocabulary {
		if utils.ContainsAny(reply, v.words) {
			set |= v.signal
		}
	}
	return set
}
