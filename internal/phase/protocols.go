package phase

import (
	"fmt"

	"github.com/easeaico/project-integrate/internal/types"
)

// Six F's phases.
const (
	Find         types.Phase = "find"
	FindLocation types.Phase = "findLocation"
	Focus        types.Phase = "focus"
	FleshOut     types.Phase = "fleshOut"
	FeelToward   types.Phase = "feelToward"
	Unblend      types.Phase = "unblend"
	Befriend     types.Phase = "befriend"
	Fears        types.Phase = "fears"
	AddressFears types.Phase = "addressFears"
)

// Polyvagal mapping phases.
const (
	CheckIn     types.Phase = "checkIn"
	Ventral     types.Phase = "ventral"
	Sympathetic types.Phase = "sympathetic"
	Dorsal      types.Phase = "dorsal"
	Triggers    types.Phase = "triggers"
	Glimmers    types.Phase = "glimmers"
)

// Johnson 4-step phases.
const (
	Associations   types.Phase = "associations"
	Dynamics       types.Phase = "dynamics"
	Interpretation types.Phase = "interpretation"
	Ritual         types.Phase = "ritual"
)

// Summary closes every protocol.
const Summary types.Phase = "summary"

var sixFs = newDefinition(types.ProtocolSixFs,
	"IFS Six F's",
	"Guide the user through Internal Family Systems parts work one step at a time. "+
		"Stay curious about the part, never argue with it, and help the user notice Self-energy.",
	Summary,
	Step{
		Phase:   Find,
		Title:   "Find",
		Prompt:  "Take a moment to turn inward. Is there a part of you, a feeling, sensation or inner voice, that is asking for attention right now?",
		Field:   "part",
		Default: FindLocation,
		Edges: []Edge{
			{To: FindLocation, Any: SignalPartNamed | SignalLocation},
		},
	},
	Step{
		Phase:   FindLocation,
		Title:   "Find it in the body",
		Prompt:  "Where do you notice this part in or around your body?",
		Field:   "location",
		Default: Focus,
		Edges: []Edge{
			{To: Focus, Any: SignalLocation | SignalDescription},
		},
	},
	Step{
		Phase:   Focus,
		Title:   "Focus",
		Prompt:  "See if you can turn your attention toward it and simply notice it. What do you become aware of as you focus on it?",
		Field:   "focus",
		Default: FleshOut,
		Edges: []Edge{
			{To: FleshOut, Any: SignalDescription},
			{To: FeelToward, Any: SignalTowardFeeling | SignalAskedFeelToward},
		},
	},
	Step{
		Phase:   FleshOut,
		Title:   "Flesh it out",
		Prompt:  "What is it like? Does it have a shape, a color, an age or an image that goes with it?",
		Field:   "description",
		Default: FeelToward,
		Edges: []Edge{
			{To: FeelToward, Any: SignalTowardFeeling | SignalAskedFeelToward | SignalAnswered},
		},
	},
	Step{
		Phase:   FeelToward,
		Title:   "Feel toward",
		Prompt:  "How do you feel toward this part right now?",
		Field:   "feelToward",
		Default: Befriend,
		Edges: []Edge{
			// The reply's unblend wording is checked before the user's Self-energy.
			{To: Unblend, All: SignalUnblendPrompt | SignalBlended},
			{To: Befriend, Any: SignalSelfEnergy},
			{To: Befriend},
		},
	},
	Step{
		Phase:   Unblend,
		Title:   "Unblend",
		Prompt:  "It sounds like another part has feelings about this one. Would it be willing to step back a little, so you can be with the first part from a calmer place?",
		Field:   "unblend",
		Default: FeelToward,
		Hold:    true,
		Edges: []Edge{
			{To: Befriend, Any: SignalSelfEnergy},
			{To: FeelToward, Any: SignalSteppedBack},
		},
	},
	Step{
		Phase:   Befriend,
		Title:   "Befriend",
		Prompt:  "Let the part know you are here with it. What would it like you to know about itself?",
		Field:   "befriend",
		Default: Fears,
		Edges: []Edge{
			{To: Fears, Any: SignalFear},
		},
	},
	Step{
		Phase:   Fears,
		Title:   "Fears",
		Prompt:  "What is this part afraid would happen if it stopped doing what it does?",
		Field:   "fears",
		Default: AddressFears,
		Edges: []Edge{
			{To: AddressFears, Any: SignalFearNeed},
		},
	},
	Step{
		Phase:   AddressFears,
		Title:   "Address fears",
		Prompt:  "What does the part need from you so it can feel a little safer?",
		Field:   "addressFears",
		Default: Summary,
		Edges: []Edge{
			{To: Summary, Any: SignalFearEased},
		},
	},
	Step{
		Phase:  Summary,
		Title:  "Summary",
		Prompt: "Let's pause and gather what you noticed. What feels most important to take with you from meeting this part?",
		Field:  "summary",
	},
)

var polyvagal = newDefinition(types.ProtocolPolyvagal,
	"Polyvagal mapping",
	"Help the user map their own nervous system: what safety, activation and shutdown feel like for them, "+
		"what tends to move them between states, and which glimmers help them return to ventral.",
	Summary,
	Step{
		Phase:   CheckIn,
		Title:   "Check in",
		Prompt:  "Before we start mapping, how is your body right now, in a few words?",
		Field:   "checkIn",
		Default: Ventral,
		Edges: []Edge{
			{To: Ventral, Any: SignalAnswered},
		},
	},
	Step{
		Phase:   Ventral,
		Title:   "Ventral",
		Prompt:  "Think of a time you felt safe and connected. What does that feel like in your body?",
		Field:   "ventral",
		Default: Sympathetic,
		Edges: []Edge{
			{To: Sympathetic, Any: SignalVentral},
		},
	},
	Step{
		Phase:   Sympathetic,
		Title:   "Sympathetic",
		Prompt:  "Now think about a time you felt mobilised, anxious or on alert. What shows up in your body then?",
		Field:   "sympathetic",
		Default: Dorsal,
		Edges: []Edge{
			{To: Dorsal, Any: SignalSympathetic},
		},
	},
	Step{
		Phase:   Dorsal,
		Title:   "Dorsal",
		Prompt:  "And when you shut down or go numb, what is that like for you?",
		Field:   "dorsal",
		Default: Triggers,
		Edges: []Edge{
			{To: Triggers, Any: SignalDorsal},
		},
	},
	Step{
		Phase:   Triggers,
		Title:   "Triggers",
		Prompt:  "What tends to move you out of safety? Are there situations, people or sensations that set it off?",
		Field:   "triggers",
		Default: Glimmers,
		Edges: []Edge{
			{To: Glimmers, Any: SignalTrigger},
		},
	},
	Step{
		Phase:   Glimmers,
		Title:   "Glimmers",
		Prompt:  "What are the small moments that bring you back toward safety, even a little?",
		Field:   "glimmers",
		Default: Summary,
		Edges: []Edge{
			{To: Summary, Any: SignalGlimmer},
		},
	},
	Step{
		Phase:  Summary,
		Title:  "Summary",
		Prompt: "Here is the map we drew together. What stands out to you as you look at it?",
		Field:  "summary",
	},
)

var johnson = newDefinition(types.ProtocolJohnson,
	"Johnson 4-step",
	"Walk the user through Robert Johnson's four steps for working with an image from their experience: "+
		"associations, dynamics, interpretation and a concrete ritual that honours it.",
	Summary,
	Step{
		Phase:   Associations,
		Title:   "Associations",
		Prompt:  "Pick one image or moment from your experience. What comes to mind when you sit with it?",
		Field:   "associations",
		Default: Dynamics,
		Edges: []Edge{
			{To: Dynamics, Any: SignalAssociation},
		},
	},
	Step{
		Phase:   Dynamics,
		Title:   "Dynamics",
		Prompt:  "Which part of you does this image connect with, and how does it show up in your inner life?",
		Field:   "dynamics",
		Default: Interpretation,
		Edges: []Edge{
			{To: Interpretation, Any: SignalDynamics},
		},
	},
	Step{
		Phase:   Interpretation,
		Title:   "Interpretation",
		Prompt:  "Putting it together, what message might this experience have for you?",
		Field:   "interpretation",
		Default: Ritual,
		Edges: []Edge{
			{To: Ritual, Any: SignalInterpretation},
		},
	},
	Step{
		Phase:   Ritual,
		Title:   "Ritual",
		Prompt:  "What small physical act could honour this insight in the coming days?",
		Field:   "ritual",
		Default: Summary,
		Edges: []Edge{
			{To: Summary, Any: SignalRitual},
		},
	},
	Step{
		Phase:  Summary,
		Title:  "Summary",
		Prompt: "Let's gather the thread. What do you want to remember from this work?",
		Field:  "summary",
	},
)

var definitions = map[types.Protocol]*Definition{
	types.ProtocolSixFs:     sixFs,
	types.ProtocolPolyvagal: polyvagal,
	types.ProtocolJohnson:   johnson,
}

func init() {
	for _, d := range definitions {
		if err := d.validate(); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition for protocol.
func Lookup(protocol types.Protocol) (*Definition, error) {
	d, ok := definitions[protocol]
	if !ok {
		return nil, fmt.Errorf("unknown protocol %q", protocol)
	}
	return d, nil
}

// Protocols lists the supported protocols in a stable order.
func Protocols() []types.Protocol {
	return []types.Protocol{types.ProtocolSixFs, types.ProtocolPolyvagal, types.ProtocolJohnson}
}
