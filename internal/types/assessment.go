package types

// NervousState is a polyvagal state label.
type NervousState string

const (
	StateVentral     NervousState = "ventral"
	StateSympathetic NervousState = "sympathetic"
	StateDorsal      NervousState = "dorsal"
	StateUnknown     NervousState = "unknown"
)

// StateAssessment is the classifier output for a single user message.
type StateAssessment struct {
	State                    NervousState `json:"state"`
	Intensity                int          `json:"intensity"`
	Confidence               float64      `json:"confidence"`
	NeedsImmediateRegulation bool         `json:"needs_immediate_regulation"`
}

// ClampIntensity bounds an intensity to 0-10.
func ClampIntensity(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}
