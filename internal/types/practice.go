package types

// Urgency ranks how strongly a practice is suggested.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Practice is a grounding or regulation exercise from the reference library.
type Practice struct {
	ID              string   `json:"id" yaml:"id"`
	Type            string   `json:"type" yaml:"type"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	Urgency         Urgency  `json:"urgency" yaml:"urgency"`
	Steps           []string `json:"steps" yaml:"steps"`
	DurationMinutes int      `json:"duration_minutes" yaml:"duration_minutes"`
}
