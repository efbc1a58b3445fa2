package memory

// Snapshot is the slice of memory rendered into the system instruction.
type Snapshot struct {
	AskedQuestions         []string
	DiscussedPatterns      []string
	UserChallenges         []string
	ContextNotes           []string
	ExploredThemes         []string
	IdentifiedParts        []string
	CompletedInterventions []string
	UserGoals              []string
}

const (
	snapshotQuestions = 15
	snapshotItems     = 5
	snapshotSets      = 10
)

// Snapshot returns the most recent entries of each list.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		AskedQuestions:         lastN(s.AskedQuestions, snapshotQuestions),
		DiscussedPatterns:      lastN(s.DiscussedPatterns, snapshotItems),
		UserChallenges:         lastN(s.UserChallenges, snapshotItems),
		ContextNotes:           lastN(s.ContextNotes, snapshotItems),
		ExploredThemes:         lastN(s.ExploredThemes, snapshotSets),
		IdentifiedParts:        lastN(s.IdentifiedParts, snapshotSets),
		CompletedInterventions: lastN(s.CompletedInterventions, snapshotSets),
		UserGoals:              lastN(s.UserGoals, snapshotItems),
	}
}

// Empty reports whether the snapshot has nothing to render.
func (s Snapshot) Empty() bool {
	return len(s.AskedQuestions) == 0 &&
		len(s.DiscussedPatterns) == 0 &&
		len(s.UserChallenges) == 0 &&
		len(s.ContextNotes) == 0 &&
		len(s.ExploredThemes) == 0 &&
		len(s.IdentifiedParts) == 0 &&
		len(s.CompletedInterventions) == 0 &&
		len(s.UserGoals) == 0
}
