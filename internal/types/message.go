package types

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Protocol names a guided dialogue protocol.
type Protocol string

const (
	// ProtocolSixFs is IFS parts work: find, focus, flesh out, feel toward, befriend, fears.
	ProtocolSixFs Protocol = "six_fs"
	// ProtocolPolyvagal maps the user's ventral, sympathetic and dorsal states.
	ProtocolPolyvagal Protocol = "polyvagal"
	// ProtocolJohnson is the four-step associations, dynamics, interpretation, ritual flow.
	ProtocolJohnson Protocol = "johnson"
)

// Phase is a step within a protocol.
type Phase string

// ReplySource records how an assistant reply was produced.
type ReplySource string

const (
	SourceRemote     ReplySource = "remote"
	SourceFallback   ReplySource = "fallback"
	SourceRegulation ReplySource = "regulation"
	// SourceScripted marks opening and lifecycle prompts sent outside a user turn.
	SourceScripted ReplySource = "scripted"
)

// Message is one entry of the append-only conversation.
type Message struct {
	ID            string           `json:"id,omitempty"`
	Role          Role             `json:"role"`
	Text          string           `json:"text"`
	Timestamp     time.Time        `json:"timestamp"`
	StateSnapshot *StateAssessment `json:"state_snapshot,omitempty"`
	Entities      []Entity         `json:"entities,omitempty"`
	Phase         Phase            `json:"phase,omitempty"`
	// Source and PracticeID are only set on assistant messages.
	Source     ReplySource `json:"source,omitempty"`
	PracticeID string      `json:"practice_id,omitempty"`
}
