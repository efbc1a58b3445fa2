// Package session holds the persisted per-session document and the
// collaborators that load, save and serialize access to it.
package session

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/types"
)

// ErrNotFound is returned by a Store for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Document is the plain serializable record of one session.
type Document struct {
	ID       string          `json:"id"`
	Machine  phase.State     `json:"machine"`
	Messages []types.Message `json:"messages"`
	Entities []types.Entity  `json:"entities"`
	Memory   memory.State    `json:"conversationMemory"`
	Trend    emotion.Trend   `json:"nervousSystemState"`
	// LastPracticeID is the practice suggested by the latest assistant message.
	LastPracticeID string    `json:"lastPracticeId,omitempty"`
	Finished       bool      `json:"finished"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewDocument returns an empty document positioned at the protocol's first phase.
func NewDocument(id string, protocol types.Protocol) (*Document, error) {
	def, err := phase.Lookup(protocol)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Document{
		ID:        id,
		Machine:   phase.State{Protocol: protocol, Phase: def.Start()},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone returns a copy that shares no slices or maps with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Messages = slices.Clone(d.Messages)
	out.Entities = slices.Clone(d.Entities)
	out.Machine.Data = maps.Clone(d.Machine.Data)
	out.Memory = d.Memory.Clone()
	return &out
}

// LastAssistant returns the latest assistant message, if any.
func (d *Document) LastAssistant() (types.Message, bool) {
	for i := len(d.Messages) - 1; i >= 0; i-- {
		if d.Messages[i].Role == types.RoleAssistant {
			return d.Messages[i], true
		}
	}
	return types.Message{}, false
}

// Store loads and saves session documents.
type Store interface {
	Load(ctx context.Context, id string) (*Document, error)
	Save(ctx context.Context, id string, doc *Document) error
}
