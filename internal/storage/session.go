package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/memory"
	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
)

// sessionModel maps to the sessions table. Nested state is stored as JSON.
type sessionModel struct {
	ID             string          `gorm:"primaryKey;size:64"`
	Protocol       string          `gorm:"size:32;index"`
	Phase          string          `gorm:"size:32"`
	Machine        phase.State     `gorm:"type:jsonb;serializer:json"`
	Messages       []types.Message `gorm:"type:jsonb;serializer:json"`
	Entities       []types.Entity  `gorm:"type:jsonb;serializer:json"`
	Memory         memory.State    `gorm:"type:jsonb;serializer:json"`
	Trend          emotion.Trend   `gorm:"type:jsonb;serializer:json"`
	LastPracticeID string          `gorm:"size:64"`
	Finished       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (sessionModel) TableName() string {
	return "sessions"
}

// SessionRepo implements session.Store.
type SessionRepo struct {
	db *gorm.DB
}

var _ session.Store = (*SessionRepo)(nil)

// NewSessionRepo returns a SessionRepo.
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Load returns session.ErrNotFound for unknown ids.
func (r *SessionRepo) Load(ctx context.Context, id string) (*session.Document, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("session repo not configured")
	}
	var models []sessionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load session: %w", result.Error)
	}
	if len(models) == 0 {
		return nil, session.ErrNotFound
	}
	return documentFromModel(models[0]), nil
}

// Save inserts or replaces the document.
func (r *SessionRepo) Save(ctx context.Context, id string, doc *session.Document) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("session repo not configured")
	}
	if doc == nil {
		return fmt.Errorf("session document is nil")
	}
	model := modelFromDocument(id, doc)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// CountByProtocol returns how many sessions exist per protocol.
func (r *SessionRepo) CountByProtocol(ctx context.Context) (map[types.Protocol]int64, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("session repo not configured")
	}
	var rows []struct {
		Protocol string
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Select("protocol, count(*) as total").
		Group("protocol").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	counts := make(map[types.Protocol]int64, len(rows))
	for _, row := range rows {
		counts[types.Protocol(row.Protocol)] = row.Total
	}
	return counts, nil
}

func modelFromDocument(id string, doc *session.Document) sessionModel {
	return sessionModel{
		ID:             id,
		Protocol:       string(doc.Machine.Protocol),
		Phase:          string(doc.Machine.Phase),
		Machine:        doc.Machine,
		Messages:       doc.Messages,
		Entities:       doc.Entities,
		Memory:         doc.Memory,
		Trend:          doc.Trend,
		LastPracticeID: doc.LastPracticeID,
		Finished:       doc.Finished,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func documentFromModel(model sessionModel) *session.Document {
	return &session.Document{
		ID:             model.ID,
		Machine:        model.Machine,
		Messages:       model.Messages,
		Entities:       model.Entities,
		Memory:         model.Memory,
		Trend:          model.Trend,
		LastPracticeID: model.LastPracticeID,
		Finished:       model.Finished,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
