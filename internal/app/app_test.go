package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/easeaico/project-integrate/internal/config"
	"github.com/easeaico/project-integrate/internal/types"
)

func testConfig() config.Config {
	return config.Config{
		LLMProvider:   config.ProviderNone,
		Classifier:    config.ClassifierKeyword,
		RemoteTimeout: time.Second,
		MaxTokens:     100,
		HistoryTurns:  3,
		StallLimit:    3,
		Therapeutic:   true,
	}
}

func TestNewInMemory(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()
	if a.Store != nil {
		t.Fatalf("store should be nil without DATABASE_URL")
	}
	if len(a.Library.All()) == 0 {
		t.Fatalf("practice library is empty")
	}
}

func TestNewWithSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "sessions.db")

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	doc, err := a.Engine.Start(ctx, types.ProtocolSixFs)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	turn, err := a.Engine.Turn(ctx, doc.ID, "I feel a tight anxious part in my chest")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if turn.Reply.Source != types.SourceFallback {
		t.Fatalf("source = %q, want fallback without a provider", turn.Reply.Source)
	}

	stored, err := a.Store.Sessions.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stored.Messages) != 3 {
		t.Fatalf("stored messages = %d, want 3", len(stored.Messages))
	}
}

func TestNewRejectsMissingLibrary(t *testing.T) {
	cfg := testConfig()
	cfg.PracticeLibrary = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing practice library")
	}
}
