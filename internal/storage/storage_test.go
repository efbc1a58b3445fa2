package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func TestDriver(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db": "postgres",
		"postgresql://localhost/db":        "postgres",
		"host=localhost user=u dbname=db":  "postgres",
		"sessions.db":                      "sqlite",
		"sqlite://var/sessions.db":         "sqlite",
		"file::memory:?cache=shared":       "sqlite",
	}
	for url, want := range cases {
		if got := Driver(url); got != want {
			t.Fatalf("Driver(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestNewStoreRejectsEmptyURL(t *testing.T) {
	if _, err := NewStore(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestSessionRepoLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Sessions.Load(context.Background(), "nope")
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc, err := session.NewDocument("s1", types.ProtocolSixFs)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	doc.CreatedAt, doc.UpdatedAt = ts, ts
	doc.Machine.Data = map[string]string{"part": "a tight anxious part"}
	doc.Messages = []types.Message{{
		Role:      types.RoleUser,
		Text:      "I feel a tight anxious part in my chest",
		Timestamp: ts,
		StateSnapshot: &types.StateAssessment{
			State: types.StateSympathetic, Intensity: 5, Confidence: 1.0 / 3,
		},
		Entities: []types.Entity{{Name: "anxious part", Category: types.CategoryParts, ContextSnippet: "I feel a tight anxious part in my chest", Confidence: 0.9}},
		Phase:    "find",
	}}
	doc.Entities = doc.Messages[0].Entities
	doc.Memory.IdentifiedParts = []string{"anxious part"}
	doc.Memory.Version = 1
	doc.Trend = emotion.Trend{Current: types.StateSympathetic, LastState: types.StateSympathetic, Streak: 1}
	doc.LastPracticeID = "parts-check-in"

	if err := store.Sessions.Save(ctx, doc.ID, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Sessions.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionRepoSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc, _ := session.NewDocument("s1", types.ProtocolJohnson)
	if err := store.Sessions.Save(ctx, doc.ID, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc.Finished = true
	doc.Machine.Phase = "summary"
	if err := store.Sessions.Save(ctx, doc.ID, doc); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Sessions.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Finished || got.Machine.Phase != "summary" {
		t.Fatalf("Load() = %+v, want finished at summary", got)
	}
}

func TestCountByProtocol(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for i, p := range []types.Protocol{types.ProtocolSixFs, types.ProtocolSixFs, types.ProtocolPolyvagal} {
		doc, _ := session.NewDocument(fmt.Sprintf("s%d", i), p)
		if err := store.Sessions.Save(ctx, doc.ID, doc); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	counts, err := store.Sessions.CountByProtocol(ctx)
	if err != nil {
		t.Fatalf("CountByProtocol() error = %v", err)
	}
	want := map[types.Protocol]int64{types.ProtocolSixFs: 2, types.ProtocolPolyvagal: 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestNilRepoNotConfigured(t *testing.T) {
	var repo *SessionRepo
	if _, err := repo.Load(context.Background(), "s1"); err == nil {
		t.Fatalf("expected not configured error")
	}
}
