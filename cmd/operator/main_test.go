package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/storage"
	"github.com/easeaico/project-integrate/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "002_b.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(dir, "001_a.sql"), "SELECT 1;")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := findMigrationFiles(dir, "")
	if err != nil {
		t.Fatalf("findMigrationFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	files, err = findMigrationFiles(dir, "002_b.sql")
	if err != nil || len(files) != 1 {
		t.Fatalf("specific file = %v, %v", files, err)
	}
	if _, err := findMigrationFiles(dir, "missing.sql"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := findMigrationFiles(filepath.Join(dir, "absent"), ""); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestExecuteSQLFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewStore(ctx, filepath.Join(dir, "op.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer store.Close()

	path := filepath.Join(dir, "001.sql")
	writeFile(t, path, "CREATE TABLE probes (id INTEGER PRIMARY KEY);")
	if err := executeSQLFile(ctx, store.DB(), path); err != nil {
		t.Fatalf("executeSQLFile() error = %v", err)
	}
	if !store.DB().Migrator().HasTable("probes") {
		t.Fatalf("probes table not created")
	}

	bad := filepath.Join(dir, "002.sql")
	writeFile(t, bad, "CREATE TABLE")
	if err := executeSQLFile(ctx, store.DB(), bad); err == nil {
		t.Fatalf("expected error for invalid SQL")
	}
}

func TestMigrateAndStatsCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "op.db")
	t.Setenv("DATABASE_URL", dbPath)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out.String(), "sessions table migrated") {
		t.Fatalf("unexpected migrate output:\n%s", out.String())
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, dbPath)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	doc, err := session.NewDocument("s-1", types.ProtocolJohnson)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if err := store.Sessions.Save(ctx, doc.ID, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Close()

	out.Reset()
	rootCmd.SetArgs([]string{"stats"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out.String(), "johnson") || !strings.Contains(out.String(), "total") {
		t.Fatalf("unexpected stats output:\n%s", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("output = %q", out.String())
	}
}
