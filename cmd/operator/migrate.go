package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/easeaico/project-integrate/internal/config"
	"github.com/easeaico/project-integrate/internal/storage"
)

var (
	migrateDryRun bool
	schemaFile    string
	schemaDir     string
	schemaDryRun  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the sessions table from the storage model",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Execute SQL migration files from the migrations directory",
	Long: `schema runs every *.sql file in --dir in filename order, or only
--file when given. Use it on PostgreSQL deployments that manage the schema
by hand instead of through migrate.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "show what would be migrated without executing")

	schemaCmd.Flags().StringVar(&schemaFile, "file", "", "specific migration file to execute")
	schemaCmd.Flags().StringVar(&schemaDir, "dir", "migrations", "directory containing migration files")
	schemaCmd.Flags().BoolVar(&schemaDryRun, "dry-run", false, "show what would be executed without running")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	url, err := databaseURL()
	if err != nil {
		return err
	}

	if migrateDryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		fmt.Fprintf(out, "  - Would migrate the sessions table (%s)\n", storage.Driver(url))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := storage.NewStore(ctx, url)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(out, "Migrating sessions table...")
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "  ✓ sessions table migrated")
	fmt.Fprintln(out, "\nMigration completed successfully!")
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	files, err := findMigrationFiles(schemaDir, schemaFile)
	if err != nil {
		return fmt.Errorf("failed to find migration files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No migration files found")
		return nil
	}

	fmt.Fprintf(out, "Found %d migration file(s):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  - %s\n", filepath.Base(f))
	}
	if schemaDryRun {
		fmt.Fprintln(out, "\nDry run mode - no SQL will be executed")
		return nil
	}

	url, err := databaseURL()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	store, err := storage.NewStore(ctx, url)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(out, "\nExecuting migrations...")
	for _, f := range files {
		fmt.Fprintf(out, "  Running %s... ", filepath.Base(f))
		if err := executeSQLFile(ctx, store.DB(), f); err != nil {
			fmt.Fprintln(out, "✗")
			return fmt.Errorf("failed to execute %s: %w", f, err)
		}
		fmt.Fprintln(out, "✓")
	}
	fmt.Fprintln(out, "\nSchema migration completed successfully!")
	return nil
}

// databaseURL reads only DATABASE_URL so operator commands work without provider keys.
func databaseURL() (string, error) {
	cfg, err := config.Parse()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return cfg.DatabaseURL, nil
}

func findMigrationFiles(dir, specificFile string) ([]string, error) {
	if specificFile != "" {
		fullPath := filepath.Join(dir, specificFile)
		if _, err := os.Stat(fullPath); err != nil {
			return nil, fmt.Errorf("migration file not found: %s", fullPath)
		}
		return []string{fullPath}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func executeSQLFile(ctx context.Context, db *gorm.DB, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := db.WithContext(ctx).Exec(string(content)).Error; err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}
