package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/easeaico/project-integrate/internal/config"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/storage"
	"github.com/easeaico/project-integrate/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment configuration and database connectivity",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored session counts per protocol",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Validating configuration...")

	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return fmt.Errorf("configuration validation failed")
	}
	for _, s := range cfg.Settings() {
		if s.Value == "" {
			fmt.Fprintf(out, "  - %s (%s): not set\n", s.Name, s.Env)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s (%s): %s\n", s.Name, s.Env, s.Value)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return fmt.Errorf("configuration validation failed")
	}

	fmt.Fprintln(out, "\nLoading practice library...")
	library, err := practice.LoadLibrary(cfg.PracticeLibrary)
	if err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return fmt.Errorf("practice library validation failed")
	}
	fmt.Fprintf(out, "  ✓ %d practices loaded\n", len(library.All()))

	if cfg.DatabaseURL == "" {
		fmt.Fprintln(out, "\nNo DATABASE_URL set; sessions will be kept in memory")
		fmt.Fprintln(out, "\nConfiguration validation completed!")
		return nil
	}

	fmt.Fprintln(out, "\nTesting database connection...")
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return fmt.Errorf("database validation failed")
	}
	defer store.Close()
	fmt.Fprintf(out, "  ✓ %s connection successful\n", storage.Driver(cfg.DatabaseURL))

	if store.DB().Migrator().HasTable("sessions") {
		fmt.Fprintln(out, "  ✓ sessions table present")
	} else {
		fmt.Fprintln(out, "  ! sessions table missing (run operator migrate)")
	}

	fmt.Fprintln(out, "\nConfiguration validation completed!")
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	url, err := databaseURL()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	store, err := storage.NewStore(ctx, url)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Sessions.CountByProtocol(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(out, "No sessions stored")
		return nil
	}

	protocols := make([]string, 0, len(counts))
	for p := range counts {
		protocols = append(protocols, string(p))
	}
	sort.Strings(protocols)

	var total int64
	for _, p := range protocols {
		n := counts[types.Protocol(p)]
		total += n
		fmt.Fprintf(out, "  %-10s %d\n", p, n)
	}
	fmt.Fprintf(out, "  %-10s %d\n", "total", total)
	return nil
}
