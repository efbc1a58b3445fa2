// Package main provides the operator CLI for deployment and operations tasks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "operator",
	Short: "Deployment and operations CLI for the dialogue engine",
	Long: `operator prepares and inspects the session database used by the
dialogue server and companion.

Configuration is read from the environment (and .env when present).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file loaded", "error", err.Error())
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dialogue operator v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, schemaCmd, validateCmd, statsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
