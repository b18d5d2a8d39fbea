package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iksnae/session-handoff/internal/config"
	"github.com/iksnae/session-handoff/internal/log"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config

	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "session-handoff",
	Short: "Turn AI coding sessions into portable handoff documents",
	Long: `A CLI tool that normalizes session logs from AI coding assistants
(Claude Code, Codex CLI, Cursor) into one representation and generates a
handoff document so work can continue in a different tool.

Features:
  • List sessions across all supported tools
  • View a session's overview and recent conversation
  • Generate a deterministic markdown handoff document
  • Inline mode for prompt injection, reference mode for humans
  • Cached session index for fast repeat runs

Quick Start:
  session-handoff list                     # List sessions from all sources
  session-handoff show <session-id>        # View a specific session
  session-handoff handoff <session-id>     # Print the handoff document`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.Init("", verbose); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: ~/.session-handoff/config.yaml)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
