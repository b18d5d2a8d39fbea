package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iksnae/session-handoff/internal/handoff"
)

var (
	handoffMode string
	handoffOut  string
)

var handoffCmd = &cobra.Command{
	Use:   "handoff <session-id>",
	Short: "Generate a handoff document for a session",
	Long: `Generate a markdown handoff document summarizing what happened in a
session so the work can continue in a different tool.

Modes:
  inline     tight truncation budgets, for injecting into another tool's prompt (default)
  reference  looser budgets, for a file meant to be read by a human

With --out the document is written to a file; otherwise it goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := handoffMode
		if mode == "" {
			mode = cfg.DefaultMode
		}

		loaded, err := resolveSession(activeRegistry(), cacheManager(), args[0])
		if err != nil {
			return err
		}

		doc, err := handoff.Generate(
			loaded.Session,
			loaded.Messages,
			loaded.FilesModified,
			loaded.PendingTasks,
			loaded.ToolSummaries,
			loaded.Notes,
			handoff.Mode(mode),
		)
		if err != nil {
			return err
		}

		if handoffOut == "" {
			fmt.Print(doc)
			return nil
		}

		outPath := handoffOut
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(cfg.OutputDir, outPath)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write handoff document: %w", err)
		}
		fmt.Printf("Handoff document written to %s\n", outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(handoffCmd)
	handoffCmd.Flags().StringVarP(&handoffMode, "mode", "m", "", "Display mode: inline or reference (default from config)")
	handoffCmd.Flags().StringVarP(&handoffOut, "out", "o", "", "Write the document to a file instead of stdout")
}
