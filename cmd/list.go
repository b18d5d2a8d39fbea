package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/session-handoff/internal/cache"
)

var (
	listSource     string
	listLimit      int
	listClearCache bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available sessions",
	Long:  `List sessions discovered across all enabled sources, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := cacheManager()
		if listClearCache {
			if err := cm.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}

		registry := activeRegistry()
		index, err := buildIndex(registry, cm)
		if err != nil {
			return err
		}

		entries := index.Entries
		if listSource != "" {
			filtered := make([]cache.IndexEntry, 0, len(entries))
			for _, entry := range entries {
				if entry.Source == listSource {
					filtered = append(filtered, entry)
				}
			}
			entries = filtered
		}
		if listLimit > 0 && len(entries) > listLimit {
			entries = entries[:listLimit]
		}

		if len(entries) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(entries))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tLAST ACTIVE\tMESSAGES\tSUMMARY")
		for _, entry := range entries {
			messages := "-"
			if entry.MessageCount > 0 {
				messages = countStyle.Render(fmt.Sprintf("%d", entry.MessageCount))
			}
			summary := entry.Summary
			if len(summary) > 48 {
				summary = summary[:48] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				idStyle.Render(shortID(entry.ID)),
				sourceStyle.Render(entry.Source),
				dateStyle.Render(entry.ModTime.Format("2006-01-02 15:04")),
				messages,
				summary,
			)
		}
		return w.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter by source (claude-code, codex, cursor)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most N sessions")
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Clear the session cache before listing")
}
