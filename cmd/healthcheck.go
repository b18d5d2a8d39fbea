package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if session-handoff can locate and access session data",
	Long: `Check the health of session-handoff by verifying, for each configured
source:
  • Storage location accessibility
  • Session discovery
  • Session count

This command is useful for debugging storage issues, especially in CI/CD environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Session Handoff Health Check"))
		fmt.Println()

		registry := activeRegistry()
		adapters := registry.Adapters()
		if len(adapters) == 0 {
			fmt.Println(warningStyle.Render("⚠️  All sources are disabled in configuration"))
			return nil
		}

		healthy := 0
		for _, adapter := range adapters {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Checking %s...", adapter.Label())))
			refs, err := adapter.Discover()
			if err != nil {
				fmt.Println(errorStyle.Render("❌ Discovery failed:"), err)
				fmt.Println()
				continue
			}
			if len(refs) == 0 {
				fmt.Println(warningStyle.Render("⚠️  Storage reachable but no sessions found"))
				fmt.Println()
				continue
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(refs))))
			if healthcheckVerbose {
				for i, ref := range refs {
					if i >= 5 { // Show first 5
						fmt.Printf("   ... and %d more\n", len(refs)-5)
						break
					}
					fmt.Printf("   [%d] %s (%s)\n", i+1, ref.ID, ref.ModTime.Format("2006-01-02 15:04"))
				}
			}
			healthy++
			fmt.Println()
		}

		fmt.Println(sectionStyle.Render("Summary"))
		if healthy == 0 {
			fmt.Println(errorStyle.Render("❌ No source has accessible session data"))
			return fmt.Errorf("no healthy sources")
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ %d of %d source(s) healthy", healthy, len(adapters))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "verbose-check", false, "Show detailed information for each source")
}
