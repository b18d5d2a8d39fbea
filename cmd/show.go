package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/session-handoff/internal/handoff"
)

var showLimit int

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	toolCallStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's overview and recent messages",
	Long:  `Display one session's metadata and conversation, most recent messages last.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := resolveSession(activeRegistry(), cacheManager(), args[0])
		if err != nil {
			return err
		}

		session := loaded.Session
		fmt.Println(sessionHeaderStyle.Render(fmt.Sprintf("Session %s", session.ID)))

		var meta []string
		meta = append(meta, fmt.Sprintf("Source: %s", handoff.SourceLabel(session.Source)))
		if session.Cwd != "" {
			meta = append(meta, fmt.Sprintf("Directory: %s", session.Cwd))
		}
		if session.Branch != "" {
			meta = append(meta, fmt.Sprintf("Branch: %s", session.Branch))
		}
		if !session.UpdatedAt.IsZero() {
			meta = append(meta, fmt.Sprintf("Last active: %s", session.UpdatedAt.Format("2006-01-02 15:04")))
		}
		meta = append(meta, fmt.Sprintf("Messages: %d", len(loaded.Messages)))
		fmt.Println(sessionMetaStyle.Render(strings.Join(meta, "  |  ")))
		fmt.Println()

		messages := loaded.Messages
		if showLimit > 0 && len(messages) > showLimit {
			messages = messages[len(messages)-showLimit:]
		}

		for _, msg := range messages {
			style := userMessageStyle
			if msg.Role == "assistant" {
				style = assistantMessageStyle
			}
			label := strings.ToUpper(msg.Role)
			if !msg.Timestamp.IsZero() {
				label += " " + msg.Timestamp.Format("15:04:05")
			}
			fmt.Println(style.Render(label))
			if msg.Content != "" {
				fmt.Println(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				fmt.Println(toolCallStyle.Render(fmt.Sprintf("  [tool] %s", call.Name)))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 20, "Show at most the last N messages (0 = all)")
}
