package handoff

import (
	"fmt"
	"strings"
	"time"
)

const (
	// recentMessages is the size of the conversation window included
	// in the document.
	recentMessages = 10
	// messageChars caps each conversation message in the window.
	messageChars = 500
	// maxHighlights caps the Key Decisions list.
	maxHighlights = 5

	overviewTimeLayout = "2006-01-02 15:04"

	closingDirective = "*Continue working from this point. The context above describes the session so far; pick up any pending tasks and preserve the conventions already established.*"
)

// Generate assembles the handoff document for one session. The output
// is deterministic: identical inputs under the same mode produce
// byte-identical markdown. The only error is an unrecognized mode.
func Generate(session UnifiedSession, messages []ConversationMessage, filesModified []string, pendingTasks []TaskItem, toolSummaries []ToolUsageSummary, notes *SessionNotes, mode Mode) (string, error) {
	caps, err := CapsForMode(mode)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Session Handoff Context\n\n")

	writeOverview(&b, session, notes, len(filesModified), len(messages))
	writeBlockquote(&b, "## Summary", session.Summary)
	if notes != nil {
		writeBlockquote(&b, "## Session Context (Compacted)", notes.CompactedSummary)
	}
	writeToolActivity(&b, toolSummaries, caps)
	if notes != nil {
		writeHighlights(&b, notes.Highlights)
	}
	writeConversation(&b, messages)
	writeFilesModified(&b, filesModified)
	writePendingTasks(&b, pendingTasks)

	b.WriteString("---\n\n")
	b.WriteString(closingDirective)
	b.WriteString("\n")

	return b.String(), nil
}

func writeOverview(b *strings.Builder, session UnifiedSession, notes *SessionNotes, fileCount, messageCount int) {
	b.WriteString("## Session Overview\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")

	writeRow(b, "Source", SourceLabel(session.Source))
	writeRow(b, "Session ID", session.ID)
	writeRow(b, "Working Directory", session.Cwd)
	writeRow(b, "Repository", session.Repo)
	writeRow(b, "Branch", session.Branch)
	writeRow(b, "Model", modelValue(session, notes))
	if !session.UpdatedAt.IsZero() {
		writeRow(b, "Last Active", session.UpdatedAt.Format(overviewTimeLayout))
	}
	if notes != nil {
		if notes.InputTokens > 0 || notes.OutputTokens > 0 {
			writeRow(b, "Tokens", fmt.Sprintf("%d in / %d out", notes.InputTokens, notes.OutputTokens))
		}
		if notes.CacheReadTokens > 0 || notes.CacheCreationTokens > 0 {
			writeRow(b, "Cache Tokens", fmt.Sprintf("%d read / %d created", notes.CacheReadTokens, notes.CacheCreationTokens))
		}
		if notes.ThinkingTokens > 0 {
			writeRow(b, "Thinking Tokens", fmt.Sprintf("%d", notes.ThinkingTokens))
		}
		if notes.ActiveTime > 0 {
			writeRow(b, "Active Time", notes.ActiveTime.Round(time.Second).String())
		}
	}
	writeRow(b, "Files Modified", fmt.Sprintf("%d", fileCount))
	writeRow(b, "Messages", fmt.Sprintf("%d", messageCount))
	b.WriteString("\n")
}

func modelValue(session UnifiedSession, notes *SessionNotes) string {
	override := ""
	if notes != nil {
		override = notes.Model
	}
	switch {
	case override != "" && session.Model != "" && override != session.Model:
		return session.Model + ", " + override
	case override != "":
		return override
	default:
		return session.Model
	}
}

func writeRow(b *strings.Builder, field, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "| %s | %s |\n", field, escapeTableCell(value))
}

// escapeTableCell keeps a value from breaking the two-column table.
func escapeTableCell(value string) string {
	value = oneLine(value)
	return strings.ReplaceAll(value, "|", "\\|")
}

func writeBlockquote(b *strings.Builder, title, text string) {
	if text == "" {
		return
	}
	b.WriteString(title + "\n\n")
	for _, line := range splitLines(text) {
		b.WriteString("> " + line + "\n")
	}
	b.WriteString("\n")
}

func writeToolActivity(b *strings.Builder, summaries []ToolUsageSummary, caps DisplayCaps) {
	if len(summaries) == 0 {
		return
	}
	b.WriteString("## Tool Activity\n\n")

	ordered := SortByCategory(GroupNamespaces(summaries))
	for _, summary := range ordered {
		for _, line := range RenderToolUsage(summary, caps) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
}

func writeHighlights(b *strings.Builder, highlights []string) {
	if len(highlights) == 0 {
		return
	}
	b.WriteString("## Key Decisions\n\n")
	for i, h := range highlights {
		if i >= maxHighlights {
			break
		}
		b.WriteString("- " + oneLine(h) + "\n")
	}
	b.WriteString("\n")
}

func writeConversation(b *strings.Builder, messages []ConversationMessage) {
	if len(messages) == 0 {
		return
	}
	b.WriteString("## Recent Conversation\n\n")

	window := messages
	if len(window) > recentMessages {
		window = window[len(window)-recentMessages:]
	}
	for _, msg := range window {
		fmt.Fprintf(b, "**%s:** %s\n\n", roleLabel(msg.Role), truncateText(strings.TrimSpace(msg.Content), messageChars))
	}
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	default:
		return role
	}
}

func writeFilesModified(b *strings.Builder, files []string) {
	if len(files) == 0 {
		return
	}
	b.WriteString("## Files Modified\n\n")
	for _, f := range files {
		b.WriteString("- `" + f + "`\n")
	}
	b.WriteString("\n")
}

func writePendingTasks(b *strings.Builder, tasks []TaskItem) {
	if len(tasks) == 0 {
		return
	}
	b.WriteString("## Pending Tasks\n\n")
	for _, task := range tasks {
		box := "[ ]"
		if task.Status == "completed" {
			box = "[x]"
		}
		line := "- " + box + " " + oneLine(task.Content)
		if task.Status == "in_progress" {
			line += " (in progress)"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}
