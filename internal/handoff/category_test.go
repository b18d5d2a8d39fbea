package handoff

import (
	"testing"
)

func TestClassifyToolName(t *testing.T) {
	tests := []struct {
		name string
		tool string
		want ToolCategory
	}{
		{"bash", "Bash", CategoryShell},
		{"write", "Write", CategoryWrite},
		{"multi edit", "MultiEdit", CategoryEdit},
		{"read", "Read", CategoryRead},
		{"grep", "Grep", CategoryGrep},
		{"glob", "Glob", CategoryGlob},
		{"web search", "WebSearch", CategorySearch},
		{"web fetch", "WebFetch", CategoryFetch},
		{"task", "Task", CategoryTask},
		{"task output", "TaskOutput", CategoryTask},
		{"ask", "AskUserQuestion", CategoryAsk},
		{"mcp tool", "mcp__github__list_issues", CategoryMCP},
		{"unknown tool", "SomethingNew", CategoryMCP},
		{"empty", "", CategoryMCP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyToolName(tt.tool); got != tt.want {
				t.Errorf("ClassifyToolName(%q) = %q, want %q", tt.tool, got, tt.want)
			}
		})
	}
}

func TestCategorize_StructuredTagWins(t *testing.T) {
	// a tool with an unrecognizable name but a structured shell sample
	// must classify as shell
	summary := ToolUsageSummary{
		Name:  "custom_runner",
		Count: 1,
		Samples: []ToolSample{
			{
				Summary: "ran make",
				Detail: &StructuredToolSample{
					Category: CategoryShell,
					Shell:    &ShellSample{Command: "make"},
				},
			},
		},
	}

	if got := Categorize(summary); got != CategoryShell {
		t.Errorf("Categorize() = %q, want %q", got, CategoryShell)
	}
}

func TestCategorize_FallsBackToName(t *testing.T) {
	summary := ToolUsageSummary{
		Name:    "Grep",
		Count:   2,
		Samples: []ToolSample{{Summary: "searched for foo"}},
	}

	if got := Categorize(summary); got != CategoryGrep {
		t.Errorf("Categorize() = %q, want %q", got, CategoryGrep)
	}
}

func TestSortByCategory_TotalOrder(t *testing.T) {
	// feed the full category set in reverse priority order and expect
	// the canonical order back
	names := []string{"AskUserQuestion", "Task", "WebFetch", "WebSearch", "Glob", "Grep", "Read", "Edit", "Write", "Bash", "mcp__foo__bar"}
	summaries := make([]ToolUsageSummary, 0, len(names))
	for _, n := range names {
		summaries = append(summaries, ToolUsageSummary{Name: n, Count: 1})
	}

	sorted := SortByCategory(summaries)

	wantOrder := []string{"Bash", "Write", "Edit", "Read", "Grep", "Glob", "WebSearch", "WebFetch", "Task", "AskUserQuestion", "mcp__foo__bar"}
	for i, want := range wantOrder {
		if sorted[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, sorted[i].Name, want)
		}
	}
}

func TestSortByCategory_Stable(t *testing.T) {
	summaries := []ToolUsageSummary{
		{Name: "mcp__a__x", Count: 1},
		{Name: "Bash", Count: 1},
		{Name: "mcp__b__y", Count: 1},
		{Name: "unknown_tool", Count: 1},
	}

	sorted := SortByCategory(summaries)

	// shell first, then same-priority mcp/unknown entries keep input order
	wantOrder := []string{"Bash", "mcp__a__x", "mcp__b__y", "unknown_tool"}
	for i, want := range wantOrder {
		if sorted[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, sorted[i].Name, want)
		}
	}
}

func TestSortByCategory_DoesNotMutateInput(t *testing.T) {
	summaries := []ToolUsageSummary{
		{Name: "Read", Count: 1},
		{Name: "Bash", Count: 1},
	}

	_ = SortByCategory(summaries)

	if summaries[0].Name != "Read" || summaries[1].Name != "Bash" {
		t.Errorf("input slice was reordered: %v", summaries)
	}
}
