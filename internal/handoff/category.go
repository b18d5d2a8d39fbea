package handoff

import "sort"

// ToolCategory is the closed set of semantic tool categories
type ToolCategory string

const (
	CategoryShell  ToolCategory = "shell"
	CategoryWrite  ToolCategory = "write"
	CategoryEdit   ToolCategory = "edit"
	CategoryRead   ToolCategory = "read"
	CategoryGrep   ToolCategory = "grep"
	CategoryGlob   ToolCategory = "glob"
	CategorySearch ToolCategory = "search"
	CategoryFetch  ToolCategory = "fetch"
	CategoryTask   ToolCategory = "task"
	CategoryAsk    ToolCategory = "ask"
	// CategoryMCP is the catch-all for MCP plugin tools and anything
	// the classifier does not recognize.
	CategoryMCP ToolCategory = "mcp"
)

// categoryNames holds the canonical name sets that define each
// category. Names outside every set classify as CategoryMCP.
var categoryNames = map[ToolCategory][]string{
	CategoryShell:  {"Bash", "Shell", "RunShellCommand", "run_shell_command", "shell", "exec_command", "local_shell"},
	CategoryWrite:  {"Write", "WriteFile", "write_file", "CreateFile", "create_file"},
	CategoryEdit:   {"Edit", "MultiEdit", "NotebookEdit", "ApplyPatch", "apply_patch", "edit_file", "str_replace_editor"},
	CategoryRead:   {"Read", "ReadFile", "read_file", "NotebookRead", "open_file", "cat"},
	CategoryGrep:   {"Grep", "grep", "search_file_content", "ripgrep"},
	CategoryGlob:   {"Glob", "glob", "find_files", "list_files"},
	CategorySearch: {"WebSearch", "web_search", "google_web_search", "SearchWeb"},
	CategoryFetch:  {"WebFetch", "web_fetch", "FetchURL", "read_url", "fetch"},
	CategoryTask:   {"Task", "TaskOutput", "Agent", "dispatch_agent", "agent"},
	CategoryAsk:    {"AskUserQuestion", "ask_user", "AskFollowupQuestion", "ask_followup_question"},
}

// categoryPriority is the total display ordering over categories.
// Anything not assigned here sorts last.
var categoryPriority = map[ToolCategory]int{
	CategoryShell:  0,
	CategoryWrite:  1,
	CategoryEdit:   2,
	CategoryRead:   3,
	CategoryGrep:   4,
	CategoryGlob:   5,
	CategorySearch: 6,
	CategoryFetch:  7,
	CategoryTask:   8,
	CategoryAsk:    9,
}

const unknownPriority = 10

var nameToCategory = buildNameIndex()

func buildNameIndex() map[string]ToolCategory {
	idx := make(map[string]ToolCategory)
	for cat, names := range categoryNames {
		for _, name := range names {
			idx[name] = cat
		}
	}
	return idx
}

// ClassifyToolName returns the category for a raw tool identifier,
// falling back to CategoryMCP when the name matches no canonical set.
func ClassifyToolName(name string) ToolCategory {
	if cat, ok := nameToCategory[name]; ok {
		return cat
	}
	return CategoryMCP
}

// Categorize resolves the category of an aggregate. A structured
// sample's own category tag wins over the name-based classifier: the
// producing parser already decided, so there is no ambiguity to
// resolve. Name-based classification is the fallback for aggregates
// that carry no structured samples at all.
func Categorize(summary ToolUsageSummary) ToolCategory {
	for _, sample := range summary.Samples {
		if sample.Detail != nil && sample.Detail.Category != "" {
			return sample.Detail.Category
		}
	}
	return ClassifyToolName(summary.Name)
}

// Priority returns the display priority of a category. Lower sorts
// first; unknown categories sort last.
func Priority(cat ToolCategory) int {
	if p, ok := categoryPriority[cat]; ok {
		return p
	}
	return unknownPriority
}

// SortByCategory orders aggregates by category priority. The sort is
// stable, so same-category aggregates keep their input order.
func SortByCategory(summaries []ToolUsageSummary) []ToolUsageSummary {
	sorted := make([]ToolUsageSummary, len(summaries))
	copy(sorted, summaries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return Priority(Categorize(sorted[i])) < Priority(Categorize(sorted[j]))
	})
	return sorted
}
