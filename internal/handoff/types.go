package handoff

import "time"

// UnifiedSession represents a normalized session, independent of which
// tool produced it
type UnifiedSession struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"` // adapter tag, e.g. "claude-code"
	Cwd          string    `json:"cwd,omitempty"`
	Repo         string    `json:"repo,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	MessageCount int       `json:"message_count"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
	Path         string    `json:"path,omitempty"` // original backing artifact
	Summary      string    `json:"summary,omitempty"`
	Model        string    `json:"model,omitempty"`
}

// ConversationMessage represents one normalized conversation turn
type ConversationMessage struct {
	Role      string     `json:"role"` // "user" or "assistant"
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation attached to an assistant turn
type ToolCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// ToolSample is one observed tool invocation retained for display.
// Summary is always present and is the universal fallback when no
// structured detail is available.
type ToolSample struct {
	Summary string                `json:"summary"`
	Detail  *StructuredToolSample `json:"detail,omitempty"`
}

// StructuredToolSample is a tagged union keyed by Category. Exactly one
// of the variant pointers is set; renderers fall back to the sample
// summary when the variant they need is missing.
type StructuredToolSample struct {
	Category ToolCategory      `json:"category"`
	Shell    *ShellSample      `json:"shell,omitempty"`
	File     *FileChangeSample `json:"file,omitempty"` // write and edit
	Read     *ReadSample       `json:"read,omitempty"`
	Grep     *GrepSample       `json:"grep,omitempty"`
	Glob     *GlobSample       `json:"glob,omitempty"`
	Search   *SearchSample     `json:"search,omitempty"`
	Fetch    *FetchSample      `json:"fetch,omitempty"`
	Task     *TaskSample       `json:"task,omitempty"`
	Ask      *AskSample        `json:"ask,omitempty"`
	MCP      *MCPSample        `json:"mcp,omitempty"`
}

// ShellSample captures a shell command invocation. Stdout and Stderr
// are already truncated by the producing parser.
type ShellSample struct {
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
	Errored  bool   `json:"errored,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// FileChangeSample captures a file write or edit
type FileChangeSample struct {
	Path    string `json:"path"`
	NewFile bool   `json:"new_file,omitempty"`
	Diff    string `json:"diff,omitempty"`
	Added   int    `json:"added,omitempty"`
	Removed int    `json:"removed,omitempty"`
}

// ReadSample captures a file read. Line numbers are 1-based; zero means
// unknown.
type ReadSample struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

// GrepSample captures a content search
type GrepSample struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path,omitempty"`
	Matches *int   `json:"matches,omitempty"`
}

// GlobSample captures a file-pattern search
type GlobSample struct {
	Pattern string `json:"pattern"`
	Results *int   `json:"results,omitempty"`
}

// SearchSample captures a web search
type SearchSample struct {
	Query   string `json:"query"`
	Results *int   `json:"results,omitempty"`
}

// FetchSample captures a URL fetch
type FetchSample struct {
	URL     string `json:"url"`
	Preview string `json:"preview,omitempty"`
}

// TaskSample captures a sub-agent task dispatch
type TaskSample struct {
	Description string `json:"description"`
	AgentType   string `json:"agent_type,omitempty"`
	Result      string `json:"result,omitempty"`
}

// AskSample captures a question posed to the user
type AskSample struct {
	Question string `json:"question"`
}

// MCPSample captures an MCP or otherwise unclassified tool invocation
type MCPSample struct {
	Tool   string `json:"tool"`
	Params string `json:"params,omitempty"`
	Result string `json:"result,omitempty"`
}

// ToolUsageSummary aggregates all invocations of one tool (or one
// synthetic namespace group). Samples are in chronological order of
// first occurrence and capped by the producing parser, so Count may
// exceed len(Samples).
type ToolUsageSummary struct {
	Name       string       `json:"name"`
	Count      int          `json:"count"`
	ErrorCount int          `json:"error_count,omitempty"`
	Samples    []ToolSample `json:"samples,omitempty"`
}

// TaskItem is one entry of a session's task list
type TaskItem struct {
	Content string `json:"content"`
	Status  string `json:"status"` // "pending", "in_progress", "completed"
}

// SessionNotes carries optional session-level annotations
type SessionNotes struct {
	Model               string        `json:"model,omitempty"`
	InputTokens         int           `json:"input_tokens,omitempty"`
	OutputTokens        int           `json:"output_tokens,omitempty"`
	CacheReadTokens     int           `json:"cache_read_tokens,omitempty"`
	CacheCreationTokens int           `json:"cache_creation_tokens,omitempty"`
	ThinkingTokens      int           `json:"thinking_tokens,omitempty"`
	ActiveTime          time.Duration `json:"active_time,omitempty"`
	Highlights          []string      `json:"highlights,omitempty"`
	CompactedSummary    string        `json:"compacted_summary,omitempty"`
}
