package source

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iksnae/session-handoff/internal/handoff"
	"github.com/iksnae/session-handoff/internal/log"
)

// maxOutputChars bounds captured stdout/stderr per shell sample at
// collection time; renderers apply their own line caps on top.
const maxOutputChars = 4000

// ClaudeAdapter reads Claude Code JSONL transcripts from
// ~/.claude/projects/<project-slug>/<session-id>.jsonl.
type ClaudeAdapter struct {
	baseDir string
}

func NewClaudeAdapter(baseDir string) *ClaudeAdapter {
	if baseDir == "" {
		baseDir = homeSubdir(".claude", "projects")
	}
	return &ClaudeAdapter{baseDir: baseDir}
}

func (a *ClaudeAdapter) Tag() string   { return "claude-code" }
func (a *ClaudeAdapter) Label() string { return "Claude Code" }

func (a *ClaudeAdapter) Discover() ([]SessionRef, error) {
	return discoverGlob(a.baseDir, "*/*.jsonl")
}

type claudeLine struct {
	Type          string          `json:"type"`
	SessionID     string          `json:"sessionId"`
	Timestamp     string          `json:"timestamp"`
	Cwd           string          `json:"cwd"`
	GitBranch     string          `json:"gitBranch"`
	IsMeta        bool            `json:"isMeta"`
	Summary       string          `json:"summary"`
	Message       *claudeMessage  `json:"message"`
	ToolUseResult json.RawMessage `json:"toolUseResult"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
	Usage   *claudeUsage    `json:"usage"`
}

type claudeUsage struct {
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	CacheReadTokens     int `json:"cache_read_input_tokens"`
	CacheCreationTokens int `json:"cache_creation_input_tokens"`
}

type claudeBlock struct {
	Type      string                 `json:"type"`
	Text      string                 `json:"text"`
	Thinking  string                 `json:"thinking"`
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Input     map[string]interface{} `json:"input"`
	ToolUseID string                 `json:"tool_use_id"`
	Content   json.RawMessage        `json:"content"`
	IsError   bool                   `json:"is_error"`
}

// pendingCall is a tool_use waiting for its tool_result line.
type pendingCall struct {
	name  string
	input map[string]interface{}
}

func (a *ClaudeAdapter) Load(ref SessionRef) (*LoadedSession, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return nil, &StorageError{Path: ref.Path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	loaded := &LoadedSession{
		Session: handoff.UnifiedSession{
			ID:        ref.ID,
			Source:    a.Tag(),
			Path:      ref.Path,
			SizeBytes: ref.Size,
		},
	}
	collector := newUsageCollector()
	files := newFileTracker()
	notes := &handoff.SessionNotes{}
	pending := make(map[string]pendingCall)
	var tasks []handoff.TaskItem
	var firstTS, lastTS time.Time
	lineCount := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		lineCount++

		var line claudeLine
		if err := json.Unmarshal(raw, &line); err != nil {
			log.L().Debug("skipping malformed transcript line",
				zap.String("path", ref.Path), zap.Int("line", lineCount))
			continue
		}

		ts := parseRFC3339(line.Timestamp)
		if !ts.IsZero() {
			if firstTS.IsZero() {
				firstTS = ts
			}
			lastTS = ts
		}
		if line.SessionID != "" {
			loaded.Session.ID = line.SessionID
		}
		if line.Cwd != "" {
			loaded.Session.Cwd = line.Cwd
		}
		if line.GitBranch != "" {
			loaded.Session.Branch = line.GitBranch
		}

		switch line.Type {
		case "summary":
			if line.Summary != "" {
				loaded.Session.Summary = line.Summary
			}
		case "assistant":
			a.consumeAssistant(&line, ts, loaded, notes, pending)
		case "user":
			if line.IsMeta {
				continue
			}
			a.consumeUser(&line, ts, loaded, collector, files, &tasks, pending)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Source: a.Tag(), Key: ref.Path, Err: err}
	}

	loaded.Session.CreatedAt = firstTS
	loaded.Session.UpdatedAt = lastTS
	loaded.Session.MessageCount = len(loaded.Messages)
	if !firstTS.IsZero() && lastTS.After(firstTS) {
		notes.ActiveTime = lastTS.Sub(firstTS)
	}
	loaded.ToolSummaries = collector.summaries()
	loaded.FilesModified = files.files()
	loaded.PendingTasks = tasks
	if notesNonEmpty(notes) {
		loaded.Notes = notes
	}
	return loaded, nil
}

func (a *ClaudeAdapter) consumeAssistant(line *claudeLine, ts time.Time, loaded *LoadedSession, notes *handoff.SessionNotes, pending map[string]pendingCall) {
	msg := line.Message
	if msg == nil {
		return
	}
	if msg.Model != "" {
		loaded.Session.Model = msg.Model
	}
	if msg.Usage != nil {
		notes.InputTokens += msg.Usage.InputTokens
		notes.OutputTokens += msg.Usage.OutputTokens
		notes.CacheReadTokens += msg.Usage.CacheReadTokens
		notes.CacheCreationTokens += msg.Usage.CacheCreationTokens
	}

	var text strings.Builder
	var calls []handoff.ToolCall
	for _, block := range decodeBlocks(msg.Content) {
		switch block.Type {
		case "text":
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(block.Text)
		case "thinking":
			notes.ThinkingTokens += approxTokens(block.Thinking)
			if h := firstLine(block.Thinking); h != "" && len(notes.Highlights) < 10 {
				notes.Highlights = append(notes.Highlights, h)
			}
		case "tool_use":
			pending[block.ID] = pendingCall{name: block.Name, input: block.Input}
			calls = append(calls, handoff.ToolCall{Name: block.Name, Args: block.Input})
		}
	}

	if text.Len() > 0 || len(calls) > 0 {
		loaded.Messages = append(loaded.Messages, handoff.ConversationMessage{
			Role:      "assistant",
			Content:   text.String(),
			Timestamp: ts,
			ToolCalls: calls,
		})
	}
}

func (a *ClaudeAdapter) consumeUser(line *claudeLine, ts time.Time, loaded *LoadedSession, collector *usageCollector, files *fileTracker, tasks *[]handoff.TaskItem, pending map[string]pendingCall) {
	msg := line.Message
	if msg == nil {
		return
	}

	// plain string content is a normal user turn
	var asText string
	if err := json.Unmarshal(msg.Content, &asText); err == nil {
		if asText != "" {
			loaded.Messages = append(loaded.Messages, handoff.ConversationMessage{
				Role: "user", Content: asText, Timestamp: ts,
			})
		}
		return
	}

	var result map[string]interface{}
	if len(line.ToolUseResult) > 0 {
		_ = json.Unmarshal(line.ToolUseResult, &result)
	}

	for _, block := range decodeBlocks(msg.Content) {
		switch block.Type {
		case "text":
			if block.Text != "" {
				loaded.Messages = append(loaded.Messages, handoff.ConversationMessage{
					Role: "user", Content: block.Text, Timestamp: ts,
				})
			}
		case "tool_result":
			call, ok := pending[block.ToolUseID]
			if !ok {
				continue
			}
			delete(pending, block.ToolUseID)

			if call.name == "TodoWrite" {
				*tasks = todoItems(call.input)
				continue
			}

			resultText := blockContentText(block.Content)
			sample := buildClaudeSample(call, result, resultText, block.IsError)
			collector.record(call.name, sample, block.IsError)

			if fc := fileSampleOf(sample); fc != nil {
				files.add(fc.Path)
			}
		}
	}
}

// buildClaudeSample turns one call/result pair into a structured
// sample for its category.
func buildClaudeSample(call pendingCall, result map[string]interface{}, resultText string, isError bool) handoff.ToolSample {
	category := handoff.ClassifyToolName(call.name)
	detail := &handoff.StructuredToolSample{Category: category}
	summary := call.name

	switch category {
	case handoff.CategoryShell:
		command := str(call.input, "command")
		stdout := tailText(str(result, "stdout"), maxOutputChars)
		stderr := tailText(str(result, "stderr"), maxOutputChars)
		if stderr == "" && isError {
			stderr = tailText(resultText, maxOutputChars)
		}
		exitCode := 0
		if isError {
			exitCode = 1
		}
		detail.Shell = &handoff.ShellSample{
			Command:  command,
			ExitCode: exitCode,
			Errored:  isError,
			Stdout:   stdout,
			Stderr:   stderr,
		}
		summary = "$ " + command
	case handoff.CategoryWrite:
		path := str(call.input, "file_path")
		content := str(call.input, "content")
		diff, added, removed := computeDiff(path, "", content)
		detail.File = &handoff.FileChangeSample{
			Path: path, NewFile: true, Diff: diff, Added: added, Removed: removed,
		}
		summary = "wrote " + path
	case handoff.CategoryEdit:
		path := str(call.input, "file_path")
		diff, added, removed := computeDiff(path, str(call.input, "old_string"), str(call.input, "new_string"))
		detail.File = &handoff.FileChangeSample{
			Path: path, Diff: diff, Added: added, Removed: removed,
		}
		summary = "edited " + path
	case handoff.CategoryRead:
		path := str(call.input, "file_path")
		start := intval(call.input, "offset")
		end := 0
		if limit := intval(call.input, "limit"); limit > 0 && start > 0 {
			end = start + limit - 1
		}
		detail.Read = &handoff.ReadSample{Path: path, StartLine: start, EndLine: end}
		summary = "read " + path
	case handoff.CategoryGrep:
		detail.Grep = &handoff.GrepSample{
			Pattern: str(call.input, "pattern"),
			Path:    str(call.input, "path"),
			Matches: optInt(result, "numMatches"),
		}
		summary = "grep " + str(call.input, "pattern")
	case handoff.CategoryGlob:
		detail.Glob = &handoff.GlobSample{
			Pattern: str(call.input, "pattern"),
			Results: optInt(result, "numFiles"),
		}
		summary = "glob " + str(call.input, "pattern")
	case handoff.CategorySearch:
		detail.Search = &handoff.SearchSample{Query: str(call.input, "query")}
		summary = "searched: " + str(call.input, "query")
	case handoff.CategoryFetch:
		detail.Fetch = &handoff.FetchSample{
			URL:     str(call.input, "url"),
			Preview: tailText(resultText, 200),
		}
		summary = "fetched " + str(call.input, "url")
	case handoff.CategoryTask:
		detail.Task = &handoff.TaskSample{
			Description: str(call.input, "description"),
			AgentType:   str(call.input, "subagent_type"),
			Result:      headText(resultText, 300),
		}
		summary = "task: " + str(call.input, "description")
	case handoff.CategoryAsk:
		detail.Ask = &handoff.AskSample{Question: askQuestion(call.input)}
		summary = "asked: " + detail.Ask.Question
	default:
		detail.MCP = &handoff.MCPSample{
			Tool:   call.name,
			Params: compactJSON(call.input, 120),
			Result: headText(resultText, 200),
		}
	}

	return handoff.ToolSample{Summary: summary, Detail: detail}
}

func todoItems(input map[string]interface{}) []handoff.TaskItem {
	raw, _ := input["todos"].([]interface{})
	items := make([]handoff.TaskItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		content := str(m, "content")
		if content == "" {
			continue
		}
		items = append(items, handoff.TaskItem{Content: content, Status: str(m, "status")})
	}
	return items
}

func askQuestion(input map[string]interface{}) string {
	if q := str(input, "question"); q != "" {
		return q
	}
	// multi-question form: take the first entry
	if questions, ok := input["questions"].([]interface{}); ok && len(questions) > 0 {
		if m, ok := questions[0].(map[string]interface{}); ok {
			return str(m, "question")
		}
	}
	return ""
}

// decodeBlocks tolerates both the array form and a bare string.
func decodeBlocks(content json.RawMessage) []claudeBlock {
	var blocks []claudeBlock
	if err := json.Unmarshal(content, &blocks); err == nil {
		return blocks
	}
	var text string
	if err := json.Unmarshal(content, &text); err == nil && text != "" {
		return []claudeBlock{{Type: "text", Text: text}}
	}
	return nil
}

// blockContentText extracts the text payload of a tool_result block,
// which is either a string or an array of typed parts.
func blockContentText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		return text
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "text" {
				b.WriteString(p.Text)
			}
		}
		return b.String()
	}
	return ""
}

func fileSampleOf(sample handoff.ToolSample) *handoff.FileChangeSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.File
}

func notesNonEmpty(n *handoff.SessionNotes) bool {
	return n.InputTokens > 0 || n.OutputTokens > 0 || n.ThinkingTokens > 0 ||
		n.ActiveTime > 0 || len(n.Highlights) > 0 || n.CompactedSummary != "" || n.Model != ""
}
