package source

import (
	"bufio"
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/iksnae/session-handoff/internal/handoff"
)

// CodexAdapter reads Codex CLI rollout files from
// ~/.codex/sessions/YYYY/MM/DD/rollout-<ts>-<id>.jsonl.
type CodexAdapter struct {
	baseDir string
}

func NewCodexAdapter(baseDir string) *CodexAdapter {
	if baseDir == "" {
		baseDir = homeSubdir(".codex", "sessions")
	}
	return &CodexAdapter{baseDir: baseDir}
}

func (a *CodexAdapter) Tag() string   { return "codex" }
func (a *CodexAdapter) Label() string { return "Codex CLI" }

func (a *CodexAdapter) Discover() ([]SessionRef, error) {
	refs, err := discoverGlob(a.baseDir, "**/rollout-*.jsonl")
	if err != nil {
		return nil, err
	}
	// the filename stem carries a timestamp prefix; the ref ID must be
	// the session id Load reads back from session_meta
	for i := range refs {
		refs[i].ID = rolloutSessionID(refs[i].ID)
	}
	return refs, nil
}

// rolloutStemPattern matches rollout-<YYYY-MM-DDTHH-MM-SS>-<session id>.
var rolloutStemPattern = regexp.MustCompile(`^rollout-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-(.+)$`)

// rolloutSessionID extracts the session id from a rollout filename
// stem, falling back to the whole stem for unrecognized names.
func rolloutSessionID(stem string) string {
	if m := rolloutStemPattern.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}

type codexLine struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

type codexMeta struct {
	ID  string `json:"id"`
	Cwd string `json:"cwd"`
	Git *struct {
		Branch        string `json:"branch"`
		RepositoryURL string `json:"repository_url"`
	} `json:"git"`
}

type codexTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type codexItem struct {
	Type      string          `json:"type"`
	Role      string          `json:"role"`
	Name      string          `json:"name"`
	Arguments string          `json:"arguments"`
	CallID    string          `json:"call_id"`
	Output    string          `json:"output"`
	Content   []codexTextPart `json:"content"`
	Summary   []codexTextPart `json:"summary"`
}

type codexEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Info *struct {
		TotalTokenUsage struct {
			InputTokens           int `json:"input_tokens"`
			CachedInputTokens     int `json:"cached_input_tokens"`
			OutputTokens          int `json:"output_tokens"`
			ReasoningOutputTokens int `json:"reasoning_output_tokens"`
		} `json:"total_token_usage"`
	} `json:"info"`
}

func (a *CodexAdapter) Load(ref SessionRef) (*LoadedSession, error) {
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
	var firstTS, lastTS time.Time

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line codexLine
		if err := json.Unmarshal(raw, &line); err != nil {
			continue
		}
		ts := parseRFC3339(line.Timestamp)
		if !ts.IsZero() {
			if firstTS.IsZero() {
				firstTS = ts
			}
			lastTS = ts
		}

		switch line.Type {
		case "session_meta":
			var meta codexMeta
			if err := json.Unmarshal(line.Payload, &meta); err == nil {
				if meta.ID != "" {
					loaded.Session.ID = meta.ID
				}
				loaded.Session.Cwd = meta.Cwd
				if meta.Git != nil {
					loaded.Session.Branch = meta.Git.Branch
					loaded.Session.Repo = repoName(meta.Git.RepositoryURL)
				}
			}
		case "turn_context":
			var tc struct {
				Model string `json:"model"`
			}
			if err := json.Unmarshal(line.Payload, &tc); err == nil && tc.Model != "" {
				loaded.Session.Model = tc.Model
			}
		case "response_item":
			var item codexItem
			if err := json.Unmarshal(line.Payload, &item); err != nil {
				continue
			}
			a.consumeItem(&item, ts, loaded, collector, files, notes, pending)
		case "event_msg":
			var event codexEvent
			if err := json.Unmarshal(line.Payload, &event); err != nil {
				continue
			}
			if event.Type == "token_count" && event.Info != nil {
				usage := event.Info.TotalTokenUsage
				notes.InputTokens = usage.InputTokens
				notes.OutputTokens = usage.OutputTokens
				notes.CacheReadTokens = usage.CachedInputTokens
				notes.ThinkingTokens = usage.ReasoningOutputTokens
			}
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
	if notesNonEmpty(notes) {
		loaded.Notes = notes
	}
	return loaded, nil
}

func (a *CodexAdapter) consumeItem(item *codexItem, ts time.Time, loaded *LoadedSession, collector *usageCollector, files *fileTracker, notes *handoff.SessionNotes, pending map[string]pendingCall) {
	switch item.Type {
	case "message":
		text := joinItemText(item.Content)
		if text == "" || isCodexEnvelope(text) {
			return
		}
		loaded.Messages = append(loaded.Messages, handoff.ConversationMessage{
			Role: item.Role, Content: text, Timestamp: ts,
		})
	case "reasoning":
		for _, s := range item.Summary {
			if h := firstLine(s.Text); h != "" && len(notes.Highlights) < 10 {
				notes.Highlights = append(notes.Highlights, h)
			}
		}
	case "function_call":
		var args map[string]interface{}
		_ = json.Unmarshal([]byte(item.Arguments), &args)
		pending[item.CallID] = pendingCall{name: item.Name, input: args}
	case "function_call_output":
		call, ok := pending[item.CallID]
		if !ok {
			return
		}
		delete(pending, item.CallID)
		sample, errored := buildCodexSample(call, item.Output)
		collector.record(call.name, sample, errored)
		if fc := fileSampleOf(sample); fc != nil {
			files.add(fc.Path)
		}
	}
}

func buildCodexSample(call pendingCall, output string) (handoff.ToolSample, bool) {
	switch call.name {
	case "shell", "local_shell", "exec_command":
		command := shellArgv(call.input)
		stdout, exitCode := codexShellOutput(output)
		detail := &handoff.StructuredToolSample{
			Category: handoff.CategoryShell,
			Shell: &handoff.ShellSample{
				Command:  command,
				ExitCode: exitCode,
				Errored:  exitCode != 0,
				Stdout:   tailText(stdout, maxOutputChars),
			},
		}
		return handoff.ToolSample{Summary: "$ " + command, Detail: detail}, exitCode != 0
	case "apply_patch":
		patch := str(call.input, "input")
		path := patchTarget(patch)
		added, removed := diffStats(patch)
		detail := &handoff.StructuredToolSample{
			Category: handoff.CategoryEdit,
			File: &handoff.FileChangeSample{
				Path:    path,
				NewFile: strings.Contains(patch, "*** Add File:"),
				Diff:    patchBody(patch),
				Added:   added,
				Removed: removed,
			},
		}
		return handoff.ToolSample{Summary: "patched " + path, Detail: detail}, false
	case "web_search":
		detail := &handoff.StructuredToolSample{
			Category: handoff.CategorySearch,
			Search:   &handoff.SearchSample{Query: str(call.input, "query")},
		}
		return handoff.ToolSample{Summary: "searched: " + str(call.input, "query"), Detail: detail}, false
	default:
		detail := &handoff.StructuredToolSample{
			Category: handoff.CategoryMCP,
			MCP: &handoff.MCPSample{
				Tool:   call.name,
				Params: compactJSON(call.input, 120),
				Result: headText(output, 200),
			},
		}
		return handoff.ToolSample{Summary: call.name, Detail: detail}, false
	}
}

// shellArgv renders the exec argv, unwrapping the bash -lc form.
func shellArgv(input map[string]interface{}) string {
	argv, _ := input["command"].([]interface{})
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		if s, ok := a.(string); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 3 && (parts[0] == "bash" || parts[0] == "sh") && parts[1] == "-lc" {
		return parts[2]
	}
	return strings.Join(parts, " ")
}

// codexShellOutput parses a function_call_output payload, which is
// either plain text or JSON with metadata.
func codexShellOutput(output string) (string, int) {
	var wrapped struct {
		Output   string `json:"output"`
		Metadata *struct {
			ExitCode int `json:"exit_code"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(output), &wrapped); err == nil && wrapped.Output != "" {
		code := 0
		if wrapped.Metadata != nil {
			code = wrapped.Metadata.ExitCode
		}
		return wrapped.Output, code
	}
	return output, 0
}

// patchTarget extracts the first file path named in an apply_patch
// envelope.
func patchTarget(patch string) string {
	for _, marker := range []string{"*** Update File: ", "*** Add File: ", "*** Delete File: "} {
		if idx := strings.Index(patch, marker); idx >= 0 {
			rest := patch[idx+len(marker):]
			if end := strings.IndexByte(rest, '\n'); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// patchBody strips the apply_patch envelope markers, leaving the
// diff-like body.
func patchBody(patch string) string {
	var body []string
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "*** ") {
			continue
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

func joinItemText(parts []codexTextPart) string {
	var b strings.Builder
	for _, p := range parts {
		if p.Type == "input_text" || p.Type == "output_text" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// isCodexEnvelope filters the synthetic context messages Codex
// prepends to user turns.
func isCodexEnvelope(text string) bool {
	return strings.HasPrefix(text, "<environment_context>") ||
		strings.HasPrefix(text, "<user_instructions>") ||
		strings.HasPrefix(text, "<turn_context>")
}

func repoName(url string) string {
	if url == "" {
		return ""
	}
	url = strings.TrimSuffix(url, ".git")
	if idx := strings.LastIndexByte(url, '/'); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
