package source

import (
	"strings"
	"testing"

	"github.com/iksnae/session-handoff/internal/handoff"
	"github.com/iksnae/session-handoff/testutil"
)

func loadCodexFixture(t *testing.T) *LoadedSession {
	t.Helper()
	baseDir := testutil.CreateTempDir(t)
	testutil.CreateCodexRolloutFixture(t, baseDir)

	adapter := NewCodexAdapter(baseDir)
	refs, err := adapter.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("Discover() returned %d refs, want 1", len(refs))
	}
	loaded, err := adapter.Load(refs[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return loaded
}

func TestCodexAdapter_DiscoverIDMatchesLoad(t *testing.T) {
	baseDir := testutil.CreateTempDir(t)
	testutil.CreateCodexRolloutFixture(t, baseDir)

	adapter := NewCodexAdapter(baseDir)
	refs, err := adapter.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("Discover() returned %d refs, want 1", len(refs))
	}
	if refs[0].ID != "sess-codex-1" {
		t.Errorf("refs[0].ID = %q, want the session id without the rollout timestamp prefix", refs[0].ID)
	}

	loaded, err := adapter.Load(refs[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Session.ID != refs[0].ID {
		t.Errorf("Load() Session.ID = %q, Discover() ID = %q; they must agree for cache keys and resolution", loaded.Session.ID, refs[0].ID)
	}
}

func TestRolloutSessionID(t *testing.T) {
	tests := []struct {
		stem string
		want string
	}{
		{"rollout-2026-08-29T11-00-00-sess-codex-1", "sess-codex-1"},
		{"rollout-2026-01-02T03-04-05-0199a213-81e2-7e42-aa1d-42175f6ab9ec", "0199a213-81e2-7e42-aa1d-42175f6ab9ec"},
		{"rollout-not-a-timestamp", "rollout-not-a-timestamp"},
		{"something-else", "something-else"},
	}
	for _, tt := range tests {
		if got := rolloutSessionID(tt.stem); got != tt.want {
			t.Errorf("rolloutSessionID(%q) = %q, want %q", tt.stem, got, tt.want)
		}
	}
}

func TestCodexAdapter_SessionMetadata(t *testing.T) {
	loaded := loadCodexFixture(t)
	s := loaded.Session

	if s.ID != "sess-codex-1" {
		t.Errorf("Session.ID = %q, want sess-codex-1 (meta overrides file name)", s.ID)
	}
	if s.Source != "codex" {
		t.Errorf("Session.Source = %q, want codex", s.Source)
	}
	if s.Cwd != "/home/dev/api" {
		t.Errorf("Session.Cwd = %q", s.Cwd)
	}
	if s.Branch != "feature/limits" {
		t.Errorf("Session.Branch = %q", s.Branch)
	}
	if s.Repo != "api" {
		t.Errorf("Session.Repo = %q, want api (from repository URL)", s.Repo)
	}
	if s.Model != "test-model-2" {
		t.Errorf("Session.Model = %q", s.Model)
	}
}

func TestCodexAdapter_Messages(t *testing.T) {
	loaded := loadCodexFixture(t)

	if len(loaded.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(loaded.Messages))
	}
	if loaded.Messages[0].Role != "user" || loaded.Messages[0].Content != "Add a rate limit to the API" {
		t.Errorf("Messages[0] = %s %q", loaded.Messages[0].Role, loaded.Messages[0].Content)
	}
	if loaded.Messages[1].Role != "assistant" {
		t.Errorf("Messages[1].Role = %q, want assistant", loaded.Messages[1].Role)
	}
}

func TestCodexAdapter_ToolSummaries(t *testing.T) {
	loaded := loadCodexFixture(t)

	if len(loaded.ToolSummaries) != 2 {
		t.Fatalf("got %d tool summaries, want 2", len(loaded.ToolSummaries))
	}

	sh := loaded.ToolSummaries[0]
	if sh.Name != "shell" {
		t.Fatalf("ToolSummaries[0].Name = %q, want shell", sh.Name)
	}
	shell := sh.Samples[0].Detail.Shell
	if shell == nil {
		t.Fatal("shell sample has no shell detail")
	}
	if shell.Command != "ls middleware" {
		t.Errorf("shell.Command = %q, want the bash -lc body unwrapped", shell.Command)
	}
	if shell.ExitCode != 0 || shell.Errored {
		t.Errorf("shell exit = %d errored %v, want clean exit", shell.ExitCode, shell.Errored)
	}
	if !strings.Contains(shell.Stdout, "auth.go") {
		t.Errorf("shell.Stdout = %q", shell.Stdout)
	}

	patch := loaded.ToolSummaries[1]
	if patch.Name != "apply_patch" {
		t.Fatalf("ToolSummaries[1].Name = %q, want apply_patch", patch.Name)
	}
	if patch.Samples[0].Detail.Category != handoff.CategoryEdit {
		t.Errorf("apply_patch category = %q, want edit", patch.Samples[0].Detail.Category)
	}
	fc := patch.Samples[0].Detail.File
	if fc == nil {
		t.Fatal("apply_patch sample has no file detail")
	}
	if fc.Path != "middleware/limit.go" {
		t.Errorf("file.Path = %q", fc.Path)
	}
	if strings.Contains(fc.Diff, "*** ") {
		t.Errorf("file.Diff kept envelope markers: %q", fc.Diff)
	}
	if fc.Added != 1 || fc.Removed != 1 {
		t.Errorf("diff stats = +%d -%d, want +1 -1", fc.Added, fc.Removed)
	}
}

func TestCodexAdapter_NotesAndFiles(t *testing.T) {
	loaded := loadCodexFixture(t)

	if len(loaded.FilesModified) != 1 || loaded.FilesModified[0] != "middleware/limit.go" {
		t.Errorf("FilesModified = %v", loaded.FilesModified)
	}

	notes := loaded.Notes
	if notes == nil {
		t.Fatal("Notes = nil")
	}
	if notes.InputTokens != 900 || notes.OutputTokens != 200 {
		t.Errorf("tokens = %d in / %d out, want 900 / 200", notes.InputTokens, notes.OutputTokens)
	}
	if notes.CacheReadTokens != 300 {
		t.Errorf("CacheReadTokens = %d, want 300", notes.CacheReadTokens)
	}
	if notes.ThinkingTokens != 80 {
		t.Errorf("ThinkingTokens = %d, want 80", notes.ThinkingTokens)
	}
	if len(notes.Highlights) != 1 || !strings.Contains(notes.Highlights[0], "Token bucket") {
		t.Errorf("Highlights = %v", notes.Highlights)
	}
}

func TestShellArgv(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		want  string
	}{
		{
			name:  "bash -lc unwrapped",
			input: map[string]interface{}{"command": []interface{}{"bash", "-lc", "git status"}},
			want:  "git status",
		},
		{
			name:  "plain argv joined",
			input: map[string]interface{}{"command": []interface{}{"ls", "-la", "/tmp"}},
			want:  "ls -la /tmp",
		},
		{
			name:  "missing command",
			input: map[string]interface{}{},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shellArgv(tt.input); got != tt.want {
				t.Errorf("shellArgv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodexShellOutput(t *testing.T) {
	out, code := codexShellOutput(`{"output":"hello","metadata":{"exit_code":2}}`)
	if out != "hello" || code != 2 {
		t.Errorf("codexShellOutput() = %q, %d, want hello, 2", out, code)
	}

	out, code = codexShellOutput("plain text")
	if out != "plain text" || code != 0 {
		t.Errorf("codexShellOutput() = %q, %d, want plain text, 0", out, code)
	}
}

func TestIsCodexEnvelope(t *testing.T) {
	if !isCodexEnvelope("<environment_context>stuff</environment_context>") {
		t.Error("environment context not filtered")
	}
	if !isCodexEnvelope("<user_instructions>x</user_instructions>") {
		t.Error("user instructions not filtered")
	}
	if isCodexEnvelope("regular user message") {
		t.Error("regular message filtered")
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/dev/api.git", "api"},
		{"git@host:group/tool", "tool"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := repoName(tt.url); got != tt.want {
			t.Errorf("repoName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
