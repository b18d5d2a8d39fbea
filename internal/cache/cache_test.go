package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/session-handoff/internal/handoff"
	"github.com/iksnae/session-handoff/internal/source"
	"github.com/iksnae/session-handoff/testutil"
)

func TestManager_IndexRoundTrip(t *testing.T) {
	cm := NewManager(testutil.CreateTempDir(t))

	index := &Index{
		Entries: []IndexEntry{
			{ID: "sess-1", Source: "claude-code", Summary: "fix tests", MessageCount: 4, Path: "/tmp/sess-1.jsonl"},
			{ID: "sess-2", Source: "codex", Path: "/tmp/sess-2.jsonl"},
		},
	}
	if err := cm.SaveIndex(index); err != nil {
		t.Fatalf("SaveIndex() error = %v", err)
	}

	loaded, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadIndex() = nil after save")
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(loaded.Entries))
	}
	if loaded.Entries[0].ID != "sess-1" || loaded.Entries[0].Summary != "fix tests" {
		t.Errorf("Entries[0] = %+v", loaded.Entries[0])
	}
	if loaded.Version == "" || loaded.UpdatedAt.IsZero() {
		t.Error("SaveIndex() did not stamp version and update time")
	}
}

func TestManager_LoadIndexMissing(t *testing.T) {
	cm := NewManager(testutil.CreateTempDir(t))

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex() error = %v, want nil on missing index", err)
	}
	if index != nil {
		t.Errorf("LoadIndex() = %+v, want nil", index)
	}
}

func TestManager_LoadIndexVersionMismatch(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cm := NewManager(dir)

	stale := "version: \"0\"\nsessions:\n  - id: old\n"
	if err := os.WriteFile(filepath.Join(dir, "sessions.yaml"), []byte(stale), 0644); err != nil {
		t.Fatalf("Failed to write stale index: %v", err)
	}

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if index != nil {
		t.Error("LoadIndex() kept a stale-format index, want nil to force rebuild")
	}
}

func TestManager_IsFresh(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cm := NewManager(dir)

	artifact := filepath.Join(dir, "sess.jsonl")
	if err := os.WriteFile(artifact, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}
	info, err := os.Stat(artifact)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	entry := IndexEntry{Path: artifact, ModTime: info.ModTime()}
	if !cm.IsFresh(entry) {
		t.Error("IsFresh() = false for matching mod time")
	}

	entry.ModTime = info.ModTime().Add(-time.Minute)
	if cm.IsFresh(entry) {
		t.Error("IsFresh() = true for changed mod time")
	}

	entry.Path = filepath.Join(dir, "gone.jsonl")
	if cm.IsFresh(entry) {
		t.Error("IsFresh() = true for missing artifact")
	}
}

func TestManager_SessionRoundTrip(t *testing.T) {
	cm := NewManager(testutil.CreateTempDir(t))

	loaded := &source.LoadedSession{
		Session: handoff.UnifiedSession{ID: "sess-1", Source: "claude-code", Summary: "cached"},
		Messages: []handoff.ConversationMessage{
			{Role: "user", Content: "hello"},
		},
		FilesModified: []string{"a.go"},
		ToolSummaries: []handoff.ToolUsageSummary{
			{Name: "Bash", Count: 2, Samples: []handoff.ToolSample{{Summary: "$ ls"}}},
		},
	}
	if err := cm.SaveSession("sess-1", loaded); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	got, err := cm.LoadSession("sess-1")
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if got == nil {
		t.Fatal("LoadSession() = nil after save")
	}
	if got.Session.ID != "sess-1" || got.Session.Summary != "cached" {
		t.Errorf("Session = %+v", got.Session)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Errorf("Messages = %+v", got.Messages)
	}
	if len(got.ToolSummaries) != 1 || got.ToolSummaries[0].Count != 2 {
		t.Errorf("ToolSummaries = %+v", got.ToolSummaries)
	}
}

func TestManager_LoadSessionMiss(t *testing.T) {
	cm := NewManager(testutil.CreateTempDir(t))

	got, err := cm.LoadSession("absent")
	if err != nil {
		t.Fatalf("LoadSession() error = %v, want nil on miss", err)
	}
	if got != nil {
		t.Errorf("LoadSession() = %+v, want nil", got)
	}
}

func TestManager_Clear(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cm := NewManager(dir)

	if err := cm.SaveIndex(&Index{}); err != nil {
		t.Fatalf("SaveIndex() error = %v", err)
	}
	if err := cm.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Clear() left the cache directory in place")
	}
}
