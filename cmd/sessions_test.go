package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/session-handoff/internal/cache"
	"github.com/iksnae/session-handoff/internal/source"
	"github.com/iksnae/session-handoff/testutil"
)

func fixtureRegistry(t *testing.T) (*source.Registry, *cache.Manager) {
	t.Helper()
	claudeDir := testutil.CreateTempDir(t)
	testutil.CreateClaudeTranscriptFixture(t, claudeDir)
	codexDir := testutil.CreateTempDir(t)
	testutil.CreateCodexRolloutFixture(t, codexDir)

	registry := source.NewRegistry(
		source.NewClaudeAdapter(claudeDir),
		source.NewCodexAdapter(codexDir),
	)
	cm := cache.NewManager(testutil.CreateTempDir(t))
	return registry, cm
}

func TestBuildIndex(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	index, err := buildIndex(registry, cm)
	if err != nil {
		t.Fatalf("buildIndex() error = %v", err)
	}
	if len(index.Entries) != 2 {
		t.Fatalf("got %d index entries, want 2", len(index.Entries))
	}

	sources := map[string]bool{}
	for _, entry := range index.Entries {
		sources[entry.Source] = true
		if entry.ID == "" || entry.Path == "" || entry.ModTime.IsZero() {
			t.Errorf("incomplete entry: %+v", entry)
		}
	}
	if !sources["claude-code"] || !sources["codex"] {
		t.Errorf("index sources = %v, want both adapters represented", sources)
	}

	// the index must also land on disk
	saved, err := cm.LoadIndex()
	if err != nil || saved == nil {
		t.Fatalf("LoadIndex() after build = %+v, %v", saved, err)
	}
	if len(saved.Entries) != 2 {
		t.Errorf("saved index has %d entries, want 2", len(saved.Entries))
	}
}

func TestResolveSession_ExactID(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	loaded, err := resolveSession(registry, cm, "sess-claude-1")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if loaded.Session.ID != "sess-claude-1" {
		t.Errorf("Session.ID = %q", loaded.Session.ID)
	}
	if len(loaded.ToolSummaries) == 0 {
		t.Error("resolved session has no tool summaries")
	}
}

func TestResolveSession_PrefixMatch(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	loaded, err := resolveSession(registry, cm, "sess-codex")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if loaded.Session.ID != "sess-codex-1" {
		t.Errorf("Session.ID = %q, want prefix resolved to sess-codex-1", loaded.Session.ID)
	}
}

func TestResolveSession_Ambiguous(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	_, err := resolveSession(registry, cm, "sess-")
	if err == nil {
		t.Fatal("resolveSession() error = nil for ambiguous prefix")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error = %v, want ambiguity message", err)
	}
}

func TestResolveSession_NotFound(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	_, err := resolveSession(registry, cm, "nope")
	if err == nil {
		t.Fatal("resolveSession() error = nil for unknown session")
	}
	if !strings.Contains(err.Error(), "session not found") {
		t.Errorf("error = %v, want not-found message", err)
	}
}

func TestResolveSession_UsesCacheOnRepeat(t *testing.T) {
	registry, cm := fixtureRegistry(t)

	first, err := resolveSession(registry, cm, "sess-claude-1")
	if err != nil {
		t.Fatalf("first resolveSession() error = %v", err)
	}

	// cached copy must exist now
	cached, err := cm.LoadSession("sess-claude-1")
	if err != nil || cached == nil {
		t.Fatalf("LoadSession() after resolve = %+v, %v", cached, err)
	}

	second, err := resolveSession(registry, cm, "sess-claude-1")
	if err != nil {
		t.Fatalf("second resolveSession() error = %v", err)
	}
	if second.Session.Summary != first.Session.Summary {
		t.Errorf("cached summary = %q, want %q", second.Session.Summary, first.Session.Summary)
	}

	// the index carries the parsed metadata forward
	index, err := cm.LoadIndex()
	if err != nil || index == nil {
		t.Fatalf("LoadIndex() = %+v, %v", index, err)
	}
	for _, entry := range index.Entries {
		if entry.ID == "sess-claude-1" && entry.Summary == "" {
			t.Error("index entry missing carried-forward summary")
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortID() = %q, want 12-char prefix", got)
	}
	if got := shortID("short"); got != "short" {
		t.Errorf("shortID() = %q, want unchanged", got)
	}
}
