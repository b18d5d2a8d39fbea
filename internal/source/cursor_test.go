package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/iksnae/session-handoff/testutil"
)

func cursorFixturePath(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(testutil.CreateTempDir(t), "state.vscdb")
	testutil.CreateCursorDBFixture(t, dbPath)
	return dbPath
}

func TestCursorAdapter_Discover(t *testing.T) {
	adapter := NewCursorAdapter(cursorFixturePath(t))

	refs, err := adapter.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("Discover() returned %d refs, want 1", len(refs))
	}
	if refs[0].ID != "composer-1" {
		t.Errorf("refs[0].ID = %q, want composer-1", refs[0].ID)
	}
	if refs[0].ModTime.IsZero() {
		t.Error("refs[0].ModTime is zero, want lastUpdatedAt")
	}
}

func TestCursorAdapter_DiscoverMissingDB(t *testing.T) {
	adapter := NewCursorAdapter(filepath.Join(testutil.CreateTempDir(t), "absent.vscdb"))

	refs, err := adapter.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v, want nil for missing storage", err)
	}
	if len(refs) != 0 {
		t.Errorf("Discover() returned %d refs, want 0", len(refs))
	}
}

func TestCursorAdapter_Load(t *testing.T) {
	adapter := NewCursorAdapter(cursorFixturePath(t))
	refs, err := adapter.Discover()
	if err != nil || len(refs) != 1 {
		t.Fatalf("Discover() = %d refs, %v", len(refs), err)
	}

	loaded, err := adapter.Load(refs[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := loaded.Session
	if s.ID != "composer-1" || s.Source != "cursor" {
		t.Errorf("session = %s/%s, want cursor/composer-1", s.Source, s.ID)
	}
	if s.Summary != "Refactor config loader" {
		t.Errorf("Session.Summary = %q", s.Summary)
	}
	if s.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", s.MessageCount)
	}
	if !s.UpdatedAt.After(s.CreatedAt) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", s.UpdatedAt, s.CreatedAt)
	}

	if len(loaded.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(loaded.Messages))
	}
	if loaded.Messages[0].Role != "user" || loaded.Messages[0].Content != "Can you refactor the config loader?" {
		t.Errorf("Messages[0] = %s %q", loaded.Messages[0].Role, loaded.Messages[0].Content)
	}
	if loaded.Messages[1].Role != "assistant" {
		t.Errorf("Messages[1].Role = %q, want assistant", loaded.Messages[1].Role)
	}
}

func TestCursorAdapter_LoadUnknownComposer(t *testing.T) {
	dbPath := cursorFixturePath(t)
	adapter := NewCursorAdapter(dbPath)

	_, err := adapter.Load(SessionRef{ID: "no-such-composer", Path: dbPath})
	if err == nil {
		t.Fatal("Load() error = nil, want composer-not-found error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Load() error type = %T, want *ParseError", err)
	}
}
