package source

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iksnae/session-handoff/internal/handoff"
)

// CursorAdapter reads Cursor's globalStorage SQLite database. Each
// composer record in the cursorDiskKV table is one session.
type CursorAdapter struct {
	dbPath string
}

func NewCursorAdapter(dbPath string) *CursorAdapter {
	if dbPath == "" {
		dbPath = defaultCursorDBPath()
	}
	return &CursorAdapter{dbPath: dbPath}
}

func defaultCursorDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library/Application Support/Cursor/User/globalStorage/state.vscdb")
	case "linux":
		return filepath.Join(home, ".config/Cursor/User/globalStorage/state.vscdb")
	default:
		return ""
	}
}

func (a *CursorAdapter) Tag() string   { return "cursor" }
func (a *CursorAdapter) Label() string { return "Cursor" }

type cursorComposer struct {
	ComposerID string                `json:"composerId"`
	Name       string                `json:"name,omitempty"`
	Headers    []cursorMessageHeader `json:"fullConversationHeadersOnly,omitempty"`
	CreatedAt  int64                 `json:"createdAt,omitempty"`
	UpdatedAt  int64                 `json:"lastUpdatedAt,omitempty"`
}

type cursorMessageHeader struct {
	BubbleID string `json:"bubbleId"`
	Type     int    `json:"type"` // 1=user, 2=assistant
}

type cursorBubble struct {
	BubbleID  string `json:"bubbleId"`
	Text      string `json:"text,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Type      int    `json:"type"`
}

func (a *CursorAdapter) Discover() ([]SessionRef, error) {
	if a.dbPath == "" {
		return nil, nil
	}
	info, err := os.Stat(a.dbPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Path: a.dbPath, Op: "open", Err: err}
	}

	db, err := openCursorDB(a.dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	composers, err := loadComposers(db, a.dbPath)
	if err != nil {
		return nil, err
	}

	refs := make([]SessionRef, 0, len(composers))
	for _, c := range composers {
		modTime := millisToTime(c.UpdatedAt)
		if modTime.IsZero() {
			modTime = info.ModTime()
		}
		refs = append(refs, SessionRef{
			ID:      c.ComposerID,
			Path:    a.dbPath,
			ModTime: modTime,
			Size:    info.Size(),
		})
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].ModTime.After(refs[j].ModTime)
	})
	return refs, nil
}

func (a *CursorAdapter) Load(ref SessionRef) (*LoadedSession, error) {
	db, err := openCursorDB(ref.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	composer, err := loadComposer(db, ref.Path, ref.ID)
	if err != nil {
		return nil, err
	}
	bubbles, err := loadBubbles(db, ref.Path)
	if err != nil {
		return nil, err
	}

	messages := make([]handoff.ConversationMessage, 0, len(composer.Headers))
	for _, header := range composer.Headers {
		bubble, ok := bubbles[header.BubbleID]
		if !ok || bubble.Text == "" {
			continue
		}
		role := "user"
		if header.Type == 2 {
			role = "assistant"
		}
		messages = append(messages, handoff.ConversationMessage{
			Role:      role,
			Content:   bubble.Text,
			Timestamp: millisToTime(bubble.Timestamp),
		})
	}

	session := handoff.UnifiedSession{
		ID:           composer.ComposerID,
		Source:       a.Tag(),
		Path:         ref.Path,
		Summary:      composer.Name,
		MessageCount: len(messages),
		SizeBytes:    ref.Size,
		CreatedAt:    millisToTime(composer.CreatedAt),
		UpdatedAt:    millisToTime(composer.UpdatedAt),
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}

	return &LoadedSession{Session: session, Messages: messages}, nil
}

// openCursorDB opens the database read-only so a running Cursor
// instance is never disturbed.
func openCursorDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

func queryDiskKV(db *sql.DB, path, pattern string) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM cursorDiskKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	pairs := make(map[string]string)
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &StorageError{Path: path, Op: "query", Err: err}
		}
		if value.Valid {
			pairs[key] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: path, Op: "query", Err: err}
	}
	return pairs, nil
}

func loadComposers(db *sql.DB, path string) ([]*cursorComposer, error) {
	pairs, err := queryDiskKV(db, path, "composerData:%")
	if err != nil {
		return nil, err
	}
	composers := make([]*cursorComposer, 0, len(pairs))
	for key, value := range pairs {
		var composer cursorComposer
		if err := json.Unmarshal([]byte(value), &composer); err != nil {
			continue
		}
		composer.ComposerID = strings.TrimPrefix(key, "composerData:")
		composers = append(composers, &composer)
	}
	return composers, nil
}

func loadComposer(db *sql.DB, path, composerID string) (*cursorComposer, error) {
	pairs, err := queryDiskKV(db, path, "composerData:"+composerID)
	if err != nil {
		return nil, err
	}
	value, ok := pairs["composerData:"+composerID]
	if !ok {
		return nil, &ParseError{Source: "cursor", Key: composerID, Err: fmt.Errorf("composer not found")}
	}
	var composer cursorComposer
	if err := json.Unmarshal([]byte(value), &composer); err != nil {
		return nil, &ParseError{Source: "cursor", Key: composerID, Err: err}
	}
	composer.ComposerID = composerID
	return &composer, nil
}

func loadBubbles(db *sql.DB, path string) (map[string]*cursorBubble, error) {
	pairs, err := queryDiskKV(db, path, "bubbleId:%")
	if err != nil {
		return nil, err
	}
	bubbles := make(map[string]*cursorBubble, len(pairs))
	for key, value := range pairs {
		var bubble cursorBubble
		if err := json.Unmarshal([]byte(value), &bubble); err != nil {
			continue
		}
		// key format: bubbleId:<chatId>:<bubbleId>
		parts := strings.Split(key, ":")
		if len(parts) == 3 {
			bubble.BubbleID = parts[2]
		}
		if bubble.BubbleID != "" {
			bubbles[bubble.BubbleID] = &bubble
		}
	}
	return bubbles, nil
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.Unix(0, ms*int64(time.Millisecond))
}
