package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateClaudeTranscriptFixture writes a small Claude Code JSONL
// transcript under baseDir and returns its path. The transcript covers
// a user turn, an assistant turn with a shell call, the paired tool
// result, a file edit, and a todo list update.
func CreateClaudeTranscriptFixture(t *testing.T, baseDir string) string {
	t.Helper()
	path := filepath.Join(baseDir, "-home-dev-project", "sess-claude-1.jsonl")
	lines := []string{
		`{"type":"summary","summary":"Fix the flaky retry test"}`,
		`{"type":"user","sessionId":"sess-claude-1","timestamp":"2026-08-29T10:00:00.000Z","cwd":"/home/dev/project","gitBranch":"main","message":{"role":"user","content":"Please fix the flaky retry test"}}`,
		`{"type":"assistant","timestamp":"2026-08-29T10:00:05.000Z","message":{"role":"assistant","model":"test-model-1","usage":{"input_tokens":100,"output_tokens":40,"cache_read_input_tokens":20,"cache_creation_input_tokens":5},"content":[{"type":"thinking","thinking":"The retry test races on the ticker.\nNeed a fake clock."},{"type":"text","text":"Running the test first."},{"type":"tool_use","id":"call-1","name":"Bash","input":{"command":"go test ./retry"}}]}}`,
		`{"type":"user","timestamp":"2026-08-29T10:00:10.000Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"call-1","content":"FAIL"}]},"toolUseResult":{"stdout":"--- FAIL: TestRetry (0.40s)","stderr":""}}`,
		`{"type":"assistant","timestamp":"2026-08-29T10:00:20.000Z","message":{"role":"assistant","usage":{"input_tokens":50,"output_tokens":30},"content":[{"type":"tool_use","id":"call-2","name":"Edit","input":{"file_path":"/home/dev/project/retry/retry.go","old_string":"time.Sleep(delay)","new_string":"clock.Sleep(delay)"}}]}}`,
		`{"type":"user","timestamp":"2026-08-29T10:00:25.000Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"call-2","content":"ok"}]}}`,
		`{"type":"assistant","timestamp":"2026-08-29T10:00:30.000Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"call-3","name":"TodoWrite","input":{"todos":[{"content":"Run full test suite","status":"pending"},{"content":"Swap in fake clock","status":"completed"}]}}]}}`,
		`{"type":"user","timestamp":"2026-08-29T10:00:31.000Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"call-3","content":"ok"}]}}`,
		`{"type":"assistant","timestamp":"2026-08-29T10:01:00.000Z","message":{"role":"assistant","content":[{"type":"text","text":"Replaced the real sleep with an injectable clock."}]}}`,
	}
	WriteLines(t, path, lines)
	return path
}

// CreateCodexRolloutFixture writes a small Codex CLI rollout file under
// baseDir and returns its path.
func CreateCodexRolloutFixture(t *testing.T, baseDir string) string {
	t.Helper()
	path := filepath.Join(baseDir, "2026", "08", "29", "rollout-2026-08-29T11-00-00-sess-codex-1.jsonl")
	lines := []string{
		`{"timestamp":"2026-08-29T11:00:00.000Z","type":"session_meta","payload":{"id":"sess-codex-1","cwd":"/home/dev/api","git":{"branch":"feature/limits","repository_url":"https://github.com/dev/api.git"}}}`,
		`{"timestamp":"2026-08-29T11:00:01.000Z","type":"turn_context","payload":{"model":"test-model-2"}}`,
		`{"timestamp":"2026-08-29T11:00:02.000Z","type":"response_item","payload":{"type":"message","role":"user","content":[{"type":"input_text","text":"Add a rate limit to the API"}]}}`,
		`{"timestamp":"2026-08-29T11:00:03.000Z","type":"response_item","payload":{"type":"reasoning","summary":[{"type":"summary_text","text":"Token bucket fits the existing middleware chain."}]}}`,
		`{"timestamp":"2026-08-29T11:00:04.000Z","type":"response_item","payload":{"type":"function_call","name":"shell","call_id":"fc-1","arguments":"{\"command\":[\"bash\",\"-lc\",\"ls middleware\"]}"}}`,
		`{"timestamp":"2026-08-29T11:00:05.000Z","type":"response_item","payload":{"type":"function_call_output","call_id":"fc-1","output":"{\"output\":\"auth.go\\nlogging.go\",\"metadata\":{\"exit_code\":0}}"}}`,
		`{"timestamp":"2026-08-29T11:00:06.000Z","type":"response_item","payload":{"type":"function_call","name":"apply_patch","call_id":"fc-2","arguments":"{\"input\":\"*** Begin Patch\\n*** Update File: middleware/limit.go\\n+limiter := rate.NewLimiter(10, 100)\\n-// TODO\\n*** End Patch\"}"}}`,
		`{"timestamp":"2026-08-29T11:00:07.000Z","type":"response_item","payload":{"type":"function_call_output","call_id":"fc-2","output":"Done"}}`,
		`{"timestamp":"2026-08-29T11:00:08.000Z","type":"response_item","payload":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Added a token bucket limiter to the middleware chain."}]}}`,
		`{"timestamp":"2026-08-29T11:00:09.000Z","type":"event_msg","payload":{"type":"token_count","info":{"total_token_usage":{"input_tokens":900,"cached_input_tokens":300,"output_tokens":200,"reasoning_output_tokens":80}}}}`,
	}
	WriteLines(t, path, lines)
	return path
}

// CreateCursorDBFixture creates a Cursor globalStorage database with
// one composer and its conversation bubbles.
func CreateCursorDBFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS cursorDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	composerData := map[string]interface{}{
		"composerId":    "composer-1",
		"name":          "Refactor config loader",
		"createdAt":     int64(1787000000000),
		"lastUpdatedAt": int64(1787000600000),
		"fullConversationHeadersOnly": []map[string]interface{}{
			{"bubbleId": "bubble-1", "type": 1},
			{"bubbleId": "bubble-2", "type": 2},
		},
	}
	bubble1 := map[string]interface{}{
		"bubbleId":  "bubble-1",
		"text":      "Can you refactor the config loader?",
		"timestamp": int64(1787000000000),
		"type":      1,
	}
	bubble2 := map[string]interface{}{
		"bubbleId":  "bubble-2",
		"text":      "Split it into a parser and a merger.",
		"timestamp": int64(1787000300000),
		"type":      2,
	}

	insertSQL := "INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, "composerData:composer-1", string(JSONMarshal(t, composerData))); err != nil {
		t.Fatalf("Failed to insert composer: %v", err)
	}
	if _, err := db.Exec(insertSQL, "bubbleId:composer-1:bubble-1", string(JSONMarshal(t, bubble1))); err != nil {
		t.Fatalf("Failed to insert bubble: %v", err)
	}
	if _, err := db.Exec(insertSQL, "bubbleId:composer-1:bubble-2", string(JSONMarshal(t, bubble2))); err != nil {
		t.Fatalf("Failed to insert bubble: %v", err)
	}
}
