package source

import (
	"encoding/json"
	"strings"
	"time"
)

func parseRFC3339(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func str(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func intval(m map[string]interface{}, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// optInt returns a pointer only when the key holds a numeric value, so
// an absent count stays distinguishable from zero.
func optInt(m map[string]interface{}, key string) *int {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

// headText keeps the first max bytes of s, cutting at a line boundary
// where possible.
func headText(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// tailText keeps the last max bytes of s, cutting at a line boundary
// where possible.
func tailText(s string, max int) string {
	s = strings.TrimRight(s, "\n")
	if len(s) <= max {
		return s
	}
	cut := s[len(s)-max:]
	if idx := strings.IndexByte(cut, '\n'); idx >= 0 && idx < len(cut)-1 {
		cut = cut[idx+1:]
	}
	return cut
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 150 {
		s = s[:150]
	}
	return strings.TrimSpace(s)
}

// approxTokens estimates a token count from text length.
func approxTokens(s string) int {
	return len(s) / 4
}

func compactJSON(v interface{}, max int) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(data)
	if s == "{}" || s == "null" {
		return ""
	}
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
