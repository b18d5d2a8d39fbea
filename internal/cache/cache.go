// Package cache persists the session index and parsed sessions so
// repeat CLI invocations skip re-parsing unchanged artifacts.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/session-handoff/internal/source"
)

const indexVersion = "1"

// Manager handles the on-disk cache directory.
type Manager struct {
	dir string
}

// IndexEntry is one session in the YAML index.
type IndexEntry struct {
	ID           string    `yaml:"id"`
	Source       string    `yaml:"source"`
	Summary      string    `yaml:"summary,omitempty"`
	MessageCount int       `yaml:"message_count"`
	UpdatedAt    time.Time `yaml:"updated_at,omitempty"`
	Path         string    `yaml:"path"`
	ModTime      time.Time `yaml:"mod_time"`
}

// Index is the YAML index of all cached sessions.
type Index struct {
	Version   string       `yaml:"version"`
	UpdatedAt time.Time    `yaml:"updated_at"`
	Entries   []IndexEntry `yaml:"sessions"`
}

// NewManager creates a manager rooted at dir. An empty dir defaults to
// ~/.session-handoff/cache.
func NewManager(dir string) *Manager {
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".session-handoff", "cache")
		}
	}
	return &Manager{dir: dir}
}

// Dir returns the cache directory path.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, "sessions.yaml")
}

func (m *Manager) sessionPath(id string) string {
	return filepath.Join(m.dir, fmt.Sprintf("session_%s.json", id))
}

// LoadIndex reads the session index. A missing or stale-format index
// returns nil without error; callers rebuild it.
func (m *Manager) LoadIndex() (*Index, error) {
	data, err := os.ReadFile(m.indexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var index Index
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	if index.Version != indexVersion {
		return nil, nil
	}
	return &index, nil
}

// SaveIndex writes the session index.
func (m *Manager) SaveIndex(index *Index) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}
	index.Version = indexVersion
	index.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(m.indexPath(), data, 0644)
}

// IsFresh reports whether an index entry still matches its backing
// artifact on disk.
func (m *Manager) IsFresh(entry IndexEntry) bool {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return false
	}
	return info.ModTime().Equal(entry.ModTime)
}

// SaveSession caches one parsed session as JSON.
func (m *Manager) SaveSession(id string, loaded *source.LoadedSession) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(loaded, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(m.sessionPath(id), data, 0644)
}

// LoadSession reads one cached session. Returns nil without error on
// a cache miss.
func (m *Manager) LoadSession(id string) (*source.LoadedSession, error) {
	data, err := os.ReadFile(m.sessionPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var loaded source.LoadedSession
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &loaded, nil
}

// Clear removes the entire cache directory.
func (m *Manager) Clear() error {
	if m.dir == "" {
		return nil
	}
	return os.RemoveAll(m.dir)
}
