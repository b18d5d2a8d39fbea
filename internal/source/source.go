// Package source contains the per-format adapters that turn raw
// session artifacts into the normalized representation consumed by the
// handoff generator.
package source

import (
	"time"

	"github.com/iksnae/session-handoff/internal/handoff"
)

// SessionRef points at one discoverable session artifact.
type SessionRef struct {
	ID      string
	Path    string
	ModTime time.Time
	Size    int64
}

// LoadedSession bundles everything the handoff generator needs for one
// session.
type LoadedSession struct {
	Session       handoff.UnifiedSession
	Messages      []handoff.ConversationMessage
	FilesModified []string
	PendingTasks  []handoff.TaskItem
	ToolSummaries []handoff.ToolUsageSummary
	Notes         *handoff.SessionNotes
}

// Adapter reads one tool's session format.
type Adapter interface {
	// Tag is the stable source identifier stored on sessions.
	Tag() string
	// Label is the human-readable source name.
	Label() string
	// Discover lists the session artifacts this adapter can read.
	Discover() ([]SessionRef, error)
	// Load parses one artifact into the normalized representation.
	Load(ref SessionRef) (*LoadedSession, error)
}

// Registry holds the registered adapters in a fixed order.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds a registry and installs the source-label table
// the document generator resolves tags against.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: adapters}
	handoff.InitSourceLabels(r.Labels)
	return r
}

// DefaultRegistry returns the registry of all built-in adapters.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewClaudeAdapter(""),
		NewCodexAdapter(""),
		NewCursorAdapter(""),
	)
}

// Adapters returns the adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

// ByTag looks up an adapter by its source tag.
func (r *Registry) ByTag(tag string) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Tag() == tag {
			return a, true
		}
	}
	return nil, false
}

// Labels maps every registered tag to its label.
func (r *Registry) Labels() map[string]string {
	labels := make(map[string]string, len(r.adapters))
	for _, a := range r.adapters {
		labels[a.Tag()] = a.Label()
	}
	return labels
}
