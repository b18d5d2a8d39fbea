package handoff

import "sync"

var (
	labelOnce  sync.Once
	labelTable map[string]string
)

// InitSourceLabels installs the source-tag to human-label table, built
// once from the adapter registry at startup. The first call wins;
// subsequent calls are no-ops. Building the same table twice is
// idempotent, so concurrent initialization is harmless.
func InitSourceLabels(build func() map[string]string) {
	labelOnce.Do(func() {
		labelTable = build()
	})
}

// SourceLabel resolves a source tag to its display label, falling back
// to the raw tag when no adapter registered a label for it.
func SourceLabel(tag string) string {
	if label, ok := labelTable[tag]; ok && label != "" {
		return label
	}
	return tag
}
