package source

import "github.com/iksnae/session-handoff/internal/handoff"

// maxSamplesPerTool caps retained samples per tool at collection time.
// Counts keep accumulating past the cap; only the sample details stop.
const maxSamplesPerTool = 5

// usageCollector accumulates per-tool aggregates in first-seen order.
type usageCollector struct {
	order  []string
	byName map[string]*handoff.ToolUsageSummary
}

func newUsageCollector() *usageCollector {
	return &usageCollector{byName: make(map[string]*handoff.ToolUsageSummary)}
}

func (c *usageCollector) record(name string, sample handoff.ToolSample, errored bool) {
	summary, ok := c.byName[name]
	if !ok {
		summary = &handoff.ToolUsageSummary{Name: name}
		c.byName[name] = summary
		c.order = append(c.order, name)
	}
	summary.Count++
	if errored {
		summary.ErrorCount++
	}
	if len(summary.Samples) < maxSamplesPerTool {
		summary.Samples = append(summary.Samples, sample)
	}
}

// summaries returns the aggregates in first-seen tool order.
func (c *usageCollector) summaries() []handoff.ToolUsageSummary {
	out := make([]handoff.ToolUsageSummary, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.byName[name])
	}
	return out
}

// fileTracker keeps an ordered, deduplicated list of modified files.
type fileTracker struct {
	order []string
	seen  map[string]bool
}

func newFileTracker() *fileTracker {
	return &fileTracker{seen: make(map[string]bool)}
}

func (t *fileTracker) add(path string) {
	if path == "" || t.seen[path] {
		return
	}
	t.seen[path] = true
	t.order = append(t.order, path)
}

func (t *fileTracker) files() []string {
	return t.order
}
