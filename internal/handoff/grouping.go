package handoff

import (
	"fmt"
	"strings"
)

// maxGroupSamples caps the combined sample list of a synthetic
// namespace group.
const maxGroupSamples = 5

// namespaceOf extracts the namespace from an MCP tool identifier of
// the form prefix__namespace__action. Returns "" when the name does
// not match that shape.
func namespaceOf(name string) string {
	parts := strings.Split(name, "__")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ""
	}
	return parts[1]
}

// GroupNamespaces collapses MCP aggregates that share a namespace into
// one synthetic aggregate per namespace. Only aggregates classified as
// CategoryMCP whose name matches prefix__namespace__action are
// grouping candidates; a namespace with a single member passes through
// unchanged. Pass-through entries come first, in their original order,
// followed by the merged groups in first-seen namespace order.
func GroupNamespaces(summaries []ToolUsageSummary) []ToolUsageSummary {
	var nsOrder []string
	buckets := make(map[string][]ToolUsageSummary)

	type entry struct {
		summary   ToolUsageSummary
		namespace string
	}
	entries := make([]entry, 0, len(summaries))

	for _, s := range summaries {
		ns := ""
		if Categorize(s) == CategoryMCP {
			ns = namespaceOf(s.Name)
		}
		if ns != "" {
			if _, seen := buckets[ns]; !seen {
				nsOrder = append(nsOrder, ns)
			}
			buckets[ns] = append(buckets[ns], s)
		}
		entries = append(entries, entry{summary: s, namespace: ns})
	}

	result := make([]ToolUsageSummary, 0, len(summaries))

	// singletons and non-candidates pass through in original order
	for _, e := range entries {
		if e.namespace == "" || len(buckets[e.namespace]) < 2 {
			result = append(result, e.summary)
		}
	}

	// merged groups follow, in first-seen namespace order
	for _, ns := range nsOrder {
		members := buckets[ns]
		if len(members) < 2 {
			continue
		}
		result = append(result, mergeGroup(ns, members))
	}

	return result
}

func mergeGroup(namespace string, members []ToolUsageSummary) ToolUsageSummary {
	merged := ToolUsageSummary{
		Name: fmt.Sprintf("%s (MCP)", namespace),
	}
	for _, m := range members {
		merged.Count += m.Count
		merged.ErrorCount += m.ErrorCount
		for _, sample := range m.Samples {
			if len(merged.Samples) >= maxGroupSamples {
				break
			}
			merged.Samples = append(merged.Samples, sample)
		}
	}
	return merged
}
