package source

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// computeDiff produces a unified diff between two versions of a file
// plus its added/removed line counts.
func computeDiff(path, oldContent, newContent string) (string, int, int) {
	edits := myers.ComputeEdits(span.URIFromPath(path), oldContent, newContent)
	diff := fmt.Sprint(gotextdiff.ToUnified(path, path, oldContent, edits))
	added, removed := diffStats(diff)
	return diff, added, removed
}

// diffStats counts +/- body lines of a unified diff, skipping the
// file header lines.
func diffStats(diff string) (added, removed int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}
