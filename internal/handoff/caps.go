package handoff

import "fmt"

// Mode selects a display-cap profile for the generated document.
type Mode string

const (
	// ModeInline uses tight caps, for documents injected directly into
	// another tool's prompt.
	ModeInline Mode = "inline"
	// ModeReference uses looser caps, for documents written to a file
	// and read by a human.
	ModeReference Mode = "reference"
)

// DisplayCaps holds the numeric truncation budgets applied while
// rendering tool activity. Profiles are fixed at compile time; nothing
// mutates a DisplayCaps value after selection.
type DisplayCaps struct {
	ShellDetailed      int // shell samples rendered in full detail
	ShellOutputLines   int // stdout/stderr tail lines per shell sample
	WriteEditDetailed  int // write/edit samples rendered with a diff
	WriteEditDiffLines int // diff body lines per write/edit sample
	ReadEntries        int // file entries in the read list
	SearchSamples      int // samples for grep, glob, search and fetch
	CompactSamples     int // samples for task, ask and mcp
}

var inlineCaps = DisplayCaps{
	ShellDetailed:      5,
	ShellOutputLines:   10,
	WriteEditDetailed:  3,
	WriteEditDiffLines: 50,
	ReadEntries:        10,
	SearchSamples:      5,
	CompactSamples:     3,
}

var referenceCaps = DisplayCaps{
	ShellDetailed:      10,
	ShellOutputLines:   25,
	WriteEditDetailed:  8,
	WriteEditDiffLines: 120,
	ReadEntries:        25,
	SearchSamples:      10,
	CompactSamples:     6,
}

// CapsForMode returns the cap profile for a mode. The two profiles are
// exhaustive; any other value is a caller bug and fails fast.
func CapsForMode(mode Mode) (DisplayCaps, error) {
	switch mode {
	case ModeInline:
		return inlineCaps, nil
	case ModeReference:
		return referenceCaps, nil
	default:
		return DisplayCaps{}, fmt.Errorf("unknown display mode: %q (valid: %q, %q)", mode, ModeInline, ModeReference)
	}
}
