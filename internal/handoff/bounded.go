package handoff

// takeSamples returns the first limit samples plus the number of calls
// left unrendered relative to the aggregate's total count. Every
// renderer truncates through this helper so that detailed-shown plus
// the stated remainder always equals the aggregate count.
func takeSamples(samples []ToolSample, limit, total int) ([]ToolSample, int) {
	if limit < 0 {
		limit = 0
	}
	shown := samples
	if len(shown) > limit {
		shown = shown[:limit]
	}
	rest := total - len(shown)
	if rest < 0 {
		rest = 0
	}
	return shown, rest
}

// headLines returns the first limit lines and the number dropped.
func headLines(lines []string, limit int) ([]string, int) {
	if len(lines) <= limit {
		return lines, 0
	}
	return lines[:limit], len(lines) - limit
}

// tailLines returns the last limit lines and the number dropped.
func tailLines(lines []string, limit int) ([]string, int) {
	if len(lines) <= limit {
		return lines, 0
	}
	return lines[len(lines)-limit:], len(lines) - limit
}
