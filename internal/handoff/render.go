package handoff

import (
	"fmt"
	"strings"
)

// fallbackSamples caps how many plain summaries the fallback renderer
// prints for data outside the closed category set.
const fallbackSamples = 5

// overflowListLimit caps how many compact file entries the write/edit
// renderers list beyond their detailed samples.
const overflowListLimit = 10

// renderer turns one aggregated tool-usage record into a block of
// markdown lines. Renderers never fail; when a sample's structured
// detail is missing or does not match the category, they print the
// sample's plain summary instead.
type renderer interface {
	render(s ToolUsageSummary, caps DisplayCaps) []string
}

var renderers = map[ToolCategory]renderer{
	CategoryShell:  shellRenderer{},
	CategoryWrite:  fileChangeRenderer{title: "Files Written", noun: "write"},
	CategoryEdit:   fileChangeRenderer{title: "Files Edited", noun: "edit"},
	CategoryRead:   readRenderer{},
	CategoryGrep:   grepRenderer{},
	CategoryGlob:   globRenderer{},
	CategorySearch: compactRenderer{category: CategorySearch},
	CategoryFetch:  compactRenderer{category: CategoryFetch},
	CategoryTask:   compactRenderer{category: CategoryTask},
	CategoryAsk:    compactRenderer{category: CategoryAsk},
	CategoryMCP:    compactRenderer{category: CategoryMCP},
}

// RenderToolUsage dispatches an aggregate to its category renderer.
// Aggregates outside the closed category set get the fallback
// renderer, so rendering always succeeds.
func RenderToolUsage(s ToolUsageSummary, caps DisplayCaps) []string {
	if r, ok := renderers[Categorize(s)]; ok {
		return r.render(s, caps)
	}
	return renderFallback(s)
}

func heading(title string, count, errors int) string {
	calls := "calls"
	if count == 1 {
		calls = "call"
	}
	if errors > 0 {
		return fmt.Sprintf("### %s (%d %s, %d failed)", title, count, calls, errors)
	}
	return fmt.Sprintf("### %s (%d %s)", title, count, calls)
}

func overflowLine(rest int, noun string) string {
	return fmt.Sprintf("*...and %d more %s calls*", rest, noun)
}

// shellRenderer renders shell command samples with an output tail.
type shellRenderer struct{}

func (shellRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	lines := []string{heading("Shell Commands", s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, caps.ShellDetailed, s.Count)
	for _, sample := range shown {
		sh := shellDetail(sample)
		if sh == nil {
			lines = append(lines, "- "+sample.Summary)
			continue
		}

		if sh.ExitCode != 0 {
			lines = append(lines, fmt.Sprintf("- `%s` (exit %d, failed)", sh.Command, sh.ExitCode))
		} else {
			lines = append(lines, fmt.Sprintf("- `%s` (exit 0)", sh.Command))
		}

		// show the stdout tail, or the error output when the call
		// failed without producing stdout -- never both
		out := sh.Stdout
		if out == "" && sh.Errored {
			out = sh.Stderr
		}
		if out != "" {
			body, _ := tailLines(splitLines(out), caps.ShellOutputLines)
			lines = append(lines, "  ```")
			for _, l := range body {
				lines = append(lines, "  "+l)
			}
			lines = append(lines, "  ```")
		}
	}

	if rest > 0 {
		if s.ErrorCount > 0 {
			lines = append(lines, fmt.Sprintf("*...and %d more shell calls (%d failed)*", rest, s.ErrorCount))
		} else {
			lines = append(lines, fmt.Sprintf("*...and %d more shell calls (all exit 0)*", rest))
		}
	}
	return lines
}

// fileChangeRenderer renders write and edit samples with diff bodies.
type fileChangeRenderer struct {
	title string
	noun  string
}

func (r fileChangeRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	lines := []string{heading(r.title, s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, caps.WriteEditDetailed, s.Count)
	for _, sample := range shown {
		fc := fileDetail(sample)
		if fc == nil {
			lines = append(lines, "- "+sample.Summary)
			continue
		}
		lines = append(lines, fileHeadline(fc))

		if fc.Diff != "" {
			body := diffBody(fc.Diff)
			kept, dropped := headLines(body, caps.WriteEditDiffLines)
			lines = append(lines, "  ```diff")
			for _, l := range kept {
				lines = append(lines, "  "+l)
			}
			lines = append(lines, "  ```")
			if dropped > 0 {
				lines = append(lines, fmt.Sprintf("  *+%d lines truncated*", dropped))
			}
		}
	}

	// remaining samples are listed as bare paths with their stats
	if rest > 0 && len(s.Samples) > len(shown) {
		for i, sample := range s.Samples[len(shown):] {
			if i >= overflowListLimit {
				break
			}
			if fc := fileDetail(sample); fc != nil {
				lines = append(lines, fileHeadline(fc))
			} else {
				lines = append(lines, "- "+sample.Summary)
			}
			rest--
		}
	}

	if rest > 0 {
		lines = append(lines, overflowLine(rest, r.noun))
	}
	return lines
}

func fileHeadline(fc *FileChangeSample) string {
	line := fmt.Sprintf("- `%s`", fc.Path)
	if fc.NewFile {
		line += " (new file)"
	}
	if fc.Added > 0 || fc.Removed > 0 {
		line += fmt.Sprintf(" (+%d -%d)", fc.Added, fc.Removed)
	}
	return line
}

// diffBody strips the ---/+++ file header lines from a unified diff.
func diffBody(diff string) []string {
	var body []string
	for _, l := range splitLines(diff) {
		if strings.HasPrefix(l, "---") || strings.HasPrefix(l, "+++") {
			continue
		}
		body = append(body, l)
	}
	return body
}

// readRenderer renders a flat list of files read.
type readRenderer struct{}

func (readRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	lines := []string{heading("Files Read", s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, caps.ReadEntries, s.Count)
	for _, sample := range shown {
		rd := readDetail(sample)
		if rd == nil {
			lines = append(lines, "- "+sample.Summary)
			continue
		}
		line := fmt.Sprintf("- `%s`", rd.Path)
		switch {
		case rd.StartLine > 0 && rd.EndLine > 0:
			line += fmt.Sprintf(" (lines %d-%d)", rd.StartLine, rd.EndLine)
		case rd.StartLine > 0:
			line += fmt.Sprintf(" (from line %d)", rd.StartLine)
		}
		lines = append(lines, line)
	}

	if rest > 0 {
		lines = append(lines, overflowLine(rest, "read"))
	}
	return lines
}

// grepRenderer renders content-search patterns.
type grepRenderer struct{}

func (grepRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	lines := []string{heading("Content Searches", s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, caps.SearchSamples, s.Count)
	for _, sample := range shown {
		gr := grepDetail(sample)
		if gr == nil {
			lines = append(lines, "- "+sample.Summary)
			continue
		}
		line := fmt.Sprintf("- \"%s\"", gr.Pattern)
		if gr.Path != "" {
			line += fmt.Sprintf(" in `%s`", gr.Path)
		}
		if gr.Matches != nil {
			line += fmt.Sprintf(" (%s)", pluralize(*gr.Matches, "match", "matches"))
		}
		lines = append(lines, line)
	}

	if rest > 0 {
		lines = append(lines, overflowLine(rest, "grep"))
	}
	return lines
}

// globRenderer renders file-pattern searches.
type globRenderer struct{}

func (globRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	lines := []string{heading("File Searches", s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, caps.SearchSamples, s.Count)
	for _, sample := range shown {
		gl := globDetail(sample)
		if gl == nil {
			lines = append(lines, "- "+sample.Summary)
			continue
		}
		line := fmt.Sprintf("- `%s`", gl.Pattern)
		if gl.Results != nil {
			line += fmt.Sprintf(" (%s)", pluralize(*gl.Results, "result", "results"))
		}
		lines = append(lines, line)
	}

	if rest > 0 {
		lines = append(lines, overflowLine(rest, "glob"))
	}
	return lines
}

// compactSpec drives the shared compact renderer: a display title, the
// noun used in overflow lines, which cap applies, and a per-category
// sample formatter.
type compactSpec struct {
	title  string
	noun   string
	limit  func(DisplayCaps) int
	format func(ToolSample) string
}

var compactSpecs = map[ToolCategory]compactSpec{
	CategorySearch: {
		title: "Web Searches",
		noun:  "search",
		limit: func(c DisplayCaps) int { return c.SearchSamples },
		format: func(sample ToolSample) string {
			se := sample.Detail.Search
			if se == nil {
				return ""
			}
			line := fmt.Sprintf("- \"%s\"", se.Query)
			if se.Results != nil {
				line += fmt.Sprintf(" (%s)", pluralize(*se.Results, "result", "results"))
			}
			return line
		},
	},
	CategoryFetch: {
		title: "Web Fetches",
		noun:  "fetch",
		limit: func(c DisplayCaps) int { return c.SearchSamples },
		format: func(sample ToolSample) string {
			fe := sample.Detail.Fetch
			if fe == nil {
				return ""
			}
			line := fmt.Sprintf("- %s", fe.URL)
			if fe.Preview != "" {
				line += fmt.Sprintf(" (%s)", oneLine(truncateText(fe.Preview, 80)))
			}
			return line
		},
	},
	CategoryTask: {
		title: "Sub-agent Tasks",
		noun:  "task",
		limit: func(c DisplayCaps) int { return c.CompactSamples },
		format: func(sample ToolSample) string {
			ta := sample.Detail.Task
			if ta == nil {
				return ""
			}
			line := fmt.Sprintf("- %s", oneLine(ta.Description))
			if ta.AgentType != "" {
				line += fmt.Sprintf(" (agent: %s)", ta.AgentType)
			}
			if ta.Result != "" {
				line += fmt.Sprintf(": %s", oneLine(truncateText(ta.Result, 120)))
			}
			return line
		},
	},
	CategoryAsk: {
		title: "Questions Asked",
		noun:  "ask",
		limit: func(c DisplayCaps) int { return c.CompactSamples },
		format: func(sample ToolSample) string {
			ask := sample.Detail.Ask
			if ask == nil {
				return ""
			}
			return fmt.Sprintf("- \"%s\"", oneLine(ask.Question))
		},
	},
	CategoryMCP: {
		noun:  "tool",
		limit: func(c DisplayCaps) int { return c.CompactSamples },
		format: func(sample ToolSample) string {
			mc := sample.Detail.MCP
			if mc == nil {
				return ""
			}
			line := fmt.Sprintf("- `%s`", mc.Tool)
			if mc.Params != "" {
				line += fmt.Sprintf(" %s", oneLine(truncateText(mc.Params, 80)))
			}
			if mc.Result != "" {
				line += fmt.Sprintf(": %s", oneLine(truncateText(mc.Result, 100)))
			}
			return line
		},
	},
}

// compactRenderer is the shared renderer for search, fetch, task, ask
// and mcp aggregates (grouped or not).
type compactRenderer struct {
	category ToolCategory
}

func (r compactRenderer) render(s ToolUsageSummary, caps DisplayCaps) []string {
	spec, ok := compactSpecs[r.category]
	if !ok {
		return renderFallback(s)
	}

	title := spec.title
	if title == "" {
		// MCP aggregates keep their own (possibly grouped) name
		title = s.Name
	}
	lines := []string{heading(title, s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, spec.limit(caps), s.Count)
	for _, sample := range shown {
		line := ""
		if sample.Detail != nil {
			line = spec.format(sample)
		}
		if line == "" {
			line = "- " + sample.Summary
		}
		lines = append(lines, line)
	}

	if rest > 0 {
		lines = append(lines, overflowLine(rest, spec.noun))
	}
	return lines
}

// renderFallback is the universal safety net: plain summaries only.
func renderFallback(s ToolUsageSummary) []string {
	lines := []string{heading(s.Name, s.Count, s.ErrorCount), ""}

	shown, rest := takeSamples(s.Samples, fallbackSamples, s.Count)
	for _, sample := range shown {
		lines = append(lines, "- "+sample.Summary)
	}
	if rest > 0 {
		lines = append(lines, fmt.Sprintf("*...and %d more calls*", rest))
	}
	return lines
}

func shellDetail(sample ToolSample) *ShellSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.Shell
}

func fileDetail(sample ToolSample) *FileChangeSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.File
}

func readDetail(sample ToolSample) *ReadSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.Read
}

func grepDetail(sample ToolSample) *GrepSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.Grep
}

func globDetail(sample ToolSample) *GlobSample {
	if sample.Detail == nil {
		return nil
	}
	return sample.Detail.Glob
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// truncateText cuts s to at most max runes, appending an ellipsis
// marker when anything was dropped.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// oneLine collapses newlines so a sample fits on a single bullet.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
