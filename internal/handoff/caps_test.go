package handoff

import (
	"testing"
)

func TestCapsForMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		wantErr bool
	}{
		{"inline", ModeInline, false},
		{"reference", ModeReference, false},
		{"empty", Mode(""), true},
		{"typo", Mode("inlin"), true},
		{"uppercase", Mode("Inline"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CapsForMode(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Errorf("CapsForMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
		})
	}
}

func TestReferenceCapsNeverTighter(t *testing.T) {
	inline, err := CapsForMode(ModeInline)
	if err != nil {
		t.Fatalf("inline caps: %v", err)
	}
	reference, err := CapsForMode(ModeReference)
	if err != nil {
		t.Fatalf("reference caps: %v", err)
	}

	pairs := []struct {
		name      string
		inline    int
		reference int
	}{
		{"ShellDetailed", inline.ShellDetailed, reference.ShellDetailed},
		{"ShellOutputLines", inline.ShellOutputLines, reference.ShellOutputLines},
		{"WriteEditDetailed", inline.WriteEditDetailed, reference.WriteEditDetailed},
		{"WriteEditDiffLines", inline.WriteEditDiffLines, reference.WriteEditDiffLines},
		{"ReadEntries", inline.ReadEntries, reference.ReadEntries},
		{"SearchSamples", inline.SearchSamples, reference.SearchSamples},
		{"CompactSamples", inline.CompactSamples, reference.CompactSamples},
	}

	for _, p := range pairs {
		if p.reference < p.inline {
			t.Errorf("%s: reference cap %d is tighter than inline cap %d", p.name, p.reference, p.inline)
		}
	}
}
