package domain

import "testing"

func TestParseTocEntries(t *testing.T) {
	lines := []string{
		"# Summary",
		"",
		"* [Intro](intro.md)",
		"  * [Setup](setup.md#install)",
		"* [Site](https://example.com)",
		"* [Intro again](intro.md)",
		"* [Part](part1/README.md) [Chapter](part1/chapter.md)",
		"   ",
	}

	entries := ParseTocEntries("SUMMARY.md", lines)

	want := []TocEntry{
		{Filename: "intro.md", Title: "Intro", Line: 3},
		{Filename: "setup.md", Title: "Setup", Line: 4},
		{Filename: "intro.md", Title: "Intro again", Line: 6},
		{Filename: "part1/README.md", Title: "Part", Line: 7},
		{Filename: "part1/chapter.md", Title: "Chapter", Line: 7},
	}

	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestFinding_Location(t *testing.T) {
	tests := []struct {
		finding Finding
		want    string
	}{
		{Finding{Filename: "guide.md", Line: 12}, "guide.md:12"},
		{Finding{Filename: "orphan.md"}, "orphan.md"},
	}

	for _, tt := range tests {
		if got := tt.finding.Location(); got != tt.want {
			t.Errorf("Location() = %q, want %q", got, tt.want)
		}
	}
}

func TestTocReport_Clean(t *testing.T) {
	var nilReport *TocReport
	if !nilReport.Clean() {
		t.Error("nil report should be clean")
	}
	if !(&TocReport{}).Clean() {
		t.Error("empty report should be clean")
	}
	if (&TocReport{Orphans: []string{"x.md"}}).Clean() {
		t.Error("report with orphans should not be clean")
	}
}
