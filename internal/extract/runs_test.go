package extract

import "testing"

func marginParams() Params {
	return Params{TopMargin: 0.1, BottomMargin: 0.1, SpacingScale: 0.3}
}

func TestKeepRunMarginBoundary(t *testing.T) {
	// Page height 1000, 10% margins: readable band is [100, 900].
	tests := []struct {
		name     string
		y        float64
		expected bool
	}{
		{"middle of page", 500, true},
		{"exactly top threshold", 900, true},
		{"exactly bottom threshold", 100, true},
		{"above top threshold", 900.5, false},
		{"below bottom threshold", 99.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keepRun(tt.y, 1000, marginParams()); got != tt.expected {
				t.Errorf("keepRun(y=%v) = %v, want %v", tt.y, got, tt.expected)
			}
		})
	}
}

func TestKeepRunZeroMargins(t *testing.T) {
	p := Params{SpacingScale: 0.3}
	if !keepRun(0, 1000, p) || !keepRun(1000, 1000, p) {
		t.Error("zero margins should keep every run on the page")
	}
}

func TestJoinLineSpacing(t *testing.T) {
	// "Hello" 5 chars wide 50 units: average char width 10.
	tests := []struct {
		name     string
		runs     []Run
		expected string
	}{
		{
			name: "wide gap gets a space",
			runs: []Run{
				{S: "Hello", X: 0, W: 50},
				{S: "world", X: 58, W: 50},
			},
			expected: "Hello world",
		},
		{
			name: "tight runs join directly",
			runs: []Run{
				{S: "Hel", X: 0, W: 30},
				{S: "lo", X: 31, W: 20},
			},
			expected: "Hello",
		},
		{
			name:     "single run",
			runs:     []Run{{S: "word", X: 0, W: 40}},
			expected: "word",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinLine(tt.runs, 0.3); got != tt.expected {
				t.Errorf("joinLine() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestJoinLineLigatures(t *testing.T) {
	runs := []Run{{S: "eﬃcient", X: 0, W: 70}}
	if got := joinLine(runs, 0.3); got != "efficient" {
		t.Errorf("joinLine() = %q, want %q", got, "efficient")
	}
}

func TestGroupIntoLines(t *testing.T) {
	runs := []Run{
		{S: "bottom", Y: 100.2, X: 0},
		{S: "right", Y: 700, X: 50},
		{S: "left", Y: 700.4, X: 0},
	}
	lines := groupIntoLines(runs)
	if len(lines) != 2 {
		t.Fatalf("groupIntoLines() produced %d lines, want 2", len(lines))
	}
	if lines[0].runs[0].S != "left" || lines[0].runs[1].S != "right" {
		t.Errorf("top line runs out of order: %+v", lines[0].runs)
	}
	if lines[1].runs[0].S != "bottom" {
		t.Errorf("bottom line = %+v", lines[1].runs)
	}
}

func TestJoinLinesDehyphenation(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "wrapped word rejoined",
			lines:    []string{"The experi-", "ment succeeded."},
			expected: "The experiment succeeded.",
		},
		{
			name:     "plain lines stay separate",
			lines:    []string{"One line.", "Another line."},
			expected: "One line.\nAnother line.",
		},
		{
			name:     "empty lines skipped",
			lines:    []string{"First.", "", "Second."},
			expected: "First.\nSecond.",
		},
		{
			name:     "lone hyphen preserved",
			lines:    []string{"-", "next"},
			expected: "-\nnext",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinLines(tt.lines); got != tt.expected {
				t.Errorf("joinLines(%v) = %q, want %q", tt.lines, got, tt.expected)
			}
		})
	}
}

func TestJoinLinesKeepsLineStructure(t *testing.T) {
	// Furniture lines must stay on their own lines, or the line-oriented
	// content filters can never match them in page text.
	lines := []string{
		"The story continues here.",
		"42",
		"Figure 3: A diagram.",
		"More body text.",
	}
	want := "The story continues here.\n42\nFigure 3: A diagram.\nMore body text."
	if got := joinLines(lines); got != want {
		t.Errorf("joinLines() = %q, want %q", got, want)
	}
}
