package outline

import (
	"testing"

	"github.com/mfield/skim/internal/position"
)

func testIndex() *position.Index {
	return position.NewIndex([]position.Break{
		{Unit: 1, Token: 0},
		{Unit: 2, Token: 40},
		{Unit: 3, Token: 90},
	})
}

func TestFlattenNativeDepths(t *testing.T) {
	native := []Node{
		{
			Title: "Part One",
			Unit:  1,
			Children: []Node{
				{Title: "The Beginning", Unit: 2},
			},
		},
	}

	entries := FlattenNative(native, testIndex())
	if len(entries) != 2 {
		t.Fatalf("FlattenNative() returned %d entries, want 2", len(entries))
	}
	if entries[0].Title != "Part One" || entries[0].Depth != 0 || entries[0].Token != 0 {
		t.Errorf("parent entry = %+v", entries[0])
	}
	if entries[1].Title != "The Beginning" || entries[1].Depth != 1 || entries[1].Token != 40 {
		t.Errorf("child entry = %+v", entries[1])
	}
}

func TestFlattenNativeBrokenDestination(t *testing.T) {
	native := []Node{
		{Title: "Good", Unit: 2},
		{Title: "Broken", Unit: 0, Children: []Node{
			{Title: "Child of broken", Unit: 3},
		}},
	}

	entries := FlattenNative(native, testIndex())
	if len(entries) != 3 {
		t.Fatalf("FlattenNative() returned %d entries, want 3", len(entries))
	}
	if entries[1].Unit != 1 || entries[1].Token != 0 {
		t.Errorf("broken entry should fall back to unit 1 / token 0, got %+v", entries[1])
	}
	if entries[2].Unit != 3 || entries[2].Token != 90 {
		t.Errorf("child of broken entry should still resolve, got %+v", entries[2])
	}
}

func TestResolvePrefersNative(t *testing.T) {
	native := []Node{{Title: "Native", Unit: 1}}
	units := []UnitLines{{Unit: 1, Lines: []string{"CHAPTER HEADING"}}}
	entries := Resolve(native, units, testIndex())
	if len(entries) != 1 || entries[0].Title != "Native" {
		t.Errorf("Resolve() = %+v, want the native entry", entries)
	}
}

func TestResolveFallsBackToHeuristic(t *testing.T) {
	units := []UnitLines{
		{Unit: 1, Lines: []string{"Some body text", "INTRODUCTION"}},
		{Unit: 3, Lines: []string{"Chapter 2", "more text"}},
	}
	entries := Resolve(nil, units, testIndex())
	if len(entries) != 2 {
		t.Fatalf("Resolve() = %+v, want 2 heuristic entries", entries)
	}
	if entries[0].Title != "INTRODUCTION" || entries[0].Unit != 1 {
		t.Errorf("first heuristic entry = %+v", entries[0])
	}
	if entries[1].Title != "Chapter 2" || entries[1].Token != 90 || entries[1].Depth != 0 {
		t.Errorf("second heuristic entry = %+v", entries[1])
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"chapter number", "Chapter 7", true},
		{"chapter roman", "CHAPTER XII", true},
		{"part", "Part 2", true},
		{"numbered section", "3.1 Methods", true},
		{"numbered with dot", "4. Discussion", true},
		{"all caps", "RESULTS AND DISCUSSION", true},
		{"all caps short", "AB", false},
		{"mixed case prose", "This is a normal sentence", false},
		{"digits only", "123", false},
		{"empty", "", false},
		{"too long", "A VERY LONG LINE THAT KEEPS GOING WELL PAST THE EIGHTY CHARACTER HEADING LIMIT SET HERE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHeading(tt.line); got != tt.expected {
				t.Errorf("IsHeading(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}
