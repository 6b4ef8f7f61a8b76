package extract

import (
	"strings"
	"testing"
)

func TestTextFromHTML(t *testing.T) {
	htmlContent := `
	<html>
		<head><title>Test</title></head>
		<body>
			<h1>Chapter 1</h1>
			<p>This is the <b>first</b> paragraph.</p>
			<div>Some <span>nested</span> text.</div>
		</body>
	</html>
	`

	expected := []string{"Test", "Chapter", "1", "This", "is", "the", "first", "paragraph.", "Some", "nested", "text."}

	words := strings.Fields(textFromHTML(htmlContent))
	if len(words) != len(expected) {
		t.Fatalf("expected %d words, got %d: %v", len(expected), len(words), words)
	}
	for i, word := range words {
		if word != expected[i] {
			t.Errorf("word %d: expected %q, got %q", i, expected[i], word)
		}
	}
}

func TestTextFromHTMLBlockBoundaries(t *testing.T) {
	htmlContent := `<html><body>
		<p>Body text begins.</p>
		<p>128</p>
		<h2>PART TWO</h2>
		<p>It continues.</p>
	</body></html>`

	var lines []string
	for _, l := range strings.Split(textFromHTML(htmlContent), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	want := []string{"Body text begins.", "128", "PART TWO", "It continues."}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], line)
		}
	}
}

func TestNavPointsToNodes(t *testing.T) {
	points := []navPoint{
		{
			Label:   navLabel{Text: " Part One "},
			Content: navContent{Src: "ch01.xhtml#start"},
			Children: []navPoint{
				{Label: navLabel{Text: "Scene"}, Content: navContent{Src: "ch02.xhtml"}},
			},
		},
		{Label: navLabel{Text: "Unknown"}, Content: navContent{Src: "missing.xhtml"}},
	}
	spineUnits := map[string]int{"ch01.xhtml": 1, "ch02.xhtml": 2}

	nodes := navPointsToNodes(points, spineUnits)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Title != "Part One" || nodes[0].Unit != 1 {
		t.Errorf("first node = %+v", nodes[0])
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Unit != 2 {
		t.Errorf("children = %+v", nodes[0].Children)
	}
	if nodes[1].Unit != 0 {
		t.Errorf("unresolvable href should yield unit 0, got %d", nodes[1].Unit)
	}
}
