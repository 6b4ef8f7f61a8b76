package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp markdown: %v", err)
	}
	return path
}

func TestMarkdownExtract(t *testing.T) {
	content := `Intro paragraph before any heading.

# First Chapter

Body of the first chapter.

## Nested Section

Nested body.

# Second Chapter

Final body.
`
	path := writeTempMarkdown(t, content)

	f := &MarkdownFormat{}
	result, err := f.Extract(path, Params{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(result.Units) != 4 {
		t.Fatalf("expected 4 units (preface + 3 sections), got %d", len(result.Units))
	}
	if result.Units[0].Number != 1 {
		t.Errorf("preface unit number = %d, want 1", result.Units[0].Number)
	}

	if len(result.Outline) != 2 {
		t.Fatalf("expected 2 top-level outline nodes, got %d", len(result.Outline))
	}
	first := result.Outline[0]
	if first.Title != "First Chapter" || first.Unit != 2 {
		t.Errorf("first node = %+v", first)
	}
	if len(first.Children) != 1 || first.Children[0].Title != "Nested Section" {
		t.Errorf("first node children = %+v", first.Children)
	}
	if result.Outline[1].Title != "Second Chapter" || result.Outline[1].Unit != 4 {
		t.Errorf("second node = %+v", result.Outline[1])
	}
}

func TestMarkdownExtractNoHeadings(t *testing.T) {
	path := writeTempMarkdown(t, "Just a plain paragraph.\nAnother line.\n")

	f := &MarkdownFormat{}
	result, err := f.Extract(path, Params{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Units) != 1 {
		t.Fatalf("expected a single unit, got %d", len(result.Units))
	}
	if len(result.Outline) != 0 {
		t.Errorf("expected no outline nodes, got %+v", result.Outline)
	}
}
