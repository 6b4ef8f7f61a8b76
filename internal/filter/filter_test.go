package filter

import (
	"strings"
	"testing"
)

func TestStripInlineCitations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single citation",
			input:    "This is a fact [1] and more.",
			expected: "This is a fact  and more.",
		},
		{
			name:     "comma list",
			input:    "Shown previously [1, 2, 14].",
			expected: "Shown previously .",
		},
		{
			name:     "hyphen range",
			input:    "Widely reported [3-7] in the field.",
			expected: "Widely reported  in the field.",
		},
		{
			name:     "en-dash range",
			input:    "Widely reported [3–7] here.",
			expected: "Widely reported  here.",
		},
		{
			name:     "superscript digits",
			input:    "A claim¹² with backing.",
			expected: "A claim with backing.",
		},
		{
			name:     "editorial bracket preserved",
			input:    "He said [sic] it was fine.",
			expected: "He said [sic] it was fine.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripInlineCitations(tt.input)
			if result != tt.expected {
				t.Errorf("StripInlineCitations(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripParentheticalCitations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "author year",
			input:    "This is true (Smith, 2020) indeed.",
			expected: "This is true  indeed.",
		},
		{
			name:     "two authors",
			input:    "Confirmed (Smith & Jones, 2018) later.",
			expected: "Confirmed  later.",
		},
		{
			name:     "et al",
			input:    "Observed (Lee et al., 2019) in trials.",
			expected: "Observed  in trials.",
		},
		{
			name:     "see prefix",
			input:    "Related work (see Brown, 2015) exists.",
			expected: "Related work  exists.",
		},
		{
			name:     "multi citation",
			input:    "Well studied (Smith, 2020; Kim & Park, 2021) overall.",
			expected: "Well studied  overall.",
		},
		{
			name:     "year in prose preserved",
			input:    "It happened (in 1985, during a recession) quickly.",
			expected: "It happened (in 1985, during a recession) quickly.",
		},
		{
			name:     "plain parenthetical preserved",
			input:    "The result (a surprise) held.",
			expected: "The result (a surprise) held.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripParentheticalCitations(tt.input)
			if result != tt.expected {
				t.Errorf("StripParentheticalCitations(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncateAtReferences(t *testing.T) {
	input := "Body text here.\nMore body.\nReferences\n[1] Smith, J. Title.\n[2] Jones, K."
	result, truncated := TruncateAtReferences(input)
	if !truncated {
		t.Fatal("expected truncation")
	}
	expected := "Body text here.\nMore body."
	if result != expected {
		t.Errorf("TruncateAtReferences() = %q, want %q", result, expected)
	}
}

func TestTruncateAtReferencesIdempotent(t *testing.T) {
	input := "Body text.\nBibliography\nentries follow"
	once, truncated := TruncateAtReferences(input)
	if !truncated {
		t.Fatal("expected truncation on first pass")
	}
	twice, truncated := TruncateAtReferences(once)
	if truncated {
		t.Error("second pass should not truncate")
	}
	if twice != once {
		t.Errorf("second pass changed output: %q vs %q", twice, once)
	}
}

func TestTruncateAtReferencesMidSentence(t *testing.T) {
	input := "The paper references several prior studies.\nIt continues here."
	result, truncated := TruncateAtReferences(input)
	if truncated {
		t.Error("mid-sentence 'references' must not truncate")
	}
	if result != input {
		t.Errorf("text changed: %q", result)
	}
}

func TestStripCaptions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "figure colon",
			input:    "Before.\nFigure 1: The setup diagram.\nAfter.",
			expected: "Before.\nAfter.",
		},
		{
			name:     "fig period",
			input:    "Before.\nFig. 2. Results over time.\nAfter.",
			expected: "Before.\nAfter.",
		},
		{
			name:     "table nested number",
			input:    "Before.\nTable 2.3: Parameters.\nAfter.",
			expected: "Before.\nAfter.",
		},
		{
			name:     "mid-sentence mention preserved",
			input:    "As Figure 1 shows, the trend holds.",
			expected: "As Figure 1 shows, the trend holds.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripCaptions(tt.input)
			if result != tt.expected {
				t.Errorf("StripCaptions(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripPageNumbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "standalone number removed",
			input:    "End of page.\n42\nStart of next.",
			expected: "End of page.\nStart of next.",
		},
		{
			name:     "five digits preserved",
			input:    "Total.\n12345\nNext.",
			expected: "Total.\n12345\nNext.",
		},
		{
			name:     "embedded number preserved",
			input:    "There were 42 samples.",
			expected: "There were 42 samples.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripPageNumbers(tt.input)
			if result != tt.expected {
				t.Errorf("StripPageNumbers(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCleanTextDisabled(t *testing.T) {
	input := "Fact [1].\nReferences\ngone\n7\nFigure 1: cap."
	result, truncated := CleanText(input, Config{})
	if truncated {
		t.Error("no filters enabled, nothing should truncate")
	}
	if result != input {
		t.Errorf("CleanText with empty config changed text: %q", result)
	}
}

func TestCleanTextOrder(t *testing.T) {
	input := "A fact [1] (Smith, 2020).\n3\nFigure 1: cap.\nReferences\ntail"
	cfg := Config{Citations: true, Captions: true, References: true, PageNumbers: true}
	result, truncated := CleanText(input, cfg)
	if !truncated {
		t.Error("expected reference truncation")
	}
	for _, banned := range []string{"[1]", "Smith", "Figure", "tail"} {
		if strings.Contains(result, banned) {
			t.Errorf("CleanText() output %q still contains %q", result, banned)
		}
	}
}

func TestCleanTextPageShapedInput(t *testing.T) {
	// Extracted page text carries one line per source line; the furniture
	// lines must come out, and the body must survive untouched.
	input := "The story continues here.\n42\nFigure 3: A diagram.\nMore body text."
	cfg := Config{Captions: true, References: true, PageNumbers: true}

	result, truncated := CleanText(input, cfg)
	if truncated {
		t.Error("nothing here is a reference header")
	}
	if result != "The story continues here.\nMore body text." {
		t.Errorf("CleanText() = %q", result)
	}
}

func TestFilterTokens(t *testing.T) {
	tokens := []string{"word", "[1]", "[2,3]", "²", "[sic]", "end."}
	result := FilterTokens(tokens, Config{Citations: true})
	expected := []string{"word", "[sic]", "end."}
	if len(result) != len(expected) {
		t.Fatalf("FilterTokens() = %v, want %v", result, expected)
	}
	for i := range result {
		if result[i] != expected[i] {
			t.Errorf("FilterTokens()[%d] = %q, want %q", i, result[i], expected[i])
		}
	}
}

func TestFilterTokensLeavesInputIntact(t *testing.T) {
	tokens := []string{"word", "[1]", "next"}
	result := FilterTokens(tokens, Config{Citations: true})
	if len(result) != 2 {
		t.Fatalf("FilterTokens() = %v", result)
	}
	if tokens[0] != "word" || tokens[1] != "[1]" || tokens[2] != "next" {
		t.Errorf("input slice was modified: %v", tokens)
	}
}

func TestFilterTokensDisabled(t *testing.T) {
	tokens := []string{"word", "[1]"}
	result := FilterTokens(tokens, Config{})
	if len(result) != 2 {
		t.Errorf("FilterTokens with citations off dropped tokens: %v", result)
	}
}
