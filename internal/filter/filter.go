// Package filter implements optional text cleanup applied before
// tokenization, plus a token-level pass that drops citation markers which
// survive as isolated tokens. Every function here is pure and total:
// there is no failure mode, only transformed text.
package filter

import (
	"regexp"
	"strings"
)

// Config toggles the independent filter stages.
type Config struct {
	Citations   bool `json:"citations"`
	Captions    bool `json:"captions"`
	References  bool `json:"references"`
	PageNumbers bool `json:"pageNumbers"`
}

var (
	// Bracketed numeric citation groups: [1], [2,3], [4-7], [8–10].
	inlineCitationRe = regexp.MustCompile(`\[\d+(?:\s*[,\-–—]\s*\d+)*\]`)

	// Runs of Unicode superscript digits.
	superscriptRe = regexp.MustCompile(`[\x{2070}\x{00B9}\x{00B2}\x{00B3}\x{2074}-\x{2079}]+`)

	// Parenthetical author-year citations. The year must terminate an
	// author-name clause; a year embedded in running prose does not match.
	parentheticalRe = func() *regexp.Regexp {
		author := `[A-Z][\p{L}'’\-]+`
		authors := author + `(?:(?:,\s*|\s+)(?:&|and)\s+` + author + `)*(?:\s+et\s+al\.?)?`
		one := `(?:(?:see|cf\.|e\.g\.)\s+)?` + authors + `,\s*\d{4}[a-z]?`
		return regexp.MustCompile(`\(` + one + `(?:\s*;\s*` + one + `)*\)`)
	}()

	// A line that is nothing but a reference-section header.
	refHeaderRe = regexp.MustCompile(`(?i)^\s*(references|bibliography|works cited|endnotes|footnotes|further reading)\s*:?\s*$`)

	// Caption lines: a label and number at the start of a line, followed by
	// a colon or period.
	captionRe = regexp.MustCompile(`^\s*(?:Figure|Fig\.|Table|Chart|Plate|Scheme|Appendix)\s+\d+[A-Za-z]?(?:\.\d+)*\s*[:.]`)

	// A line containing only a 1-4 digit number.
	pageNumberRe = regexp.MustCompile(`^\s*\d{1,4}\s*$`)

	tokenInlineCitationRe = regexp.MustCompile(`^\[\d+(?:\s*[,\-–—]\s*\d+)*\]$`)
	tokenSuperscriptRe    = regexp.MustCompile(`^[\x{2070}\x{00B9}\x{00B2}\x{00B3}\x{2074}-\x{2079}]+$`)
)

// StripInlineCitations removes bracketed numeric citation groups and
// superscript-digit runs. Bracketed non-numeric content is preserved.
func StripInlineCitations(s string) string {
	s = inlineCitationRe.ReplaceAllString(s, "")
	return superscriptRe.ReplaceAllString(s, "")
}

// StripParentheticalCitations removes author-year citations like
// "(Smith, 2020)" or "(see Lee et al., 2019; Kim & Park, 2021)".
func StripParentheticalCitations(s string) string {
	return parentheticalRe.ReplaceAllString(s, "")
}

// refHeaderMaxLen bounds how long a line may be and still count as a
// reference-section header.
const refHeaderMaxLen = 40

// TruncateAtReferences cuts all content from the first line that consists
// solely of a reference-section header. The second return reports whether a
// truncation happened, so a multi-unit document can drop later units too.
func TruncateAtReferences(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if len(line) < refHeaderMaxLen && refHeaderRe.MatchString(line) {
			return strings.Join(lines[:i], "\n"), true
		}
	}
	return s, false
}

// StripCaptions removes whole lines that begin with a figure/table caption
// label. Mid-sentence mentions lack the leading-line pattern and survive.
func StripCaptions(s string) string {
	return dropLines(s, func(line string) bool {
		return captionRe.MatchString(line)
	})
}

// StripPageNumbers removes lines containing only a 1-4 digit number.
// Longer numbers and numbers embedded in sentences are preserved.
func StripPageNumbers(s string) string {
	return dropLines(s, func(line string) bool {
		return pageNumberRe.MatchString(line)
	})
}

func dropLines(s string, drop func(string) bool) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !drop(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CleanText applies the enabled text-level filters in their fixed order:
// inline citations, parenthetical citations, reference-section truncation,
// captions, page numbers. The bool reports reference-section truncation.
func CleanText(s string, cfg Config) (string, bool) {
	if cfg.Citations {
		s = StripInlineCitations(s)
		s = StripParentheticalCitations(s)
	}
	truncated := false
	if cfg.References {
		s, truncated = TruncateAtReferences(s)
	}
	if cfg.Captions {
		s = StripCaptions(s)
	}
	if cfg.PageNumbers {
		s = StripPageNumbers(s)
	}
	return s, truncated
}

// IsCitationToken reports whether a token is purely a bracketed numeric
// citation or purely superscript digits.
func IsCitationToken(tok string) bool {
	return tokenInlineCitationRe.MatchString(tok) || tokenSuperscriptRe.MatchString(tok)
}

// FilterTokens drops isolated citation-marker tokens when citation
// filtering is enabled. This catches markers that whitespace already
// separated before the text-level pass ran.
func FilterTokens(tokens []string, cfg Config) []string {
	if !cfg.Citations {
		return tokens
	}
	// A fresh slice: the caller's token sequence is never written through.
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsCitationToken(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}
