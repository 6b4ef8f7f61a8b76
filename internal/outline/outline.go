// Package outline builds a navigable table of contents anchored to token
// positions. A native document outline is used when the source has one;
// otherwise headings are detected heuristically from per-unit text lines.
package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mfield/skim/internal/position"
)

// Entry is one flattened table-of-contents row, in document order.
// Depth 0 entries are top-level; nested entries follow their parent with
// Depth = parent.Depth + 1.
type Entry struct {
	Title string
	Unit  int
	Token int
	Depth int
}

// Node is a native outline tree node as produced by an extractor.
// Unit <= 0 means the destination could not be resolved.
type Node struct {
	Title    string
	Unit     int
	Children []Node
}

// UnitLines carries one structural unit's text lines, top to bottom, for
// heuristic heading detection.
type UnitLines struct {
	Unit  int
	Lines []string
}

// Resolve builds the table of contents. The native outline wins when it
// yields any entries; heuristic detection over unit lines is the fallback.
func Resolve(native []Node, units []UnitLines, idx *position.Index) []Entry {
	if entries := FlattenNative(native, idx); len(entries) > 0 {
		return entries
	}
	return DetectHeadings(units, idx)
}

// FlattenNative flattens a nested native outline into document order,
// recording each entry's nesting depth. An entry whose destination failed
// to resolve falls back to unit 1 / token 0 rather than aborting the
// outline; its siblings and children are still processed.
func FlattenNative(nodes []Node, idx *position.Index) []Entry {
	return flatten(nodes, idx, 0, nil)
}

func flatten(nodes []Node, idx *position.Index, depth int, out []Entry) []Entry {
	for _, n := range nodes {
		entry := Entry{Title: strings.TrimSpace(n.Title), Depth: depth}
		if n.Unit > 0 {
			entry.Unit = n.Unit
			entry.Token = idx.TokenFor(n.Unit)
		} else {
			entry.Unit = 1
			entry.Token = 0
		}
		out = append(out, entry)
		out = flatten(n.Children, idx, depth+1, out)
	}
	return out
}

var (
	chapterRe  = regexp.MustCompile(`(?i)^(chapter|part|section|book)\s+([0-9]+|[ivxlcdm]+)\b`)
	numberedRe = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+\S`)
)

// headingMaxLen is the longest line still considered a heading candidate.
const headingMaxLen = 80

// DetectHeadings scans every unit's lines for headings. All matches are
// emitted at depth 0; heuristic detection does not infer hierarchy.
func DetectHeadings(units []UnitLines, idx *position.Index) []Entry {
	var entries []Entry
	for _, u := range units {
		for _, line := range u.Lines {
			line = strings.TrimSpace(line)
			if !IsHeading(line) {
				continue
			}
			entries = append(entries, Entry{
				Title: line,
				Unit:  u.Unit,
				Token: idx.TokenFor(u.Unit),
				Depth: 0,
			})
		}
	}
	return entries
}

// IsHeading reports whether a line looks like a chapter/section heading.
// This is a best-effort pattern match: short all-caps lines misfire on
// acronym-heavy text, which is accepted rather than tuned away.
func IsHeading(line string) bool {
	if line == "" || len(line) > headingMaxLen {
		return false
	}
	if chapterRe.MatchString(line) || numberedRe.MatchString(line) {
		return true
	}
	return isAllCapsHeading(line)
}

// isAllCapsHeading matches lines that are entirely upper-case with at
// least 3 non-space characters.
func isAllCapsHeading(line string) bool {
	nonSpace := 0
	hasLetter := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter && nonSpace >= 3
}
