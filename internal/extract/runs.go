package extract

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Run is one positioned text fragment from a PDF page. Coordinates use the
// PDF convention: origin bottom-left, Y increasing upward.
type Run struct {
	S string
	X float64
	Y float64
	W float64
}

// ligatures maps common ligature glyphs to their expanded ASCII form.
// Applied before any spacing logic runs.
var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
)

// keepRun reports whether a run's vertical position falls inside the
// readable band of the page. A run sitting exactly on a margin threshold
// is retained: only positions strictly above the top threshold or strictly
// below the bottom threshold are excluded.
func keepRun(y, pageHeight float64, p Params) bool {
	top := pageHeight * (1 - p.TopMargin)
	bottom := pageHeight * p.BottomMargin
	return y <= top && y >= bottom
}

// textLine is one horizontal line of runs, ordered left to right.
type textLine struct {
	y    int
	runs []Run
}

// groupIntoLines buckets runs into lines by rounding their vertical
// position to the nearest integer, then orders lines top to bottom and
// runs within a line left to right.
func groupIntoLines(runs []Run) []textLine {
	byY := make(map[int][]Run)
	for _, r := range runs {
		y := int(math.Round(r.Y))
		byY[y] = append(byY[y], r)
	}

	lines := make([]textLine, 0, len(byY))
	for y, rs := range byY {
		sort.Slice(rs, func(i, j int) bool { return rs[i].X < rs[j].X })
		lines = append(lines, textLine{y: y, runs: rs})
	}
	// PDF Y grows upward, so top of page first means descending Y.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	return lines
}

// joinLine reconstructs the text of one line. PDF runs carry absolute glyph
// positions rather than semantic whitespace, so adjacent runs are joined
// with a synthesized space when the horizontal gap between them exceeds
// spacingScale times the preceding run's average character width.
func joinLine(runs []Run, spacingScale float64) string {
	var sb strings.Builder
	for i, r := range runs {
		text := ligatures.Replace(r.S)
		if i > 0 {
			prev := runs[i-1]
			prevText := ligatures.Replace(prev.S)
			gap := r.X - (prev.X + prev.W)
			avg := 0.0
			if n := utf8.RuneCountInString(prevText); n > 0 {
				avg = prev.W / float64(n)
			}
			if avg <= 0 || gap > spacingScale*avg {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// joinLines concatenates reconstructed lines into unit text, undoing
// end-of-line hyphenation: a line ending in a hyphen is assumed to be a
// wrapped word and is joined to the next line with the hyphen dropped.
// This is a heuristic; a genuinely hyphenated word split across a line
// boundary is mangled, and that tradeoff is accepted.
// Intact lines stay separated by newlines: the line-oriented content
// filters (page numbers, captions, reference headers) match against
// whole lines, and the tokenizer treats a newline like any whitespace.
func joinLines(lines []string) string {
	var sb strings.Builder
	pendingJoin := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sb.Len() > 0 && !pendingJoin {
			sb.WriteString("\n")
		}
		if strings.HasSuffix(line, "-") && len(line) > 1 {
			sb.WriteString(line[:len(line)-1])
			pendingJoin = true
		} else {
			sb.WriteString(line)
			pendingJoin = false
		}
	}
	return sb.String()
}
