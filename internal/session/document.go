package session

import (
	"github.com/mfield/skim/internal/extract"
	"github.com/mfield/skim/internal/filter"
	"github.com/mfield/skim/internal/outline"
	"github.com/mfield/skim/internal/position"
	"github.com/mfield/skim/internal/tokenize"
)

// Document is the immutable product of one extraction: the linear token
// stream with its positional index and table of contents. Re-deriving with
// different filter or extraction parameters produces a new Document.
type Document struct {
	Fingerprint    string
	Title          string
	Tokens         []string
	Index          *position.Index
	Outline        []outline.Entry
	SentenceStarts []int
}

// BuildDocument runs the content filter and tokenizer over each structural
// unit of an extraction result, recording a position break where every
// unit begins. A reference-section truncation inside one unit drops all
// following units as well.
func BuildDocument(fp string, res *extract.Result, cfg filter.Config) *Document {
	var (
		tokens []string
		breaks []position.Break
		units  []outline.UnitLines
	)

	for _, u := range res.Units {
		cleaned, truncated := filter.CleanText(u.Text, cfg)
		toks := filter.FilterTokens(tokenize.Tokenize(cleaned), cfg)

		breaks = append(breaks, position.Break{Unit: u.Number, Token: len(tokens)})
		tokens = append(tokens, toks...)
		units = append(units, outline.UnitLines{Unit: u.Number, Lines: u.Lines})

		if truncated {
			break
		}
	}

	idx := position.NewIndex(breaks)
	return &Document{
		Fingerprint:    fp,
		Title:          res.Title,
		Tokens:         tokens,
		Index:          idx,
		Outline:        outline.Resolve(res.Outline, units, idx),
		SentenceStarts: tokenize.SentenceStarts(tokens),
	}
}

// Total returns the token count.
func (d *Document) Total() int {
	return len(d.Tokens)
}

// Context returns up to n tokens starting at ordinal, joined by spaces,
// for pin context strings.
func (d *Document) Context(ordinal, n int) string {
	if len(d.Tokens) == 0 || n <= 0 {
		return ""
	}
	if ordinal < 0 {
		ordinal = 0
	}
	if ordinal >= len(d.Tokens) {
		ordinal = len(d.Tokens) - 1
	}
	end := ordinal + n
	if end > len(d.Tokens) {
		end = len(d.Tokens)
	}
	out := ""
	for i := ordinal; i < end; i++ {
		if i > ordinal {
			out += " "
		}
		out += d.Tokens[i]
	}
	return out
}
