package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFormat implements Extractor for PDF files. Pages are the structural
// units. Text runs in the configured top/bottom margin bands are excluded
// from the unit text entirely, not merely hidden: running headers and
// footers must never enter the token stream.
type PDFFormat struct{}

func init() {
	Register(&PDFFormat{})
}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

func (f *PDFFormat) Extract(filename string, p Params) (result *Result, err error) {
	// The underlying parser panics on malformed files.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("parse pdf %s: %v", filename, r)
		}
	}()

	file, reader, err := pdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var units []Unit
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}

		height := pageHeight(page)
		var runs []Run
		for _, t := range pageTexts(page) {
			if !keepRun(t.Y, height, p) {
				continue
			}
			runs = append(runs, Run{S: t.S, X: t.X, Y: t.Y, W: t.W})
		}
		if len(runs) == 0 {
			continue
		}

		grouped := groupIntoLines(runs)
		lines := make([]string, 0, len(grouped))
		for _, l := range grouped {
			lines = append(lines, joinLine(l.runs, p.SpacingScale))
		}

		text := joinLines(lines)
		if strings.TrimSpace(text) == "" {
			continue
		}
		units = append(units, Unit{Number: n, Text: text, Lines: lines})
	}

	// The PDF outline tree carried by this backend has titles but no
	// resolvable destinations, so the heuristic heading pass over the
	// per-page lines supplies navigation instead.
	return &Result{
		Title: filepath.Base(filename),
		Kind:  KindFile,
		Units: units,
	}, nil
}

// pageTexts reads a page's positioned text runs, absorbing the content
// parser's panics on damaged streams.
func pageTexts(page pdf.Page) (texts []pdf.Text) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
		}
	}()
	return page.Content().Text
}

// pageHeight resolves the page's MediaBox height, walking up the page tree
// for inherited boxes. Falls back to US Letter height.
func pageHeight(page pdf.Page) float64 {
	v := page.V
	for depth := 0; depth < 16; depth++ {
		if v.IsNull() {
			break
		}
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return 792
}
