// Package extract turns raw sources (plain text, Markdown, EPUB, PDF, web
// articles, pasted text) into structural units of text plus an optional
// native outline. It owns no playback state; the session package builds the
// token stream from its results.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfield/skim/internal/outline"
)

// Source kinds. Fingerprints are namespaced by kind so a pasted excerpt can
// never collide with a same-content file.
const (
	KindFile  = "file"
	KindPaste = "paste"
	KindURL   = "url"
)

// Params are the user-adjustable extraction parameters. Changing any of
// them requires a fresh extraction.
type Params struct {
	// TopMargin and BottomMargin are fractions of page height excluded
	// from the top and bottom of each PDF page.
	TopMargin    float64
	BottomMargin float64
	// SpacingScale is the multiple of the preceding run's average character
	// width a horizontal gap must exceed to synthesize a space.
	SpacingScale float64
}

// Unit is the text of one structural unit: a page, a chapter, a section.
type Unit struct {
	Number int
	Text   string
	// Lines holds the unit's text lines top to bottom, for heuristic
	// heading detection. May be nil when the source has no line structure.
	Lines []string
}

// Result is the outcome of one structural extraction.
type Result struct {
	Title string
	Kind  string
	Units []Unit
	// Outline is the source's native outline tree, nil when it has none.
	Outline []outline.Node
}

// Extractor produces a Result for one file format.
type Extractor interface {
	Name() string
	Extensions() []string
	Extract(filename string, p Params) (*Result, error)
}

var registry []Extractor

// Register adds a format extractor to the registry.
func Register(e Extractor) {
	registry = append(registry, e)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, e := range registry {
		out = append(out, e.Name()+" ("+strings.Join(e.Extensions(), ", ")+")")
	}
	return out
}

// FromFile extracts a file using a registered format, or as plain text when
// no format claims its extension.
func FromFile(filename string, p Params) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range registry {
		for _, known := range e.Extensions() {
			if ext == known {
				return e.Extract(filename, p)
			}
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	r := FromString(filepath.Base(filename), string(data))
	r.Kind = KindFile
	return r, nil
}

// FromString wraps already-available text (a paste, a plain file) as a
// single-unit result.
func FromString(title, text string) *Result {
	return &Result{
		Title: title,
		Kind:  KindPaste,
		Units: []Unit{{
			Number: 1,
			Text:   text,
			Lines:  strings.Split(text, "\n"),
		}},
	}
}
