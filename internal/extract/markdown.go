package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mfield/skim/internal/outline"
)

// MarkdownFormat implements Extractor for Markdown files. Headers define
// the structural units and supply a native outline.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######).
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

type mdHeading struct {
	title string
	level int
	unit  int
}

func (f *MarkdownFormat) Extract(filename string, _ Params) (*Result, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open markdown: %w", err)
	}
	defer file.Close()

	var (
		units    []Unit
		headings []mdHeading
		cur      strings.Builder
		curLines []string
		unitNo   int
	)

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			units = append(units, Unit{Number: unitNo, Text: text, Lines: curLines})
		}
		cur.Reset()
		curLines = nil
	}

	unitNo = 1
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			unitNo++
			headings = append(headings, mdHeading{
				title: strings.TrimSpace(match[2]),
				level: len(match[1]),
				unit:  unitNo,
			})
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		curLines = append(curLines, line)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan markdown: %w", err)
	}

	return &Result{
		Title:   filepath.Base(filename),
		Kind:    KindFile,
		Units:   units,
		Outline: buildHeadingTree(headings),
	}, nil
}

// buildHeadingTree nests headings by level: a deeper heading becomes a
// child of the most recent shallower one.
func buildHeadingTree(headings []mdHeading) []outline.Node {
	var nodes []outline.Node
	for i := 0; i < len(headings); {
		h := headings[i]
		end := i + 1
		for end < len(headings) && headings[end].level > h.level {
			end++
		}
		nodes = append(nodes, outline.Node{
			Title:    h.title,
			Unit:     h.unit,
			Children: buildHeadingTree(headings[i+1 : end]),
		})
		i = end
	}
	return nodes
}
