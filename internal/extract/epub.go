package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/mfield/skim/internal/outline"
)

// EPUBFormat implements Extractor for EPUB files. Spine items become the
// structural units; the NCX navigation map becomes the native outline.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Extract(filename string, _ Params) (*Result, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]

	// Spine items are independent documents; parse them concurrently into
	// indexed slots so document order is preserved.
	texts := make([]string, len(book.Spine.Itemrefs))
	var g errgroup.Group
	g.SetLimit(4)
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		g.Go(func() error {
			r, err := ref.Item.Open()
			if err != nil {
				return nil // skip unreadable items, keep the rest
			}
			data, err := io.ReadAll(r)
			r.Close()
			if err != nil {
				return nil
			}
			texts[i] = textFromHTML(string(data))
			return nil
		})
	}
	_ = g.Wait()

	var units []Unit
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		units = append(units, Unit{Number: i + 1, Text: text, Lines: strings.Split(text, "\n")})
	}

	return &Result{
		Title:   filepath.Base(filename),
		Kind:    KindFile,
		Units:   units,
		Outline: epubOutline(filename, book),
	}, nil
}

// blockTags are the elements whose boundary ends a line of text. Keeping
// block boundaries as newlines preserves the line structure the content
// filters and heuristic heading detection match against.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true, "title": true,
	"table": true, "ul": true, "ol": true,
}

// textFromHTML extracts the visible text of an XHTML chapter, one line per
// block element.
func textFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			out.WriteString("\n")
		}
	}
	walk(doc)
	return out.String()
}

// NCX XML structures for parsing toc.ncx.
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// epubOutline parses the NCX navigation map into an outline tree, resolving
// each destination href to its spine position. A missing or unparsable NCX
// yields a nil outline and the caller falls back to heuristics.
func epubOutline(filename string, book *epub.Rootfile) []outline.Node {
	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return nil
	}

	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return nil
	}

	spineUnits := spineUnitMap(book)
	return navPointsToNodes(toc.NavMap.NavPoints, spineUnits)
}

// spineUnitMap maps item hrefs (full and base name) to 1-based spine
// positions, which are the structural unit numbers.
func spineUnitMap(book *epub.Rootfile) map[string]int {
	m := make(map[string]int)
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil || ref.Item.HREF == "" {
			continue
		}
		unit := i + 1
		if _, ok := m[ref.Item.HREF]; !ok {
			m[ref.Item.HREF] = unit
		}
		base := path.Base(ref.Item.HREF)
		if _, ok := m[base]; !ok {
			m[base] = unit
		}
	}
	return m
}

func navPointsToNodes(points []navPoint, spineUnits map[string]int) []outline.Node {
	var nodes []outline.Node
	for _, np := range points {
		href := np.Content.Src
		if idx := strings.Index(href, "#"); idx != -1 {
			href = href[:idx]
		}

		unit := 0
		if u, ok := spineUnits[href]; ok {
			unit = u
		} else if u, ok := spineUnits[path.Base(href)]; ok {
			unit = u
		}

		nodes = append(nodes, outline.Node{
			Title:    strings.TrimSpace(np.Label.Text),
			Unit:     unit,
			Children: navPointsToNodes(np.Children, spineUnits),
		})
	}
	return nodes
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
