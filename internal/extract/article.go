package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

// ErrNoArticle is returned when a URL fetch fails or the extracted content
// is too short to be a readable article. It is the single distinguishable
// failure of the URL source.
var ErrNoArticle = errors.New("no readable article found")

// minArticleRunes is the shortest extraction still treated as an article.
const minArticleRunes = 280

// fetchTimeout bounds the article fetch.
const fetchTimeout = 30 * time.Second

// FromURL fetches a web page and extracts its readable article text as a
// single-unit result.
func FromURL(rawURL string) (*Result, error) {
	article, err := readability.FromURL(rawURL, fetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArticle, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if utf8.RuneCountInString(text) < minArticleRunes {
		return nil, ErrNoArticle
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = rawURL
	}

	return &Result{
		Title: title,
		Kind:  KindURL,
		Units: []Unit{{
			Number: 1,
			Text:   text,
			Lines:  strings.Split(text, "\n"),
		}},
	}, nil
}
