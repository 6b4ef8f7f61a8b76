// Package tokenize splits extracted text into the ordered display tokens
// the playback engine advances through.
package tokenize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into tokens on runs of whitespace. Punctuation stays
// attached to its word because pause timing and the focus point depend on it.
// Empty or whitespace-only input yields an empty sequence.
func Tokenize(text string) []string {
	return strings.Fields(norm.NFC.String(text))
}

// SentenceStarts returns the indices of tokens that start sentences.
func SentenceStarts(tokens []string) []int {
	starts := []int{0}
	for i, tok := range tokens {
		if len(tok) > 0 {
			last := tok[len(tok)-1]
			if last == '.' || last == '!' || last == '?' {
				if i+1 < len(tokens) {
					starts = append(starts, i+1)
				}
			}
		}
	}
	return starts
}

// ORPPosition returns the Optimal Recognition Point index for a word.
// This is the character (rune) position where the eye should focus for
// fastest recognition.
func ORPPosition(word string) int {
	length := utf8.RuneCountInString(word)
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}
