// Package position maps token ordinals to source-document structural units
// (pages, chapters) and back.
package position

import "sort"

// Break marks where a structural unit begins in the token sequence.
// Breaks are non-decreasing in Token and strictly increasing in Unit.
type Break struct {
	Unit  int `json:"unit"`
	Token int `json:"tokenOrdinal"`
}

// Index answers unit/ordinal lookups over an ordered sequence of Breaks.
// Built once per extraction; rebuilt whenever the source is re-extracted.
type Index struct {
	breaks []Break
}

// NewIndex builds an Index over breaks, which must already be in document
// order.
func NewIndex(breaks []Break) *Index {
	return &Index{breaks: breaks}
}

// Breaks returns the underlying break sequence.
func (ix *Index) Breaks() []Break {
	return ix.breaks
}

// UnitFor returns the structural unit containing the given token ordinal:
// the unit of the last break at or before it. Ordinals before all breaks
// map to the first unit.
func (ix *Index) UnitFor(ordinal int) int {
	if len(ix.breaks) == 0 {
		return 1
	}
	// First break strictly after ordinal; the one before it owns it.
	i := sort.Search(len(ix.breaks), func(i int) bool {
		return ix.breaks[i].Token > ordinal
	})
	if i == 0 {
		return ix.breaks[0].Unit
	}
	return ix.breaks[i-1].Unit
}

// TokenFor returns the token ordinal where the given unit begins, for
// jump-to-unit navigation. A unit with no break of its own resolves to the
// nearest break at or after it; units past the last break resolve to the
// last break's ordinal.
func (ix *Index) TokenFor(unit int) int {
	if len(ix.breaks) == 0 {
		return 0
	}
	i := sort.Search(len(ix.breaks), func(i int) bool {
		return ix.breaks[i].Unit >= unit
	})
	if i == len(ix.breaks) {
		return ix.breaks[len(ix.breaks)-1].Token
	}
	return ix.breaks[i].Token
}
