package store

import (
	"encoding/json"
	"time"

	"github.com/mfield/skim/internal/filter"
)

// driftTolerance is the relative token-count change below which a resume
// position is still offered as exact.
const driftTolerance = 0.05

// Bookmark is the last-read position for one document fingerprint. One
// record per fingerprint, overwritten on each save.
type Bookmark struct {
	Ordinal int       `json:"ordinal"`
	Total   int       `json:"total"`
	SavedAt time.Time `json:"savedAt"`
}

// Approximate reports whether resuming against a token sequence of
// newTotal tokens should be flagged as approximate rather than exact.
// Re-extraction (a filter-setting change, say) shifts token counts, and a
// resume must not claim precision it no longer has.
func (b Bookmark) Approximate(newTotal int) bool {
	if b.Total <= 0 {
		return true
	}
	drift := float64(b.Total-newTotal) / float64(b.Total)
	if drift < 0 {
		drift = -drift
	}
	return drift > driftTolerance
}

// minPinGap is the closest two pins on one document may sit, enforced on
// insert only so previously persisted pins are never retroactively dropped.
const minPinGap = 6

// Pin is a named positional marker within a document.
type Pin struct {
	Ordinal   int       `json:"ordinal"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
}

// insertPin adds p to pins in ordinal order, rejecting it when an existing
// pin is within minPinGap ordinals. Returns the new list and whether the
// pin was added.
func insertPin(pins []Pin, p Pin) ([]Pin, bool) {
	for _, existing := range pins {
		gap := existing.Ordinal - p.Ordinal
		if gap < 0 {
			gap = -gap
		}
		if gap < minPinGap {
			return pins, false
		}
	}
	i := 0
	for i < len(pins) && pins[i].Ordinal < p.Ordinal {
		i++
	}
	pins = append(pins, Pin{})
	copy(pins[i+1:], pins[i:])
	pins[i] = p
	return pins, true
}

// Settings are the process-wide reading preferences. They are loaded once
// at session start and saved on every change.
type Settings struct {
	WPM          int     `json:"wpm"`
	ChunkWidth   int     `json:"chunkWidth"`
	ShowFocus    bool    `json:"showFocus"`
	TopMargin    float64 `json:"topMargin"`
	BottomMargin float64 `json:"bottomMargin"`
	PauseScale   float64 `json:"pauseScale"`
	SpacingScale float64 `json:"spacingScale"`

	Filters filter.Config `json:"filters"`
}

// DefaultSettings returns the settings used when nothing is stored yet.
func DefaultSettings() Settings {
	return Settings{
		WPM:          300,
		ChunkWidth:   1,
		ShowFocus:    true,
		TopMargin:    0.05,
		BottomMargin: 0.05,
		PauseScale:   1.0,
		SpacingScale: 0.3,
		Filters: filter.Config{
			Citations:   false,
			Captions:    false,
			References:  false,
			PageNumbers: true,
		},
	}
}

// CoerceChunkWidth forces a chunk width to a positive odd value; even
// inputs are decremented by one. Centering a chunk around a focus letter
// is only symmetric for odd word counts.
func CoerceChunkWidth(w int) int {
	if w < 1 {
		return 1
	}
	if w%2 == 0 {
		return w - 1
	}
	return w
}

// Normalize clamps settings into their valid ranges.
func (s *Settings) Normalize() {
	s.ChunkWidth = CoerceChunkWidth(s.ChunkWidth)
	if s.WPM < 60 {
		s.WPM = 60
	}
	if s.WPM > 1500 {
		s.WPM = 1500
	}
	s.TopMargin = clampFrac(s.TopMargin, 0.45)
	s.BottomMargin = clampFrac(s.BottomMargin, 0.45)
	if s.PauseScale < 0 {
		s.PauseScale = 0
	}
	if s.PauseScale > 2 {
		s.PauseScale = 2
	}
	if s.SpacingScale <= 0 {
		s.SpacingScale = DefaultSettings().SpacingScale
	}
	if s.SpacingScale > 3 {
		s.SpacingScale = 3
	}
}

func clampFrac(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// decodeSettings restores settings field by field, so a missing or
// malformed field degrades to its default without discarding the rest.
// Completely corrupted data degrades to full defaults.
func decodeSettings(raw []byte) Settings {
	s := DefaultSettings()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return s
	}

	jsonField(fields, "wpm", &s.WPM)
	jsonField(fields, "chunkWidth", &s.ChunkWidth)
	jsonField(fields, "showFocus", &s.ShowFocus)
	jsonField(fields, "topMargin", &s.TopMargin)
	jsonField(fields, "bottomMargin", &s.BottomMargin)
	jsonField(fields, "pauseScale", &s.PauseScale)
	jsonField(fields, "spacingScale", &s.SpacingScale)
	jsonField(fields, "filters", &s.Filters)

	s.Normalize()
	return s
}

// jsonField decodes one field into dst, leaving dst untouched on any
// decode failure.
func jsonField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}
