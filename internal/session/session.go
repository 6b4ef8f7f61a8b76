// Package session holds the runtime model of a reading session: where the
// user is in the token stream, how fast playback runs, and the timing of
// each chunk reveal.
package session

import (
	"github.com/mfield/skim/internal/store"
)

// Session is the mutable state of the active reading session. It is owned
// and mutated by a single goroutine (the UI loop); the scheduler's only
// suspension point is the timer between chunk reveals.
type Session struct {
	Doc *Document

	Ordinal    int
	WPM        int
	ChunkWidth int
	PauseScale float64
	Playing    bool

	// generation is the pending wake-up handle: every pause, seek, or
	// re-arm bumps it, and a timer fire carrying a stale generation is
	// ignored. Bumping is an unconditional, idempotent cancel.
	generation int
}

// New creates a session over a freshly built document, positioned at the
// start and paused.
func New(doc *Document, set store.Settings) *Session {
	return &Session{
		Doc:        doc,
		Ordinal:    0,
		WPM:        set.WPM,
		ChunkWidth: store.CoerceChunkWidth(set.ChunkWidth),
		PauseScale: set.PauseScale,
	}
}

// Total returns the document's token count.
func (s *Session) Total() int {
	if s.Doc == nil {
		return 0
	}
	return s.Doc.Total()
}

// Generation returns the current wake-up generation. A timer callback must
// present the generation it was armed with; a mismatch means it was
// cancelled or superseded.
func (s *Session) Generation() int {
	return s.generation
}

// Arm bumps and returns the generation for a newly scheduled wake-up.
func (s *Session) Arm() int {
	s.generation++
	return s.generation
}

// clamp restricts an ordinal to [0, total-1].
func (s *Session) clamp(ordinal int) int {
	if ordinal < 0 {
		return 0
	}
	if total := s.Total(); ordinal >= total {
		if total == 0 {
			return 0
		}
		return total - 1
	}
	return ordinal
}

// Seek moves to an ordinal, clamped into range, and always pauses:
// seeking during automatic advance is user intent to take manual control.
func (s *Session) Seek(ordinal int) {
	s.Ordinal = s.clamp(ordinal)
	s.Pause()
}

// Pause stops playback and cancels any pending wake-up.
func (s *Session) Pause() {
	s.Playing = false
	s.generation++
}

// TogglePlay flips play/pause. Starting playback from the terminal
// position restarts from the beginning. Reports whether playback is now
// running; an empty document never starts.
func (s *Session) TogglePlay() bool {
	if s.Playing {
		s.Pause()
		return false
	}
	if s.Total() == 0 {
		return false
	}
	if s.AtEnd() {
		s.Ordinal = 0
	}
	s.Playing = true
	return true
}

// AtEnd reports whether the session sits at the terminal position.
func (s *Session) AtEnd() bool {
	total := s.Total()
	return total > 0 && s.Ordinal >= total-1
}

// Advance moves forward by one chunk. Reaching or passing the end stops
// playback and clamps to the terminal position; playback does not wrap.
// Reports whether playback continues.
func (s *Session) Advance() bool {
	total := s.Total()
	if total == 0 {
		s.Playing = false
		return false
	}
	next := s.Ordinal + s.ChunkWidth
	if next >= total {
		s.Ordinal = total - 1
		s.Playing = false
		s.generation++
		return false
	}
	s.Ordinal = next
	return true
}

// Chunk returns the tokens about to be shown: up to ChunkWidth tokens
// starting at the current ordinal.
func (s *Session) Chunk() []string {
	total := s.Total()
	if total == 0 {
		return nil
	}
	end := s.Ordinal + s.ChunkWidth
	if end > total {
		end = total
	}
	return s.Doc.Tokens[s.Ordinal:end]
}

// JumpToPrevSentence seeks to the start of the previous sentence.
func (s *Session) JumpToPrevSentence() {
	if s.Doc == nil {
		return
	}
	starts := s.Doc.SentenceStarts
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < s.Ordinal {
			s.Seek(starts[i])
			return
		}
	}
	s.Seek(0)
}

// JumpToNextSentence seeks to the start of the next sentence.
func (s *Session) JumpToNextSentence() {
	if s.Doc == nil {
		return
	}
	for _, start := range s.Doc.SentenceStarts {
		if start > s.Ordinal {
			s.Seek(start)
			return
		}
	}
	s.Seek(s.Total() - 1)
}

// CurrentUnit returns the structural unit (page, chapter) containing the
// current ordinal.
func (s *Session) CurrentUnit() int {
	if s.Doc == nil {
		return 1
	}
	return s.Doc.Index.UnitFor(s.Ordinal)
}

// ResumeOffer describes a stored position worth offering to the user.
type ResumeOffer struct {
	Ordinal     int
	Approximate bool
}

// Resumable returns the resume offer for a stored bookmark: offered only
// when the stored ordinal falls strictly inside the new token sequence,
// and flagged approximate when the token count drifted beyond tolerance.
func (s *Session) Resumable(b store.Bookmark) (ResumeOffer, bool) {
	total := s.Total()
	if b.Ordinal <= 0 || b.Ordinal >= total {
		return ResumeOffer{}, false
	}
	return ResumeOffer{
		Ordinal:     b.Ordinal,
		Approximate: b.Approximate(total),
	}, true
}

// Snapshot returns the bookmark record for the current position.
func (s *Session) Snapshot() store.Bookmark {
	return store.Bookmark{
		Ordinal: s.Ordinal,
		Total:   s.Total(),
	}
}

// ApplySettings takes new preferences. They affect the next scheduled
// advance; a delay already in flight is not retroactively altered.
func (s *Session) ApplySettings(set store.Settings) {
	s.WPM = set.WPM
	s.ChunkWidth = store.CoerceChunkWidth(set.ChunkWidth)
	s.PauseScale = set.PauseScale
}

// ReplaceDocument swaps in a re-extracted document. A parameter change is
// a deliberate user action, so the position resets to the start; a reload
// of the same content (the file changed on disk) keeps the clamped
// position instead.
func (s *Session) ReplaceDocument(doc *Document, keepPosition bool) {
	s.Doc = doc
	if keepPosition {
		s.Ordinal = s.clamp(s.Ordinal)
	} else {
		s.Ordinal = 0
	}
	s.Pause()
}
