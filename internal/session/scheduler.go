package session

import (
	"time"
)

// Raw pause factors for chunk-final punctuation. The applied multiplier is
// 1 + (raw-1)*pauseScale, so pauseScale 0 flattens every word to the base
// delay and pauseScale 2 doubles the pause effect.
const (
	sentencePauseFactor = 2.8
	clausePauseFactor   = 1.6
)

// PauseMultiplier returns the punctuation-aware delay multiplier for the
// last token of a chunk. The pause represents the reader's dwell time
// after finishing the chunk, so it is the final token that matters.
func PauseMultiplier(token string, pauseScale float64) float64 {
	raw := 1.0
	if len(token) > 0 {
		switch token[len(token)-1] {
		case '.', '!', '?':
			raw = sentencePauseFactor
		case ',', ';', ':':
			raw = clausePauseFactor
		}
	}
	return 1 + (raw-1)*pauseScale
}

// delayMsAt computes the delay in milliseconds before revealing the chunk
// starting at ordinal i.
func (s *Session) delayMsAt(i int) float64 {
	total := s.Total()
	if total == 0 || s.WPM <= 0 {
		return 0
	}
	last := i + s.ChunkWidth - 1
	if last > total-1 {
		last = total - 1
	}
	base := 60000.0 / float64(s.WPM) * float64(s.ChunkWidth)
	return base * PauseMultiplier(s.Doc.Tokens[last], s.PauseScale)
}

// Delay returns the duration to show before revealing the current chunk.
func (s *Session) Delay() time.Duration {
	return time.Duration(s.delayMsAt(s.Ordinal) * float64(time.Millisecond))
}

// RemainingMinutes estimates the reading time left from the current
// ordinal, in whole minutes rounded up. A pure projection: it mutates
// nothing and is recomputed whenever position, rate, chunk width, or pause
// scale changes.
func (s *Session) RemainingMinutes() int {
	total := s.Total()
	if total == 0 || s.WPM <= 0 {
		return 0
	}
	ms := 0.0
	for i := s.Ordinal; i < total; i += s.ChunkWidth {
		ms += s.delayMsAt(i)
	}
	minutes := int(ms / 60000.0)
	if ms > float64(minutes)*60000.0 {
		minutes++
	}
	return minutes
}
