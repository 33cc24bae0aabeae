package gate

import "time"

// Session holds the preview/upsell flags of the song currently loaded.
// It is not safe for concurrent use; the owner serializes access.
type Session struct {
	previewing bool
	upsell     bool
}

// Start begins a new play session with the given access.
func (s *Session) Start(access Access) {
	s.previewing = access == Preview
	s.upsell = false
}

// Previewing returns true while a premium song plays as a preview.
func (s *Session) Previewing() bool {
	return s.previewing
}

// PlayingUpsell returns true while the upsell clip replaces the preview.
func (s *Session) PlayingUpsell() bool {
	return s.upsell
}

// Check evaluates the preview limit at pos. When the preview has just run
// out it switches the session to upsell playback and returns true.
func (s *Session) Check(pos, duration time.Duration) bool {
	if !s.previewing || !Expired(pos, duration) {
		return false
	}
	s.previewing = false
	s.upsell = true
	return true
}

// FinishUpsell clears the upsell flag. Returns false if no upsell was
// playing.
func (s *Session) FinishUpsell() bool {
	if !s.upsell {
		return false
	}
	s.upsell = false
	return true
}

// Clamp limits a seek target while previewing.
func (s *Session) Clamp(pos, duration time.Duration) time.Duration {
	if !s.previewing {
		return pos
	}
	return ClampSeek(pos, duration)
}

// Reset clears both flags.
func (s *Session) Reset() {
	s.previewing = false
	s.upsell = false
}
