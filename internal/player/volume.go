package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the output level (0.0 to 1.0).
// The level is remembered across sources.
func (s *StreamSink) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = clampLevel(level)
	if s.volume != nil {
		speaker.Lock()
		s.applyVolumeLocked()
		speaker.Unlock()
	}
}

// Volume returns the current output level (0.0 to 1.0).
func (s *StreamSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// applyVolumeLocked pushes the level into the volume effect.
// When the effect is already playing, the caller holds the speaker lock.
func (s *StreamSink) applyVolumeLocked() {
	s.volume.Silent = s.level <= 0
	s.volume.Volume = levelToVolume(s.level)
}

func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale where Volume is in "decibels" with base 2.
// Volume = 0 means no change, -1 = half volume, -2 = quarter, etc.
// We map: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent)
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
