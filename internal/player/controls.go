package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Play resumes playback once the pending source is decoded.
func (s *StreamSink) Play() <-chan error {
	result := make(chan error, 1)

	s.mu.Lock()
	ready, gen := s.ready, s.gen
	s.mu.Unlock()

	if ready == nil {
		result <- ErrNoSource
		return result
	}

	go func() {
		select {
		case <-ready:
			result <- s.resume(gen)
		case <-s.done:
			result <- ErrSuperseded
		}
	}()
	return result
}

func (s *StreamSink) resume(gen uint64) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if s.loadErr != nil {
		err := s.loadErr
		s.mu.Unlock()
		return err
	}
	if s.ctrl == nil {
		s.mu.Unlock()
		return ErrNoSource
	}
	if s.state == Playing {
		s.mu.Unlock()
		return nil
	}

	if s.ended {
		// The drained sequence left the mixer; queue it again.
		s.ended = false
		s.playSeqLocked()
	}
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	s.state = Playing
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventPlay})
	return nil
}

// Pause pauses playback.
func (s *StreamSink) Pause() {
	s.mu.Lock()
	if !s.state.CanPause() || s.ctrl == nil {
		s.mu.Unlock()
		return
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	s.state = Paused
	gen := s.gen
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventPause})
}

// Seek moves the playback position, clamped to the source bounds.
func (s *StreamSink) Seek(position time.Duration) {
	s.mu.Lock()
	if s.streamer == nil {
		s.mu.Unlock()
		return
	}

	n := s.format.SampleRate.N(position)
	n = max(min(n, s.streamer.Len()-1), 0)

	speaker.Lock()
	_ = s.streamer.Seek(n)
	speaker.Unlock()
	pos := s.format.SampleRate.D(n)
	gen := s.gen
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventTimeUpdate, Position: pos})
}

// Position returns the current playback position.
func (s *StreamSink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *StreamSink) positionLocked() time.Duration {
	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(pos)
}
