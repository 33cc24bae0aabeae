package playback

import "time"

// TogglePlay fades out and pauses when playing, resumes and fades in
// otherwise. Suppressed while the upsell clip plays.
func (e *Engine) TogglePlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return ErrNoTrack
	}
	if e.session.PlayingUpsell() {
		return nil
	}
	if !e.playing {
		e.fadeIn()
		return nil
	}

	token := e.token
	e.fader.Out(func() {
		if token != e.token {
			return
		}
		e.sink.Pause()
		e.setPlaying(false)
	})
	return nil
}

// SeekTo moves playback to position, clamped to the song and, while
// previewing, to the preview window. Suppressed while the upsell clip
// plays.
func (e *Engine) SeekTo(position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return ErrNoTrack
	}
	if e.session.PlayingUpsell() {
		return nil
	}

	position = max(position, 0)
	if e.duration > 0 {
		position = min(position, e.duration)
	}
	position = e.session.Clamp(position, e.duration)

	e.sink.Seek(position)
	e.position = position
	e.emitPosition()
	return nil
}

// ChangeVolume sets the target volume and applies it at once, cutting
// any running fade short. A pending pause or source swap still happens.
func (e *Engine) ChangeVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fader.Finish()
	e.fader.Cancel()
	e.volume = clampVolume(level)
	e.sink.SetVolume(e.volume)
	e.emitMode()
}

// ToggleRepeat flips repeat of the current song. Returns the new value.
func (e *Engine) ToggleRepeat() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = !e.repeat
	e.emitMode()
	return e.repeat
}

// ToggleShuffle flips shuffle. Returns the new value.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffle = !e.shuffle
	e.emitMode()
	return e.shuffle
}
