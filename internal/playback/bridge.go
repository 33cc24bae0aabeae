package playback

import "github.com/llehouerou/wavecast/internal/player"

// Dispatch applies a sink event to the engine state. It is the listener
// the engine registers on its sink. Events from any source other than the
// one loaded for the current song are dropped.
func (e *Engine) Dispatch(ev player.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if ev.Source != e.source {
		e.log.Debug().
			Stringer("event", ev.Kind).
			Uint64("source", ev.Source).
			Msg("stale sink event dropped")
		return
	}

	switch ev.Kind {
	case player.EventTimeUpdate:
		e.onTimeUpdate(ev)
	case player.EventLoadedMetadata:
		e.duration = ev.Duration
	case player.EventEnded:
		e.onEnded()
	case player.EventLoadStart:
		e.loading = true
	case player.EventCanPlayThrough:
		e.loading = false
	case player.EventPlay:
		e.setPlaying(true)
	case player.EventPause:
		e.setPlaying(false)
	}
}

func (e *Engine) onTimeUpdate(ev player.Event) {
	e.position = ev.Position
	if ev.Duration > 0 && e.duration <= 0 {
		e.duration = ev.Duration
	}
	if e.session.Check(e.position, e.duration) {
		e.startUpsell()
	}
}

func (e *Engine) onEnded() {
	switch {
	case e.session.FinishUpsell():
		e.log.Debug().Msg("upsell finished")
		e.advance()
	case e.repeat && e.current != nil:
		e.sink.Seek(0)
		e.position = 0
		e.emitPosition()
		e.awaitPlay(e.token, e.sink.Play(), nil)
	default:
		e.advance()
	}
}

// advance moves to the next song after the current one ended.
func (e *Engine) advance() {
	if err := e.playNextLocked(); err != nil {
		e.log.Debug().Err(err).Msg("advance refused")
		e.setPlaying(false)
	}
}

// startUpsell replaces the expired preview with the upsell clip.
func (e *Engine) startUpsell() {
	var songID string
	if e.current != nil {
		songID = e.current.ID
	}
	e.notify(NoticePreviewEnded, songID)

	e.token++
	e.source = 0
	token := e.token
	e.fader.Out(func() {
		if token != e.token {
			return
		}
		e.sink.SetVolume(0)
		e.source = e.sink.Load(e.upsellURL)
		e.awaitPlay(token, e.sink.Play(), func() { e.fader.In(e.volume) })
	})
}
