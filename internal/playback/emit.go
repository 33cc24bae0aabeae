package playback

import "github.com/llehouerou/wavecast/internal/playlist"

// Emitters run under the engine lock.

func (e *Engine) emitStateFrom(prev State) {
	cur := e.stateLocked()
	if cur == prev {
		return
	}
	for _, sub := range e.subs {
		sub.sendState(StateChange{Previous: prev, Current: cur})
	}
}

func (e *Engine) emitTrack(prev *playlist.Song) {
	ev := TrackChange{Previous: prev, Index: e.queue.CurrentIndex()}
	if e.current != nil {
		song := *e.current
		ev.Current = &song
	}
	for _, sub := range e.subs {
		sub.sendTrack(ev)
	}
}

func (e *Engine) emitQueue() {
	ev := QueueChange{Songs: e.queue.Songs(), Index: e.queue.CurrentIndex()}
	for _, sub := range e.subs {
		sub.sendQueue(ev)
	}
}

func (e *Engine) emitMode() {
	ev := ModeChange{Repeat: e.repeat, Shuffle: e.shuffle, Volume: e.volume}
	for _, sub := range e.subs {
		sub.sendMode(ev)
	}
}

func (e *Engine) emitPosition() {
	for _, sub := range e.subs {
		sub.sendPosition(e.position)
	}
}

func (e *Engine) notify(kind NoticeKind, songID string) {
	e.log.Debug().Stringer("notice", kind).Str("song", songID).Msg("notice")
	for _, sub := range e.subs {
		sub.sendNotice(Notice{Kind: kind, SongID: songID})
	}
}
