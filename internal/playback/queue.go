package playback

import (
	"maps"

	"github.com/llehouerou/wavecast/internal/gate"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// PlaySong plays song. A non-empty queue replaces the current queue and
// the song's position in it becomes current. Without one, a song already
// queued becomes current and any other song is appended.
//
// Returns ErrAuthRequired or ErrAuthPending, with a notice and no state
// change, when the gate refuses the song.
func (e *Engine) PlaySong(song playlist.Song, queue []playlist.Song, playContext map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playSongLocked(song, queue, playContext)
}

func (e *Engine) playSongLocked(song playlist.Song, queue []playlist.Song, playContext map[string]string) error {
	access, err := e.admit(song)
	if err != nil {
		return err
	}

	switch idx := e.queue.IndexOf(song.ID); {
	case len(queue) > 0:
		e.queue.Replace(queue, song.ID)
	case idx >= 0:
		e.queue.JumpTo(idx)
	default:
		e.queue.JumpTo(e.queue.Append(song))
	}
	e.playContext = maps.Clone(playContext)

	e.start(song, access, true)
	e.countListen(song.ID, access)
	e.emitQueue()
	return nil
}

// PlayPlaylist plays p from its first song with p as the queue, then
// records a playlist listen. An empty playlist is a no-op.
func (e *Engine) PlayPlaylist(p playlist.Playlist) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	first := p.First()
	if first == nil {
		return nil
	}
	if err := e.playSongLocked(*first, p.Songs, map[string]string{"playlistId": p.ID}); err != nil {
		return err
	}
	e.countPlaylistListen(p.ID)
	return nil
}

// PlayNext advances to the next song: a random other song under shuffle,
// otherwise the following one with wraparound. No-op on an empty queue or
// while the upsell clip plays.
func (e *Engine) PlayNext() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playNextLocked()
}

func (e *Engine) playNextLocked() error {
	if e.session.PlayingUpsell() || e.queue.IsEmpty() {
		return nil
	}
	return e.playAt(e.queue.NextIndex(e.shuffle, e.rng))
}

// PlayPrevious mirrors PlayNext backwards.
func (e *Engine) PlayPrevious() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.PlayingUpsell() || e.queue.IsEmpty() {
		return nil
	}
	return e.playAt(e.queue.PreviousIndex(e.shuffle, e.rng))
}

func (e *Engine) playAt(idx int) error {
	song := e.queue.Song(idx)
	if song == nil {
		return nil
	}
	access, err := e.admit(*song)
	if err != nil {
		return err
	}
	e.queue.JumpTo(idx)
	e.start(*song, access, true)
	e.countListen(song.ID, access)
	e.emitQueue()
	return nil
}

// AddToQueue appends song. Anonymous callers get ErrAuthRequired. A song
// already queued is left alone and reported with a notice, returning
// false without error.
func (e *Engine) AddToQueue(song playlist.Song) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.auth != nil && e.auth.Loading():
		e.notify(NoticeAuthPending, song.ID)
		return false, ErrAuthPending
	case e.auth == nil || !e.auth.IsAuthenticated():
		e.notify(NoticeAuthRequired, song.ID)
		return false, ErrAuthRequired
	}

	if !e.queue.Add(song) {
		e.notify(NoticeAlreadyQueued, song.ID)
		return false, nil
	}
	e.notify(NoticeQueued, song.ID)
	e.emitQueue()
	return true, nil
}

// RemoveFromQueue removes the first song with id. Removing the only song
// stops playback and releases the output. Removing the current song loads
// the song that took its place, keeping the play/pause state.
func (e *Engine) RemoveFromQueue(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.queue.IndexOf(id)
	if idx < 0 {
		return
	}
	if e.queue.Len() == 1 {
		e.queue.Clear()
		e.releaseOutput()
		e.emitQueue()
		return
	}

	wasCurrent := idx == e.queue.CurrentIndex()
	e.queue.RemoveAt(idx)
	if wasCurrent {
		e.replaceCurrent()
	}
	e.emitQueue()
}

// replaceCurrent loads the song now at the current index after the
// current song was removed.
func (e *Engine) replaceCurrent() {
	song := e.queue.Current()
	if song == nil {
		e.releaseOutput()
		return
	}
	access := gate.Decide(*song, e.auth)
	if !access.Playable() {
		e.log.Debug().Str("song", song.ID).Stringer("access", access).Msg("replacement not playable")
		e.releaseOutput()
		return
	}
	autoplay := e.playing
	e.start(*song, access, autoplay)
	if autoplay {
		e.countListen(song.ID, access)
	}
}

// ClearQueue empties the queue without touching the loaded song.
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue.Clear()
	e.emitQueue()
}

// StopAndClearPlayer fades out, then releases the output and empties the
// queue.
func (e *Engine) StopAndClearPlayer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fader.Out(func() {
		e.queue.Clear()
		e.releaseOutput()
		e.emitQueue()
	})
}
