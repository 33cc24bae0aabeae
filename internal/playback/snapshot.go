package playback

import (
	"maps"
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// Snapshot is a consistent copy of the engine state.
type Snapshot struct {
	CurrentSong     *playlist.Song
	IsPlaying       bool
	CurrentTime     time.Duration
	Duration        time.Duration
	Volume          float64
	IsRepeat        bool
	IsShuffle       bool
	Loading         bool
	PlayContext     map[string]string
	Queue           []playlist.Song
	CurrentIndex    int
	IsPreviewing    bool
	IsPlayingUpsell bool
}

// State derives the playback state from the snapshot.
func (s Snapshot) State() State {
	switch {
	case s.CurrentSong == nil:
		return StateStopped
	case s.IsPlaying:
		return StatePlaying
	default:
		return StatePaused
	}
}

// Progress returns the played fraction of the current song in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.CurrentTime)/float64(s.Duration), 0), 1)
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		IsPlaying:       e.playing,
		CurrentTime:     e.position,
		Duration:        e.duration,
		Volume:          e.volume,
		IsRepeat:        e.repeat,
		IsShuffle:       e.shuffle,
		Loading:         e.loading,
		PlayContext:     maps.Clone(e.playContext),
		Queue:           e.queue.Songs(),
		CurrentIndex:    e.queue.CurrentIndex(),
		IsPreviewing:    e.session.Previewing(),
		IsPlayingUpsell: e.session.PlayingUpsell(),
	}
	if e.current != nil {
		song := *e.current
		snap.CurrentSong = &song
	}
	return snap
}
