package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the loaded song changes.
//
// Emitted whenever a source swap is started (play, next, previous, removal
// of the current song) and when the output is released, in which case
// Current is nil. Swapping to the upsell clip does not emit.
type TrackChange struct {
	Previous *playlist.Song
	Current  *playlist.Song
	Index    int
}

// QueueChange is emitted when the queue contents or position change.
type QueueChange struct {
	Songs []playlist.Song
	Index int
}

// ModeChange is emitted when repeat, shuffle or volume changes.
type ModeChange struct {
	Repeat  bool
	Shuffle bool
	Volume  float64
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// Notice asks the UI layer to tell the user something.
type Notice struct {
	Kind   NoticeKind
	SongID string
}
