package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// Service defines the playback contract consumed by UI layers.
type Service interface {
	// Playback control
	PlaySong(song playlist.Song, queue []playlist.Song, playContext map[string]string) error
	PlayPlaylist(p playlist.Playlist) error
	TogglePlay() error
	PlayNext() error
	PlayPrevious() error
	SeekTo(position time.Duration) error
	ChangeVolume(level float64)
	StopAndClearPlayer()

	// Modes
	ToggleRepeat() bool
	ToggleShuffle() bool

	// Queue manipulation
	AddToQueue(song playlist.Song) (bool, error)
	RemoveFromQueue(id string)
	ClearQueue()

	// State queries
	Snapshot() Snapshot
	State() State

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
