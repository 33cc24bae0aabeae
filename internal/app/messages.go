// Package app is the Bubble Tea terminal client.
package app

import (
	"time"

	"github.com/llehouerou/wavecast/internal/api"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// TickMsg is sent periodically to refresh the position display.
type TickMsg time.Time

// SongsLoadedMsg carries the catalog listing.
type SongsLoadedMsg struct {
	Songs []api.Song
	Err   error
}

// PlaylistLoadedMsg carries a playlist requested at startup.
type PlaylistLoadedMsg struct {
	Playlist playlist.Playlist
	Err      error
}

// ServiceStateChangedMsg is sent when playback starts, pauses or stops.
type ServiceStateChangedMsg playback.StateChange

// ServiceTrackChangedMsg is sent when the loaded song changes.
type ServiceTrackChangedMsg playback.TrackChange

// ServiceQueueChangedMsg is sent when the queue or its current index changes.
type ServiceQueueChangedMsg playback.QueueChange

// ServiceModeChangedMsg is sent when repeat, shuffle or volume change.
type ServiceModeChangedMsg playback.ModeChange

// ServicePositionMsg is sent after a seek.
type ServicePositionMsg playback.PositionChange

// ServiceNoticeMsg carries a user-facing notice from the engine.
type ServiceNoticeMsg playback.Notice

// ServiceClosedMsg is sent when the engine closed the subscription.
type ServiceClosedMsg struct{}

// StatusExpiredMsg clears the status line unless a newer status replaced it.
type StatusExpiredMsg struct {
	Version int
}
