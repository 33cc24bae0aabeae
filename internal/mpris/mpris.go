//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavecast/internal/playback"
)

// listenGrace is how long New waits for the bus to refuse the service.
const listenGrace = 250 * time.Millisecond

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New starts serving service on the session bus. Failing to reach the
// bus or to own the name is returned; later failures go to log.
func New(service playback.Service, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("wavecast", &rootAdapter{}, &playerAdapter{service: service}),
	}
	log = log.With().Str("component", "mpris").Logger()

	failed := make(chan error, 1)
	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return nil, fmt.Errorf("listen on session bus: %w", err)
	case <-time.After(listenGrace):
		return a, nil
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Wavecast", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error {
	return p.service.PlayNext()
}

func (p *playerAdapter) Previous() error {
	return p.service.PlayPrevious()
}

func (p *playerAdapter) Pause() error {
	if p.service.State() != playback.StatePlaying {
		return nil
	}
	return p.service.TogglePlay()
}

func (p *playerAdapter) PlayPause() error {
	return p.service.TogglePlay()
}

func (p *playerAdapter) Stop() error {
	p.service.StopAndClearPlayer()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.service.State() == playback.StatePlaying {
		return nil
	}
	return p.service.TogglePlay()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.service.Snapshot().CurrentTime + time.Duration(offset)*time.Microsecond
	return p.service.SeekTo(pos)
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	snap := p.service.Snapshot()
	if snap.CurrentSong == nil || trackID != formatTrackID(snap.CurrentSong.ID) {
		return nil // stale request
	}
	return p.service.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.service.Snapshot()
	song := snap.CurrentSong
	if song == nil {
		return types.Metadata{}, nil
	}
	length := snap.Duration
	if length <= 0 {
		length = song.Duration
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(song.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   song.Title,
		Artist:  song.Singers,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.service.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.service.ChangeVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().CurrentTime.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// canNavigate reports whether next/previous would do anything. The
// upsell clip cannot be skipped.
func (p *playerAdapter) canNavigate() bool {
	snap := p.service.Snapshot()
	return len(snap.Queue) > 0 && !snap.IsPlayingUpsell
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.canNavigate(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.canNavigate(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.Snapshot().CurrentSong != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return !p.service.Snapshot().IsPlayingUpsell, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return !p.service.Snapshot().IsPlayingUpsell, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// The queue always wraps, so only track repeat is a real mode.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.service.Snapshot().IsRepeat {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	want := status == types.LoopStatusTrack
	if p.service.Snapshot().IsRepeat != want {
		p.service.ToggleRepeat()
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.Snapshot().IsShuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	if p.service.Snapshot().IsShuffle != shuffle {
		p.service.ToggleShuffle()
	}
	return nil
}

func formatTrackID(songID string) string {
	h := fnv.New64a()
	h.Write([]byte(songID))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
