package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	tickInterval   = 500 * time.Millisecond
	statusDuration = 3 * time.Second
	loadTimeout    = 15 * time.Second
)

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// StatusTimeoutCmd returns a command that expires the status line.
func StatusTimeoutCmd(version int) tea.Cmd {
	return tea.Tick(statusDuration, func(_ time.Time) tea.Msg {
		return StatusExpiredMsg{Version: version}
	})
}

// WatchServiceEvents returns a command that waits for the next engine
// event and converts it to a tea.Msg.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg(e)
		case e := <-sub.QueueChanged:
			return ServiceQueueChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ServiceModeChangedMsg(e)
		case e := <-sub.PositionChanged:
			return ServicePositionMsg(e)
		case e := <-sub.Notice:
			return ServiceNoticeMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// LoadSongsCmd fetches the catalog listing.
func LoadSongsCmd(c Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		songs, err := c.Songs(ctx)
		return SongsLoadedMsg{Songs: songs, Err: err}
	}
}

// LoadPlaylistCmd fetches a playlist to play.
func LoadPlaylistCmd(c Catalog, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		p, err := c.Playlist(ctx, id)
		return PlaylistLoadedMsg{Playlist: p, Err: err}
	}
}
