package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/playlist"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

// catalogContext tags plays started from the catalog list.
var catalogContext = map[string]string{"source": "catalog"}

func (m Model) handleSongsLoaded(msg SongsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Error().Err(msg.Err).Msg("load catalog")
		return m, m.setStatus(errmsg.Format(errmsg.OpCatalogLoad, msg.Err), true)
	}
	m.songs = msg.Songs
	m.songsLoaded = true
	m.cursor = clampIndex(m.cursor, len(m.songs))
	return m, nil
}

func (m Model) handlePlaylistLoaded(msg PlaylistLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Error().Err(msg.Err).Str("playlist", m.playlistID).Msg("load playlist")
		return m, m.setStatus(errmsg.FormatWith(errmsg.OpPlaylistLoad, m.playlistID, msg.Err), true)
	}
	err := m.service.PlayPlaylist(msg.Playlist)
	m.refresh()
	return m, m.playbackError(errmsg.OpPlaybackStart, err)
}

// playbackError turns an engine error into a status message. Gate
// refusals already arrive as notices.
func (m *Model) playbackError(op errmsg.Op, err error) tea.Cmd {
	if err == nil || errors.Is(err, playback.ErrNoTrack) {
		return nil
	}
	if errors.Is(err, playback.ErrAuthRequired) || errors.Is(err, playback.ErrAuthPending) {
		m.log.Debug().Err(err).Msg(string(op))
		return nil
	}
	m.log.Error().Err(err).Msg(string(op))
	return m.setStatus(errmsg.Format(op, err), true)
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(key)
	if m.showHelp && action != keymap.ActionQuit {
		m.showHelp = false
		return m, nil
	}

	switch action { //nolint:exhaustive // list actions are handled per panel
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = true
		return m, nil
	case keymap.ActionSwitchFocus:
		if m.focus == FocusCatalog {
			m.focus = FocusQueue
		} else {
			m.focus = FocusCatalog
		}
		return m, nil
	case keymap.ActionRefresh:
		return m, LoadSongsCmd(m.catalog)
	}

	if cmd, ok := m.handlePlaybackAction(action); ok {
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == FocusQueue {
		cmd = m.handleQueueAction(action)
	} else {
		cmd = m.handleCatalogAction(action)
	}
	m.refresh()
	return m, cmd
}

// handlePlaybackAction handles transport and mode keys.
func (m *Model) handlePlaybackAction(action keymap.Action) (tea.Cmd, bool) {
	switch action { //nolint:exhaustive // only handling playback actions
	case keymap.ActionPlayPause:
		return m.playbackError(errmsg.OpPlaybackStart, m.service.TogglePlay()), true
	case keymap.ActionStop:
		m.service.StopAndClearPlayer()
		return nil, true
	case keymap.ActionNextTrack:
		return m.playbackError(errmsg.OpPlaybackNext, m.service.PlayNext()), true
	case keymap.ActionPrevTrack:
		return m.playbackError(errmsg.OpPlaybackNext, m.service.PlayPrevious()), true
	case keymap.ActionSeekForward:
		return m.seek(seekStep), true
	case keymap.ActionSeekBack:
		return m.seek(-seekStep), true
	case keymap.ActionVolumeUp:
		m.service.ChangeVolume(m.snapshot.Volume + volumeStep)
		return nil, true
	case keymap.ActionVolumeDown:
		m.service.ChangeVolume(m.snapshot.Volume - volumeStep)
		return nil, true
	case keymap.ActionToggleRepeat:
		m.service.ToggleRepeat()
		return nil, true
	case keymap.ActionToggleShuffle:
		m.service.ToggleShuffle()
		return nil, true
	case keymap.ActionTogglePlayerDisplay:
		if m.displayMode == playerbar.ModeCompact {
			m.displayMode = playerbar.ModeExpanded
		} else {
			m.displayMode = playerbar.ModeCompact
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) seek(delta time.Duration) tea.Cmd {
	snap := m.service.Snapshot()
	return m.playbackError(errmsg.OpPlaybackSeek, m.service.SeekTo(snap.CurrentTime+delta))
}

func (m *Model) handleCatalogAction(action keymap.Action) tea.Cmd {
	switch action { //nolint:exhaustive // only handling catalog actions
	case keymap.ActionMoveUp:
		m.cursor = clampIndex(m.cursor-1, len(m.songs))
	case keymap.ActionMoveDown:
		m.cursor = clampIndex(m.cursor+1, len(m.songs))
	case keymap.ActionJumpStart:
		m.cursor = 0
	case keymap.ActionJumpEnd:
		m.cursor = clampIndex(len(m.songs)-1, len(m.songs))
	case keymap.ActionSelect:
		if len(m.songs) == 0 {
			return nil
		}
		queue := make([]playlist.Song, len(m.songs))
		for i, s := range m.songs {
			queue[i] = s.ToSong()
		}
		return m.playbackError(errmsg.OpPlaybackStart,
			m.service.PlaySong(queue[m.cursor], queue, catalogContext))
	case keymap.ActionAdd:
		if len(m.songs) == 0 {
			return nil
		}
		_, err := m.service.AddToQueue(m.songs[m.cursor].ToSong())
		return m.playbackError(errmsg.OpQueueAdd, err)
	}
	return nil
}

func (m *Model) handleQueueAction(action keymap.Action) tea.Cmd {
	queue := m.snapshot.Queue
	switch action { //nolint:exhaustive // only handling queue actions
	case keymap.ActionMoveUp:
		m.queueCursor = clampIndex(m.queueCursor-1, len(queue))
	case keymap.ActionMoveDown:
		m.queueCursor = clampIndex(m.queueCursor+1, len(queue))
	case keymap.ActionJumpStart:
		m.queueCursor = 0
	case keymap.ActionJumpEnd:
		m.queueCursor = clampIndex(len(queue)-1, len(queue))
	case keymap.ActionSelect:
		if len(queue) == 0 {
			return nil
		}
		return m.playbackError(errmsg.OpPlaybackStart,
			m.service.PlaySong(queue[m.queueCursor], nil, m.snapshot.PlayContext))
	case keymap.ActionDelete:
		if len(queue) == 0 {
			return nil
		}
		m.service.RemoveFromQueue(queue[m.queueCursor].ID)
	case keymap.ActionClear:
		m.service.ClearQueue()
	}
	return nil
}
