package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/api"
	"github.com/llehouerou/wavecast/internal/fade"
	"github.com/llehouerou/wavecast/internal/gate"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
)

type fakeCatalog struct {
	songs    []api.Song
	playlist playlist.Playlist
	err      error
}

func (c *fakeCatalog) Songs(context.Context) ([]api.Song, error) {
	return c.songs, c.err
}

func (c *fakeCatalog) Playlist(context.Context, string) (playlist.Playlist, error) {
	return c.playlist, c.err
}

type harness struct {
	m      Model
	engine *playback.Engine
	sched  *fade.ManualScheduler
}

func catalogSongs() []api.Song {
	return []api.Song{
		{ID: "a", Title: "Song A", Singers: []string{"Alice"}, FilePath: "a.mp3", Duration: 180, ListenCount: 1234},
		{ID: "b", Title: "Song B", FilePath: "b.mp3", Duration: 120},
		{ID: "c", Title: "Song C", FilePath: "premium/c.mp3", IsPremium: true, Duration: 200},
	}
}

func newHarness(t *testing.T, auth gate.Auth) *harness {
	t.Helper()
	sched := fade.NewManualScheduler()
	e := playback.New(player.NewMock(), auth, nil, playback.Options{Scheduler: sched})
	t.Cleanup(func() { e.Close() })

	h := &harness{
		m:      New(Options{Service: e, Catalog: &fakeCatalog{songs: catalogSongs()}, Account: auth, Logger: zerolog.Nop()}),
		engine: e,
		sched:  sched,
	}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.send(SongsLoadedMsg{Songs: catalogSongs()})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.m.Update(msg)
	h.m = model.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	cmd := h.send(msg)
	h.sched.Flush(1000)
	h.m.refresh()
	return cmd
}

func TestSelect_PlaysCatalogAsQueue(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})

	h.key("down")
	h.key("enter")

	snap := h.engine.Snapshot()
	require.NotNil(t, snap.CurrentSong)
	assert.Equal(t, "b", snap.CurrentSong.ID)
	assert.Len(t, snap.Queue, 3)
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, map[string]string{"source": "catalog"}, snap.PlayContext)
	assert.True(t, snap.IsPlaying)
}

func TestPlaybackKeys(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})
	h.key("enter")

	h.key("space")
	assert.Equal(t, playback.StatePaused, h.engine.State())

	h.key("n")
	assert.Equal(t, "b", h.engine.Snapshot().CurrentSong.ID)

	h.key("p")
	assert.Equal(t, "a", h.engine.Snapshot().CurrentSong.ID)

	h.key("R")
	h.key("S")
	snap := h.engine.Snapshot()
	assert.True(t, snap.IsRepeat)
	assert.True(t, snap.IsShuffle)

	h.key("-")
	assert.InDelta(t, 0.95, h.engine.Snapshot().Volume, 1e-9)

	h.key("x")
	assert.Equal(t, playback.StateStopped, h.engine.State())
	assert.Empty(t, h.engine.Snapshot().Queue)
}

func TestSeekKeys(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})
	h.key("enter")

	h.send(tea.KeyMsg{Type: tea.KeyRight})
	h.send(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 10*time.Second, h.engine.Snapshot().CurrentTime)

	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 5*time.Second, h.engine.Snapshot().CurrentTime)
}

func TestSeekWithoutSong_NoStatus(t *testing.T) {
	h := newHarness(t, gate.Static{})

	h.send(tea.KeyMsg{Type: tea.KeyRight})
	assert.Empty(t, h.m.status)
}

func TestAddToQueue_Anonymous(t *testing.T) {
	h := newHarness(t, gate.Static{})

	h.key("a")
	assert.Empty(t, h.engine.Snapshot().Queue)

	// The engine reports the refusal as a notice.
	select {
	case n := <-h.m.sub.Notice:
		h.send(ServiceNoticeMsg(n))
	default:
		t.Fatal("expected a notice")
	}
	assert.Equal(t, playback.NoticeAuthRequired.Message(), h.m.status)
	assert.False(t, h.m.statusIsError)
}

func TestQueuePanel(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})
	h.key("enter")

	h.key("tab")
	assert.Equal(t, FocusQueue, h.m.focus)

	h.key("down")
	h.key("d")
	assert.Equal(t, []string{"a", "c"}, ids(h.engine.Snapshot().Queue))

	h.key("down")
	h.key("enter")
	// c is premium and the user is free: it plays as a preview.
	snap := h.engine.Snapshot()
	assert.Equal(t, "c", snap.CurrentSong.ID)
	assert.True(t, snap.IsPreviewing)

	h.key("c")
	assert.Empty(t, h.engine.Snapshot().Queue)
	assert.Equal(t, "c", h.engine.Snapshot().CurrentSong.ID, "clearing keeps the loaded song")
}

func ids(songs []playlist.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.ID
	}
	return out
}

func TestCatalogCursorBounds(t *testing.T) {
	h := newHarness(t, gate.Static{})

	h.key("k")
	assert.Equal(t, 0, h.m.cursor)
	h.key("G")
	assert.Equal(t, 2, h.m.cursor)
	h.key("j")
	assert.Equal(t, 2, h.m.cursor)
	h.key("g")
	assert.Equal(t, 0, h.m.cursor)
}

func TestSongsLoadError(t *testing.T) {
	h := newHarness(t, gate.Static{})

	cmd := h.send(SongsLoadedMsg{Err: errors.New("connection refused")})
	require.NotNil(t, cmd)
	assert.True(t, h.m.statusIsError)
	assert.Equal(t, "Failed to load catalog: connection refused", h.m.status)
}

func TestPlaylistLoaded_Plays(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})

	p := playlist.Playlist{ID: "p1", Songs: []playlist.Song{{ID: "x", FilePath: "x.mp3"}}}
	h.send(PlaylistLoadedMsg{Playlist: p})

	snap := h.engine.Snapshot()
	require.NotNil(t, snap.CurrentSong)
	assert.Equal(t, "x", snap.CurrentSong.ID)
	assert.Equal(t, map[string]string{"playlistId": "p1"}, snap.PlayContext)
}

func TestStatusExpiry(t *testing.T) {
	h := newHarness(t, gate.Static{})

	h.m.setStatus("first", false)
	h.m.setStatus("second", false)

	h.send(StatusExpiredMsg{Version: 1})
	assert.Equal(t, "second", h.m.status, "stale expiry is ignored")

	h.send(StatusExpiredMsg{Version: 2})
	assert.Empty(t, h.m.status)
}

func TestHelpAndQuit(t *testing.T) {
	h := newHarness(t, gate.Static{})

	h.key("?")
	assert.True(t, h.m.showHelp)
	assert.Contains(t, h.m.View(), "Play/pause")

	h.key("j")
	assert.False(t, h.m.showHelp, "any key closes help")

	cmd := h.key("q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWatchServiceEvents(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true})
	require.NoError(t, h.engine.PlaySong(catalogSongs()[0].ToSong(), nil, nil))

	msg := h.m.WatchServiceEvents()()
	switch msg.(type) {
	case ServiceStateChangedMsg, ServiceTrackChangedMsg, ServiceQueueChangedMsg,
		ServiceModeChangedMsg, ServicePositionMsg:
	default:
		t.Fatalf("unexpected message %T", msg)
	}

	require.NoError(t, h.engine.Close())
	for range 20 {
		if _, ok := h.m.WatchServiceEvents()().(ServiceClosedMsg); ok {
			h.send(ServiceClosedMsg{})
			assert.Nil(t, h.m.WatchServiceEvents())
			return
		}
	}
	t.Fatal("subscription never reported closed")
}

func TestView(t *testing.T) {
	h := newHarness(t, gate.Static{Authenticated: true, Premium: true})
	h.key("enter")

	out := h.m.View()
	for _, want := range []string{"wavecast", "premium", "Song A", "1,234", "★", "▶"} {
		assert.True(t, strings.Contains(out, want), "view missing %q", want)
	}
}

func TestView_BeforeResize(t *testing.T) {
	sched := fade.NewManualScheduler()
	e := playback.New(player.NewMock(), nil, nil, playback.Options{Scheduler: sched})
	defer e.Close()

	m := New(Options{Service: e, Catalog: &fakeCatalog{}, Logger: zerolog.Nop()})
	assert.Empty(t, m.View())
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cursor, n, rows int
		start, end      int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{10, 20, 10, 5, 15},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.n, tt.rows)
		assert.Equal(t, [2]int{tt.start, tt.end}, [2]int{start, end}, "window(%d, %d, %d)", tt.cursor, tt.n, tt.rows)
	}
}

func TestAccountLabel(t *testing.T) {
	tests := []struct {
		auth gate.Auth
		want string
	}{
		{nil, ""},
		{gate.Static{Resolving: true}, "checking account…"},
		{gate.Static{}, "guest"},
		{gate.Static{Authenticated: true}, "free account"},
		{gate.Static{Authenticated: true, Premium: true}, "premium"},
	}
	for _, tt := range tests {
		m := Model{account: tt.auth}
		assert.Equal(t, tt.want, m.accountLabel())
	}
}
