package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/api"
	"github.com/llehouerou/wavecast/internal/gate"
	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/playlist"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

// Catalog is the backend the client browses.
type Catalog interface {
	Songs(ctx context.Context) ([]api.Song, error)
	Playlist(ctx context.Context, id string) (playlist.Playlist, error)
}

// FocusTarget identifies the focused panel.
type FocusTarget int

const (
	FocusCatalog FocusTarget = iota
	FocusQueue
)

// Options configures the client model.
type Options struct {
	Service playback.Service
	Catalog Catalog
	// Account is shown in the header. Nil shows nothing.
	Account gate.Auth
	// PlaylistID, when set, is played once loaded.
	PlaylistID string
	Logger     zerolog.Logger
}

// Model is the Bubble Tea model of the client.
type Model struct {
	service    playback.Service
	catalog    Catalog
	account    gate.Auth
	sub        *playback.Subscription
	keys       *keymap.Resolver
	log        zerolog.Logger
	playlistID string

	songs       []api.Song
	songsLoaded bool
	cursor      int
	queueCursor int
	focus       FocusTarget

	snapshot    playback.Snapshot
	displayMode playerbar.DisplayMode

	status        string
	statusIsError bool
	statusVersion int
	showHelp      bool

	width, height int
}

// New creates the model and subscribes to the engine.
func New(opts Options) Model {
	return Model{
		service:    opts.Service,
		catalog:    opts.Catalog,
		account:    opts.Account,
		sub:        opts.Service.Subscribe(),
		keys:       keymap.NewResolver(keymap.All),
		log:        opts.Logger,
		playlistID: opts.PlaylistID,
		snapshot:   opts.Service.Snapshot(),
	}
}

// Init starts the catalog load, the tick and the event watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadSongsCmd(m.catalog),
		TickCmd(),
		m.WatchServiceEvents(),
	}
	if m.playlistID != "" {
		cmds = append(cmds, LoadPlaylistCmd(m.catalog, m.playlistID))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case TickMsg:
		m.refresh()
		return m, TickCmd()

	case SongsLoadedMsg:
		return m.handleSongsLoaded(msg)

	case PlaylistLoadedMsg:
		return m.handlePlaylistLoaded(msg)

	case ServiceStateChangedMsg, ServiceTrackChangedMsg, ServiceQueueChangedMsg,
		ServiceModeChangedMsg, ServicePositionMsg:
		m.refresh()
		return m, m.WatchServiceEvents()

	case ServiceNoticeMsg:
		m.refresh()
		cmd := m.setStatus(msg.Kind.Message(), false)
		return m, tea.Batch(cmd, m.WatchServiceEvents())

	case ServiceClosedMsg:
		m.sub = nil
		return m, nil

	case StatusExpiredMsg:
		if msg.Version == m.statusVersion {
			m.status = ""
			m.statusIsError = false
		}
		return m, nil
	}
	return m, nil
}

// refresh copies the engine state and keeps the queue cursor in range.
func (m *Model) refresh() {
	m.snapshot = m.service.Snapshot()
	m.queueCursor = clampIndex(m.queueCursor, len(m.snapshot.Queue))
}

// setStatus shows text on the status line until it expires.
func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.status = text
	m.statusIsError = isError
	m.statusVersion++
	return StatusTimeoutCmd(m.statusVersion)
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
