// Package playback coordinates the shared audio sink, the play queue, volume
// fades and the premium gate behind a single Engine.
package playback

import (
	"context"
	"math"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/fade"
	"github.com/llehouerou/wavecast/internal/gate"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// DefaultUpsellPath is the upsell clip, relative to the media base URL.
const DefaultUpsellPath = "static/upsell.mp3"

// listenTimeout bounds a single listen-count request.
const listenTimeout = 10 * time.Second

// Backend records listens. Calls are fire-and-forget.
type Backend interface {
	IncrementSongListenCount(ctx context.Context, songID string) error
	IncrementPlaylistListenCount(ctx context.Context, playlistID string) error
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// MediaBase is prefixed to song file paths to build source URLs.
	MediaBase string
	// UpsellPath is the upsell clip, relative to MediaBase.
	UpsellPath string
	// Volume is the initial target volume (default 1).
	Volume *float64
	Logger *zerolog.Logger
	// Scheduler drives fades (default fade.Ticker).
	Scheduler fade.Scheduler
	// Rand drives shuffle picks (default math/rand/v2).
	Rand playlist.Rand
}

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)

// Engine owns the audio sink and every piece of playback state.
//
// All state is guarded by mu. Sink events, fade ticks and play-promise
// resolutions re-enter the engine under mu, so every transition observes
// and leaves a consistent state.
type Engine struct {
	mu sync.Mutex

	sink    player.Sink
	auth    gate.Auth
	backend Backend
	fader   *fade.Controller
	rng     playlist.Rand
	log     zerolog.Logger

	mediaBase string
	upsellURL string

	queue       *playlist.Queue
	session     gate.Session
	current     *playlist.Song
	playing     bool
	position    time.Duration
	duration    time.Duration
	volume      float64
	repeat      bool
	shuffle     bool
	loading     bool
	playContext map[string]string

	// token identifies the current source; bumped on every swap.
	token uint64
	// source is the sink id whose events are applied. It is 0 while a
	// swap waits for the fade-out, so the outgoing source cannot touch
	// the incoming song.
	source uint64

	ctx    context.Context
	cancel context.CancelFunc
	subs   []*Subscription
	closed bool
}

// New creates an engine driving sink. auth and backend may be nil: a nil
// auth is an anonymous caller, a nil backend records nothing.
func New(sink player.Sink, auth gate.Auth, backend Backend, opts Options) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		sink:      sink,
		auth:      auth,
		backend:   backend,
		rng:       opts.Rand,
		log:       zerolog.Nop(),
		mediaBase: opts.MediaBase,
		queue:     playlist.NewQueue(),
		volume:    1,
		ctx:       ctx,
		cancel:    cancel,
	}
	if opts.Logger != nil {
		e.log = opts.Logger.With().Str("component", "playback").Logger()
	}
	if opts.Volume != nil {
		e.volume = clampVolume(*opts.Volume)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = fade.Ticker{}
	}
	upsell := opts.UpsellPath
	if upsell == "" {
		upsell = DefaultUpsellPath
	}
	e.upsellURL = e.mediaURL(upsell)
	e.fader = fade.New(sink, lockedScheduler{e: e, inner: sched})

	sink.OnEvent(e.Dispatch)
	return e
}

// lockedScheduler runs fade ticks under the engine lock.
type lockedScheduler struct {
	e     *Engine
	inner fade.Scheduler
}

func (s lockedScheduler) Every(d time.Duration, fn func()) func() {
	return s.inner.Every(d, func() {
		s.e.mu.Lock()
		defer s.e.mu.Unlock()
		if s.e.closed {
			return
		}
		fn()
	})
}

// mediaURL resolves a file path against the media base.
func (e *Engine) mediaURL(filePath string) string {
	if e.mediaBase == "" {
		return filePath
	}
	u, err := url.JoinPath(e.mediaBase, filePath)
	if err != nil {
		e.log.Warn().Err(err).Str("path", filePath).Msg("invalid media path")
		return strings.TrimRight(e.mediaBase, "/") + "/" + strings.TrimLeft(filePath, "/")
	}
	return u
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	switch {
	case e.current == nil:
		return StateStopped
	case e.playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := newSubscription()
	if e.closed {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// Close detaches the engine from the sink and closes all subscriptions.
// The sink itself is left to its owner.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.fader.Cancel()
	e.token++
	e.cancel()
	e.sink.OnEvent(nil)

	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	return nil
}

// start makes song the loaded source. When something is playing, the
// swap waits for the fade-out to finish so two sources are never audible
// at once. With autoplay the new source starts and fades in once the sink
// accepts the play request.
func (e *Engine) start(song playlist.Song, access gate.Access, autoplay bool) {
	prev := e.current
	e.current = &song
	e.session.Start(access)
	e.position = 0
	e.duration = song.Duration
	e.token++
	e.source = 0
	token := e.token
	src := e.mediaURL(song.FilePath)

	swap := func() {
		if token != e.token {
			return
		}
		e.sink.SetVolume(0)
		e.source = e.sink.Load(src)
		if autoplay {
			e.awaitPlay(token, e.sink.Play(), func() { e.fader.In(e.volume) })
		}
	}
	if e.playing {
		e.fader.Out(swap)
	} else {
		e.fader.Cancel()
		swap()
	}

	e.log.Debug().
		Str("song", song.ID).
		Stringer("access", access).
		Bool("autoplay", autoplay).
		Msg("source swap")
	e.emitTrack(prev)
}

// awaitPlay settles a play promise for the source identified by token.
// Settled promises are handled inline; pending ones on a goroutine that
// re-enters under the lock.
func (e *Engine) awaitPlay(token uint64, promise <-chan error, onResolved func()) {
	select {
	case err := <-promise:
		e.resolvePlay(token, err, onResolved)
	default:
		go func() {
			err := <-promise
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.closed {
				return
			}
			e.resolvePlay(token, err, onResolved)
		}()
	}
}

func (e *Engine) resolvePlay(token uint64, err error, onResolved func()) {
	if token != e.token {
		e.log.Debug().Uint64("token", token).Msg("stale play promise ignored")
		return
	}
	if err != nil {
		// Refused playback (autoplay policy, failed fetch) is not an error.
		e.log.Debug().Err(err).Msg("play refused")
		e.setPlaying(false)
		return
	}
	e.setPlaying(true)
	if onResolved != nil {
		onResolved()
	}
}

// fadeIn resumes the current source and ramps up to the target volume.
func (e *Engine) fadeIn() {
	e.fader.Cancel()
	e.awaitPlay(e.token, e.sink.Play(), func() { e.fader.In(e.volume) })
}

// releaseOutput stops playback and clears the loaded source and song.
func (e *Engine) releaseOutput() {
	e.fader.Cancel()
	e.token++
	e.sink.Pause()
	e.source = e.sink.Load("")

	prev := e.current
	e.current = nil
	e.position = 0
	e.duration = 0
	e.loading = false
	e.playContext = nil
	e.session.Reset()
	e.setPlaying(false)
	if prev != nil {
		e.emitTrack(prev)
	}
}

func (e *Engine) setPlaying(playing bool) {
	prev := e.stateLocked()
	e.playing = playing
	e.emitStateFrom(prev)
}

// countListen records a listen for song unless it only plays as a preview.
func (e *Engine) countListen(songID string, access gate.Access) {
	if e.backend == nil || access != gate.Full {
		return
	}
	e.fire("song", songID, e.backend.IncrementSongListenCount)
}

func (e *Engine) countPlaylistListen(playlistID string) {
	if e.backend == nil {
		return
	}
	e.fire("playlist", playlistID, e.backend.IncrementPlaylistListenCount)
}

func (e *Engine) fire(kind, id string, call func(context.Context, string) error) {
	parent := e.ctx
	log := e.log
	go func() {
		ctx, cancel := context.WithTimeout(parent, listenTimeout)
		defer cancel()
		if err := call(ctx, id); err != nil {
			log.Debug().Err(err).Str(kind, id).Msg("listen count not recorded")
		}
	}()
}

// admit runs the gate for song and raises the matching notice when
// playback is refused.
func (e *Engine) admit(song playlist.Song) (gate.Access, error) {
	access := gate.Decide(song, e.auth)
	switch access {
	case gate.Pending:
		e.notify(NoticeAuthPending, song.ID)
		return access, ErrAuthPending
	case gate.Blocked:
		e.notify(NoticeAuthRequired, song.ID)
		return access, ErrAuthRequired
	default:
		return access, nil
	}
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return min(v, 1)
}
