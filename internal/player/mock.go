// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Sink.
//
// Play promises resolve immediately with the configured error unless
// HoldPlay is enabled, in which case they stay pending until ResolvePlay.
// Events are only delivered when the test calls Emit.
type Mock struct {
	mu         sync.Mutex
	state      State
	src        string
	source     uint64
	position   time.Duration
	level      float64
	playErr    error
	holdPlay   bool
	pending    []chan error
	loads      []string
	volumes    []float64
	seekCalls  []time.Duration
	playCalls  int
	pauseCalls int
	listener   func(Event)
	closed     bool
}

// NewMock creates a new mock sink at full volume.
func NewMock() *Mock {
	return &Mock{state: Stopped, level: 1}
}

func (m *Mock) Load(url string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source++
	m.loads = append(m.loads, url)
	m.src = url
	m.position = 0
	m.state = Stopped
	return m.source
}

func (m *Mock) Play() <-chan error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++

	ch := make(chan error, 1)
	if m.holdPlay {
		m.pending = append(m.pending, ch)
		return ch
	}
	if m.playErr == nil && m.src != "" {
		m.state = Playing
	}
	ch <- m.playErr
	return ch
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Seek(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, position)
	m.position = position
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = clampLevel(level)
	m.volumes = append(m.volumes, m.level)
}

func (m *Mock) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = fn
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// Emit delivers ev to the registered listener on the calling goroutine.
// An ev without a Source is stamped with the currently loaded one.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	fn := m.listener
	if ev.Source == 0 {
		ev.Source = m.source
	}
	if ev.Kind == EventTimeUpdate && ev.Source == m.source {
		m.position = ev.Position
	}
	m.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
}

// SetPlayError makes subsequent Play promises reject with err.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// HoldPlay keeps subsequent Play promises pending until ResolvePlay.
func (m *Mock) HoldPlay(hold bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdPlay = hold
}

// ResolvePlay settles the oldest pending Play promise with err.
// Returns false if no promise was pending.
func (m *Mock) ResolvePlay(err error) bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	ch := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()

	ch <- err
	return true
}

// SourceID returns the id of the currently loaded source.
func (m *Mock) SourceID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Source returns the currently loaded URL.
func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

func (m *Mock) Volumes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.volumes...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Sink at compile time.
var _ Sink = (*Mock)(nil)
