package fade

import (
	"sync"
	"time"
)

// Scheduler runs fn repeatedly every d until the returned stop function
// is called. Stop must be safe to call from inside fn and more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// Ticker is the wall-clock Scheduler backed by time.Ticker.
type Ticker struct{}

// Every starts a goroutine calling fn on each tick.
func (Ticker) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler is a test double whose tasks only run when Tick is called.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks map[int]func()
	order []int
	next  int
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]func())}
}

func (m *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	m.tasks[id] = fn
	m.order = append(m.order, id)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.tasks, id)
	}
}

// Active returns the number of scheduled tasks.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Tick runs every task scheduled before the call once.
// Tasks are invoked without holding the scheduler lock, so they may
// schedule or stop tasks themselves.
func (m *ManualScheduler) Tick() {
	m.mu.Lock()
	var due []func()
	kept := m.order[:0]
	for _, id := range m.order {
		if fn, ok := m.tasks[id]; ok {
			due = append(due, fn)
			kept = append(kept, id)
		}
	}
	m.order = kept
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Flush ticks until no task is left, up to limit rounds.
// Returns the number of rounds performed.
func (m *ManualScheduler) Flush(limit int) int {
	rounds := 0
	for rounds < limit && m.Active() > 0 {
		m.Tick()
		rounds++
	}
	return rounds
}
