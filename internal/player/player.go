package player

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"

	// timeUpdatePeriod matches the cadence browsers use for timeupdate.
	timeUpdatePeriod = 250 * time.Millisecond
)

var (
	// ErrNoSource is returned by Play when nothing is loaded.
	ErrNoSource = errors.New("no source loaded")
	// ErrSuperseded is returned by Play when another source was loaded
	// before the requested one became playable.
	ErrSuperseded = errors.New("source replaced before playback started")
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// StreamSink plays audio fetched over HTTP through the system speaker.
type StreamSink struct {
	client *http.Client

	mu       sync.Mutex
	state    State
	gen      uint64
	cancel   context.CancelFunc
	ready    chan struct{} // closed once the current source is decoded or failed
	loadErr  error
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	ended    bool

	listenerMu sync.RWMutex
	listener   func(Event)

	queueMu sync.Mutex
	queue   []Event
	wake    chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// NewStreamSink creates a sink fetching sources with client.
// A nil client gets a default one with a generous timeout.
func NewStreamSink(client *http.Client) *StreamSink {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	s := &StreamSink{
		client: client,
		state:  Stopped,
		level:  1,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.dispatch()
	go s.tick()
	return s
}

// OnEvent registers the event listener.
func (s *StreamSink) OnEvent(fn func(Event)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listener = fn
}

// State returns the transport state.
func (s *StreamSink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close releases the current source and stops event delivery.
func (s *StreamSink) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.releaseLocked()
		s.gen++
		s.ready = nil
		s.mu.Unlock()
		close(s.done)
	})
	return nil
}

// emit queues ev, stamped with source gen, for the dispatcher. Never blocks.
func (s *StreamSink) emit(gen uint64, ev Event) {
	ev.Source = gen
	s.queueMu.Lock()
	s.queue = append(s.queue, ev)
	s.queueMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// dispatch delivers queued events to the listener in order.
func (s *StreamSink) dispatch() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.queueMu.Lock()
			pending := s.queue
			s.queue = nil
			s.queueMu.Unlock()
			if len(pending) == 0 {
				break
			}

			s.listenerMu.RLock()
			fn := s.listener
			s.listenerMu.RUnlock()
			if fn == nil {
				continue
			}
			for _, ev := range pending {
				fn(ev)
			}
		}
	}
}

// tick reports playback progress while playing.
func (s *StreamSink) tick() {
	t := time.NewTicker(timeUpdatePeriod)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.mu.Lock()
			playing := s.state == Playing && s.streamer != nil
			gen := s.gen
			var pos time.Duration
			if playing {
				pos = s.positionLocked()
			}
			s.mu.Unlock()

			if playing {
				s.emit(gen, Event{Kind: EventTimeUpdate, Position: pos})
			}
		}
	}
}

// releaseLocked stops and frees the current source.
func (s *StreamSink) releaseLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.streamer != nil {
		speaker.Clear()
		s.streamer.Close()
		s.streamer = nil
	}
	s.ctrl = nil
	s.volume = nil
	s.loadErr = nil
	s.ended = false
	s.state = Stopped
}

// finished is invoked once the current source drained.
func (s *StreamSink) finished(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.streamer == nil {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.state = Paused
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = true
		speaker.Unlock()
	}
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventPause})
	s.emit(gen, Event{Kind: EventEnded})
}

// playSeqLocked hands the current source to the speaker.
func (s *StreamSink) playSeqLocked() {
	gen := s.gen
	speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
		// Runs under the speaker lock.
		go s.finished(gen)
	})))
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}
