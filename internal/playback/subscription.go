package playback

import (
	"sync"
	"time"
)

// noticeBufferSize is how many notices wait in the channel before the
// rest go to the overflow list.
const noticeBufferSize = 16

// Subscription delivers engine events to one subscriber.
//
// State, track, queue, position and mode channels hold a single value:
// a send replaces whatever the subscriber has not read yet, so a slow
// reader always sees the latest state. Notices are delivered in order and
// never dropped.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Notice          <-chan Notice
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	noticeCh   chan Notice
	doneCh     chan struct{}

	noticeMu sync.Mutex
	overflow []Notice
	flushing bool
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, 1),
		trackCh:    make(chan TrackChange, 1),
		positionCh: make(chan PositionChange, 1),
		queueCh:    make(chan QueueChange, 1),
		modeCh:     make(chan ModeChange, 1),
		noticeCh:   make(chan Notice, noticeBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Notice = s.noticeCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop and ends any pending notice flush.
func (s *Subscription) close() {
	close(s.doneCh)
}

// latest puts v in the single-slot ch, discarding an unread value.
// The engine is the only sender, so the loop ends after one eviction.
func latest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Subscription) sendState(e StateChange) { latest(s.stateCh, e) }

func (s *Subscription) sendTrack(e TrackChange) { latest(s.trackCh, e) }

func (s *Subscription) sendPosition(pos time.Duration) {
	latest(s.positionCh, PositionChange{Position: pos})
}

func (s *Subscription) sendQueue(e QueueChange) { latest(s.queueCh, e) }

func (s *Subscription) sendMode(e ModeChange) { latest(s.modeCh, e) }

// sendNotice delivers n without blocking the engine. Once the channel is
// full, notices wait in overflow and a goroutine feeds them in order.
func (s *Subscription) sendNotice(n Notice) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()

	if len(s.overflow) == 0 {
		select {
		case s.noticeCh <- n:
			return
		default:
		}
	}
	s.overflow = append(s.overflow, n)
	if !s.flushing {
		s.flushing = true
		go s.flushNotices()
	}
}

func (s *Subscription) flushNotices() {
	for {
		s.noticeMu.Lock()
		if len(s.overflow) == 0 {
			s.flushing = false
			s.noticeMu.Unlock()
			return
		}
		n := s.overflow[0]
		s.noticeMu.Unlock()

		select {
		case s.noticeCh <- n:
		case <-s.doneCh:
			return
		}

		s.noticeMu.Lock()
		s.overflow = s.overflow[1:]
		s.noticeMu.Unlock()
	}
}
