// internal/player/interface.go
package player

import "time"

// Sink is the single audio output handle shared by the whole client.
//
// Implementations deliver events to the listener registered with OnEvent
// from their own goroutine, never synchronously from one of the calls
// below, so callers may hold their own locks while driving the sink.
type Sink interface {
	// Load swaps the source to url and starts fetching it. It returns
	// the id stamped on every later event of that source. An empty url
	// releases the current source.
	Load(url string) uint64
	// Play starts or resumes playback. The returned channel receives
	// exactly one value: nil once audio is flowing, or the reason it was
	// refused.
	Play() <-chan error
	Pause()
	Seek(position time.Duration)
	Position() time.Duration
	Volume() float64
	SetVolume(level float64)
	// OnEvent registers the event listener, replacing any previous one.
	// A nil fn detaches it.
	OnEvent(fn func(Event))
	Close() error
}

// Verify StreamSink implements Sink at compile time.
var _ Sink = (*StreamSink)(nil)
