// internal/player/state.go
package player

// State is the transport state of a StreamSink.
//
//	┌──────────┐    play     ┌──────────┐
//	│  Stopped │ ──────────▶ │  Playing │
//	└──────────┘             └──────────┘
//	     ▲                      │    ▲
//	     │ load            pause│    │play
//	     │                      ▼    │
//	     │                   ┌──────────┐
//	     └────────────────── │  Paused  │
//	                         └──────────┘
//
// Load always returns to Stopped; the new source starts paused once
// decoded. Play on a Stopped sink waits for the pending source.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
