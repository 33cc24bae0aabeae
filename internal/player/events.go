package player

import (
	"fmt"
	"time"
)

// EventKind identifies a lifecycle event of the output handle.
type EventKind int

const (
	// EventTimeUpdate reports playback progress.
	EventTimeUpdate EventKind = iota
	// EventLoadedMetadata reports the duration of a freshly loaded source.
	EventLoadedMetadata
	// EventEnded fires when the source played to its end.
	EventEnded
	// EventLoadStart fires when a new source starts loading.
	EventLoadStart
	// EventCanPlayThrough fires when the source is ready to play without stalling.
	EventCanPlayThrough
	// EventPlay fires when playback starts or resumes.
	EventPlay
	// EventPause fires when playback pauses.
	EventPause
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventEnded:
		return "ended"
	case EventLoadStart:
		return "loadstart"
	case EventCanPlayThrough:
		return "canplaythrough"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a lifecycle notification from a Sink.
type Event struct {
	Kind     EventKind
	Position time.Duration // set for EventTimeUpdate
	Duration time.Duration // set for EventLoadedMetadata
	// Source is the id returned by the Load that produced the event.
	Source uint64
}
