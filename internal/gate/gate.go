// Package gate decides whether a song may be played in full, as a preview,
// or not at all, and tracks the preview/upsell session of the song being
// played.
package gate

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// PreviewPercent is the share of a premium song a non-premium user hears.
const PreviewPercent = 15

// Auth reports the caller's authentication state.
type Auth interface {
	IsAuthenticated() bool
	IsPremium() bool
	// Loading is true while the auth state is still being resolved.
	Loading() bool
}

// Static is a fixed Auth value.
type Static struct {
	Authenticated bool
	Premium       bool
	Resolving     bool
}

func (s Static) IsAuthenticated() bool { return s.Authenticated }
func (s Static) IsPremium() bool       { return s.Premium }
func (s Static) Loading() bool         { return s.Resolving }

// Access is the outcome of a gate decision.
type Access int

const (
	Full Access = iota
	Preview
	Blocked
	Pending
)

// String returns the access name.
func (a Access) String() string {
	switch a {
	case Full:
		return "Full"
	case Preview:
		return "Preview"
	case Blocked:
		return "Blocked"
	case Pending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// Playable returns true if audio may be loaded for this access.
func (a Access) Playable() bool {
	return a == Full || a == Preview
}

// Decide returns the access the caller has to song. While auth is still
// resolving the answer is Pending regardless of the song. A nil auth is
// treated as an anonymous caller.
func Decide(song playlist.Song, auth Auth) Access {
	if auth != nil && auth.Loading() {
		return Pending
	}
	if !song.IsPremium {
		return Full
	}
	if auth == nil || !auth.IsAuthenticated() {
		return Blocked
	}
	if auth.IsPremium() {
		return Full
	}
	return Preview
}

// PreviewLimit returns the position at which a preview of a song of the
// given duration ends.
func PreviewLimit(duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	return duration * PreviewPercent / 100
}

// Expired reports whether pos has reached the preview limit. An unknown
// duration never expires.
func Expired(pos, duration time.Duration) bool {
	return duration > 0 && pos >= PreviewLimit(duration)
}

// ClampSeek limits a seek target to the preview window.
func ClampSeek(pos, duration time.Duration) time.Duration {
	if duration <= 0 {
		return pos
	}
	return min(pos, PreviewLimit(duration))
}
