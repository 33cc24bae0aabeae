// internal/playback/state.go
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a song is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// NoticeKind identifies a user-facing notice raised by the engine.
type NoticeKind int

const (
	// NoticeAuthRequired: the action needs a signed-in user.
	NoticeAuthRequired NoticeKind = iota
	// NoticeAuthPending: auth is still resolving, the user should retry.
	NoticeAuthPending
	// NoticeAlreadyQueued: AddToQueue found the song already queued.
	NoticeAlreadyQueued
	// NoticeQueued: AddToQueue appended the song.
	NoticeQueued
	// NoticePreviewEnded: a preview ran out and the upsell clip starts.
	NoticePreviewEnded
)

// String returns the notice name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeAuthRequired:
		return "AuthRequired"
	case NoticeAuthPending:
		return "AuthPending"
	case NoticeAlreadyQueued:
		return "AlreadyQueued"
	case NoticeQueued:
		return "Queued"
	case NoticePreviewEnded:
		return "PreviewEnded"
	default:
		return "Unknown"
	}
}

// Message returns a short English text for the notice.
func (k NoticeKind) Message() string {
	switch k {
	case NoticeAuthRequired:
		return "Sign in to continue"
	case NoticeAuthPending:
		return "Please wait, checking your account"
	case NoticeAlreadyQueued:
		return "Already in queue"
	case NoticeQueued:
		return "Added to queue"
	case NoticePreviewEnded:
		return "Preview ended, go premium to hear the full track"
	default:
		return ""
	}
}
