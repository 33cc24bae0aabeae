package playback

import "errors"

var (
	// ErrAuthRequired is returned when an action needs a signed-in user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrAuthPending is returned while auth is still resolving.
	ErrAuthPending = errors.New("authentication pending")
	// ErrNoTrack is returned by operations that need a loaded song.
	ErrNoTrack = errors.New("no track loaded")
)
