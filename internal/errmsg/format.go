// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogScan  Op = "scan catalog"
	OpCatalogLoad  Op = "load catalog"
	OpSongFetch    Op = "fetch song"
	OpPlaylistLoad Op = "load playlist"

	// Queue operations
	OpQueueAdd    Op = "add to queue"
	OpQueueRemove Op = "remove from queue"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackNext  Op = "skip track"

	// Account
	OpSignIn     Op = "sign in"
	OpTokenIssue Op = "issue token"

	// Server
	OpServe Op = "serve"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
