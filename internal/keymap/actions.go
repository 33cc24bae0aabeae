// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionSwitchFocus Action = "switch_focus"
	ActionHelp        Action = "help"
	ActionRefresh     Action = "refresh"

	// Playback actions
	ActionPlayPause           Action = "play_pause"
	ActionStop                Action = "stop"
	ActionNextTrack           Action = "next_track"
	ActionPrevTrack           Action = "prev_track"
	ActionSeekForward         Action = "seek_forward"
	ActionSeekBack            Action = "seek_back"
	ActionVolumeUp            Action = "volume_up"
	ActionVolumeDown          Action = "volume_down"
	ActionTogglePlayerDisplay Action = "toggle_player_display"
	ActionToggleRepeat        Action = "toggle_repeat"
	ActionToggleShuffle       Action = "toggle_shuffle"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"

	// Selection/activation actions
	ActionSelect Action = "select" // enter - play/activate
	ActionAdd    Action = "add"    // a - add to queue

	// Queue-specific actions
	ActionDelete Action = "delete" // d/delete - remove from queue
	ActionClear  Action = "clear"  // c - clear queue
)
