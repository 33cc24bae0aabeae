package keymap

// Binding maps keys to an action, with a description for help.
type Binding struct {
	Keys        []string
	Action      Action
	Description string
	Context     string // "global", "playback", "catalog", "queue"
}

// All contains every key binding.
var All = []Binding{
	// Global
	{[]string{"q", "ctrl+c"}, ActionQuit, "Quit application", "global"},
	{[]string{"tab"}, ActionSwitchFocus, "Switch focus", "global"},
	{[]string{"?"}, ActionHelp, "Show help", "global"},
	{[]string{"ctrl+r"}, ActionRefresh, "Reload catalog", "global"},

	// Playback
	{[]string{" ", "space"}, ActionPlayPause, "Play/pause", "playback"},
	{[]string{"x"}, ActionStop, "Stop and clear", "playback"},
	{[]string{"n", "pgdown"}, ActionNextTrack, "Next track", "playback"},
	{[]string{"p", "pgup"}, ActionPrevTrack, "Previous track", "playback"},
	{[]string{"shift+right", "right"}, ActionSeekForward, "Seek +5s", "playback"},
	{[]string{"shift+left", "left"}, ActionSeekBack, "Seek -5s", "playback"},
	{[]string{"+", "="}, ActionVolumeUp, "Volume up", "playback"},
	{[]string{"-"}, ActionVolumeDown, "Volume down", "playback"},
	{[]string{"v"}, ActionTogglePlayerDisplay, "Toggle player display", "playback"},
	{[]string{"R"}, ActionToggleRepeat, "Toggle repeat", "playback"},
	{[]string{"S"}, ActionToggleShuffle, "Toggle shuffle", "playback"},

	// Lists
	{[]string{"k", "up"}, ActionMoveUp, "Move up", "catalog"},
	{[]string{"j", "down"}, ActionMoveDown, "Move down", "catalog"},
	{[]string{"g", "home"}, ActionJumpStart, "First item", "catalog"},
	{[]string{"G", "end"}, ActionJumpEnd, "Last item", "catalog"},
	{[]string{"enter"}, ActionSelect, "Play", "catalog"},
	{[]string{"a"}, ActionAdd, "Add to queue", "catalog"},

	// Queue panel
	{[]string{"d", "delete"}, ActionDelete, "Remove from queue", "queue"},
	{[]string{"c"}, ActionClear, "Clear queue", "queue"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
