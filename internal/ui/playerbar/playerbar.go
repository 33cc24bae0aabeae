// Package playerbar renders the now-playing bar.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavecast/internal/gate"
	"github.com/llehouerou/wavecast/internal/playback"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Title, artist, modes and progress on separate rows
)

const (
	playSymbol    = "▶"
	pauseSymbol   = "⏸"
	loadingSymbol = "…"
)

// State holds everything needed to render the player bar.
type State struct {
	Playing     bool
	Paused      bool
	Loading     bool
	Title       string
	Artist      string
	Position    time.Duration
	Duration    time.Duration
	Volume      float64
	Repeat      bool
	Shuffle     bool
	Previewing  bool
	Upsell      bool
	DisplayMode DisplayMode
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 6 // 4 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// NewState builds a State from an engine snapshot. Returns an empty State
// when no song is loaded.
func NewState(s playback.Snapshot, mode DisplayMode) State {
	if s.CurrentSong == nil {
		return State{}
	}
	return State{
		Playing:     s.IsPlaying,
		Paused:      !s.IsPlaying,
		Loading:     s.Loading,
		Title:       s.CurrentSong.Title,
		Artist:      s.CurrentSong.Artist(),
		Position:    s.CurrentTime,
		Duration:    s.Duration,
		Volume:      s.Volume,
		Repeat:      s.IsRepeat,
		Shuffle:     s.IsShuffle,
		Previewing:  s.IsPreviewing,
		Upsell:      s.IsPlayingUpsell,
		DisplayMode: mode,
	}
}

// Render returns the player bar string for the given width.
// Returns empty string when nothing is loaded.
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}
	if s.DisplayMode == ModeExpanded {
		return RenderExpanded(s, width)
	}
	return renderCompact(s, width)
}

func (s State) status() string {
	switch {
	case s.Loading:
		return loadingSymbol
	case s.Paused:
		return pauseSymbol
	default:
		return playSymbol
	}
}

// badge labels the preview and upsell phases.
func (s State) badge() string {
	switch {
	case s.Upsell:
		return "PREMIUM ONLY"
	case s.Previewing:
		return "PREVIEW " + playback.FormatDuration(gate.PreviewLimit(s.Duration))
	}
	return ""
}

func (s State) title() string {
	if s.Upsell {
		return "Preview ended"
	}
	if s.Title == "" {
		return "Unknown Track"
	}
	return s.Title
}

func (s State) timeString() string {
	return playback.FormatDuration(s.Position) + " / " + playback.FormatDuration(s.Duration)
}

func renderCompact(s State, width int) string {
	// Calculate available width (subtract border and padding)
	innerWidth := max(width-6, 0)

	status := s.status()
	title := s.title()
	info := s.Artist
	badge := s.badge()
	timeStr := s.timeString()
	modes := renderModes(s)

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status+"  ") + lipgloss.Width(timeStr) + sepWidth*2 + lipgloss.Width(modes) + sepWidth
	if badge != "" {
		fixed += lipgloss.Width(badge) + sepWidth
	}

	// Reserve minimum space for progress bar (at least 10 chars)
	const minBarWidth = 10
	available := innerWidth - fixed - minBarWidth

	titleWidth := lipgloss.Width(title)
	infoWidth := lipgloss.Width(info)

	var styledTitle, styledInfo string
	var used int
	switch {
	case titleWidth+sepWidth+infoWidth <= available:
		styledTitle = titleStyle().Render(title)
		styledInfo = artistStyle().Render(info)
		used = titleWidth + sepWidth + infoWidth
	case titleWidth+sepWidth <= available && info != "":
		maxInfo := available - titleWidth - sepWidth
		styledTitle = titleStyle().Render(title)
		styledInfo = artistStyle().Render(truncate(info, maxInfo))
		used = titleWidth + sepWidth + lipgloss.Width(truncate(info, maxInfo))
	default:
		maxTitle := max(available, 10)
		styledTitle = titleStyle().Render(truncate(title, maxTitle))
		used = min(titleWidth, maxTitle)
	}

	barWidth := max(innerWidth-used-fixed, 5)

	// Title   Artist   PREVIEW 0:30   ▶  ━━━───   1:23 / 3:58   ⟳ ⤮ 80%
	var content strings.Builder
	content.WriteString(styledTitle)
	if styledInfo != "" {
		content.WriteString(separator)
		content.WriteString(styledInfo)
	}
	if badge != "" {
		content.WriteString(separator)
		content.WriteString(badgeStyle().Render(badge))
	}
	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(renderLineBar(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(progressTimeStyle().Render(timeStr))
	content.WriteString(separator)
	content.WriteString(modes)

	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

func renderLineBar(position, duration time.Duration, width int) string {
	filled := filledCells(position, duration, width)
	return progressBarFilled().Render(strings.Repeat("━", filled)) +
		progressBarEmpty().Render(strings.Repeat("─", width-filled))
}

func filledCells(position, duration time.Duration, width int) int {
	if duration <= 0 || width <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(max(int(float64(width)*ratio), 0), width)
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
