package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
)

const contentRows = 4 // Must match Height(ModeExpanded) - 2 for borders

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderExpanded renders the multi-row player view.
func RenderExpanded(s State, width int) string {
	innerWidth := max(width-6, 0)
	if innerWidth < 30 {
		// Too narrow, fall back to compact
		return renderCompact(s, width)
	}

	artist := s.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}

	modes := renderModes(s)
	badge := s.badge()
	var modeLine string
	if badge != "" {
		modeLine = row(badgeStyle().Render(badge), modes, innerWidth)
	} else {
		modeLine = row("", modes, innerWidth)
	}

	lines := []string{
		titleStyle().Render(truncate(s.title(), innerWidth)),
		artistStyle().Render(truncate(artist, innerWidth)),
		modeLine,
		RenderProgressBar(s.Position, s.Duration, innerWidth, s.status()),
	}
	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(strings.Join(lines[:contentRows], "\n"))
}

// RenderProgressBar renders a block-style progress bar.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func RenderProgressBar(position, duration time.Duration, width int, status string) string {
	posStr := playback.FormatDuration(position)
	durStr := playback.FormatDuration(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		// Too narrow for bar, just show times
		return status + "  " + posStr + " / " + durStr
	}

	filled := filledCells(position, duration, barWidth)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)
	return status + "  " + posStr + "  " + progressBarFilled().Render(bar) + "  " + durStr
}

// row places left and right at the edges of width.
func row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
