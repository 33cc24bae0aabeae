package playerbar

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#a78bfa")
	accent  = lipgloss.Color("#f1a208")
	fgBase  = lipgloss.Color("#c0c0c0")
	fgMuted = lipgloss.Color("#808080")
	border  = lipgloss.Color("#585858")
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(border)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fgBase).Bold(true)
}

func artistStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fgMuted)
}

func badgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accent).Bold(true)
}

func progressBarFilled() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(primary)
}

func progressBarEmpty() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(border)
}

func progressTimeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fgMuted)
}

func modeStyle(on bool) lipgloss.Style {
	if on {
		return lipgloss.NewStyle().Foreground(primary)
	}
	return lipgloss.NewStyle().Foreground(border)
}
