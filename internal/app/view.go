package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

var (
	colorPrimary = lipgloss.Color("#a78bfa")
	colorMuted   = lipgloss.Color("#808080")
	colorBorder  = lipgloss.Color("#585858")
	colorCursor  = lipgloss.Color("#303030")
	colorError   = lipgloss.Color("#ff5555")
	colorSuccess = lipgloss.Color("#42b883")
	colorWarning = lipgloss.Color("#f1a208")
)

func panelStyle(focused bool) lipgloss.Style {
	border := colorBorder
	if focused {
		border = colorPrimary
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	bar := playerbar.Render(playerbar.NewState(m.snapshot, m.displayMode), m.width)
	status := m.renderStatus()

	used := lipgloss.Height(header) + lipgloss.Height(status)
	if bar != "" {
		used += lipgloss.Height(bar)
	}
	bodyHeight := max(m.height-used, 3)

	catalogWidth := m.width / 2
	queueWidth := m.width - catalogWidth
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCatalog(catalogWidth, bodyHeight),
		m.renderQueue(queueWidth, bodyHeight),
	)

	parts := []string{header, body, status}
	if bar != "" {
		parts = append(parts, bar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("wavecast")
	return row(title, mutedStyle().Render(m.accountLabel()), m.width)
}

func (m Model) accountLabel() string {
	switch {
	case m.account == nil:
		return ""
	case m.account.Loading():
		return "checking account…"
	case m.account.IsPremium():
		return "premium"
	case m.account.IsAuthenticated():
		return "free account"
	default:
		return "guest"
	}
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return " "
	}
	color := colorSuccess
	if m.statusIsError {
		color = colorError
	}
	return lipgloss.NewStyle().Foreground(color).Render(truncate(m.status, m.width))
}

// renderCatalog lists the songs with their premium flag and listen count.
func (m Model) renderCatalog(width, height int) string {
	inner := max(width-2, 0)
	rows := max(height-2, 1)

	var lines []string
	switch {
	case !m.songsLoaded:
		lines = []string{mutedStyle().Render("Loading catalog…")}
	case len(m.songs) == 0:
		lines = []string{mutedStyle().Render("No songs")}
	default:
		start, end := window(m.cursor, len(m.songs), rows)
		for i := start; i < end; i++ {
			s := m.songs[i]
			marker := " "
			if s.IsPremium {
				marker = lipgloss.NewStyle().Foreground(colorWarning).Render("★")
			}
			plays := humanize.Comma(s.ListenCount)
			label := s.Title
			if artist := strings.Join(s.Singers, ", "); artist != "" {
				label += " · " + artist
			}
			label = truncate(label, max(inner-lipgloss.Width(plays)-3, 1))
			line := row(marker+" "+label, mutedStyle().Render(plays), inner)
			lines = append(lines, m.highlight(line, i == m.cursor && m.focus == FocusCatalog, inner))
		}
	}
	return panelStyle(m.focus == FocusCatalog).Width(inner).Height(rows).Render(strings.Join(lines, "\n"))
}

// renderQueue lists the queue with the current song marked.
func (m Model) renderQueue(width, height int) string {
	inner := max(width-2, 0)
	rows := max(height-2, 1)
	queue := m.snapshot.Queue

	var lines []string
	if len(queue) == 0 {
		lines = []string{mutedStyle().Render("Queue is empty")}
	} else {
		start, end := window(m.queueCursor, len(queue), rows)
		for i := start; i < end; i++ {
			prefix := fmt.Sprintf("%2d ", i+1)
			style := lipgloss.NewStyle()
			if i == m.snapshot.CurrentIndex {
				prefix = " ▶ "
				style = style.Foreground(colorPrimary).Bold(true)
			}
			line := style.Render(truncate(prefix+queue[i].Title, inner))
			lines = append(lines, m.highlight(line, i == m.queueCursor && m.focus == FocusQueue, inner))
		}
	}
	return panelStyle(m.focus == FocusQueue).Width(inner).Height(rows).Render(strings.Join(lines, "\n"))
}

func (m Model) highlight(line string, on bool, width int) string {
	if !on {
		return line
	}
	return lipgloss.NewStyle().Background(colorCursor).Width(width).Render(line)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range keymap.All {
		// " " is the space bar, also listed as "space".
		keys := strings.Join(lo.Without(kb.Keys, " "), ", ")
		fmt.Fprintf(&b, "%s  %s\n", runewidth.FillRight(keys, 20), kb.Description)
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle().Render("Press any key to close"))
	return panelStyle(true).Padding(0, 1).Render(b.String())
}

// window returns the visible range of n items keeping cursor in view.
func window(cursor, n, rows int) (start, end int) {
	if n <= rows {
		return 0, n
	}
	start = min(max(cursor-rows/2, 0), n-rows)
	return start, start + rows
}

func row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
