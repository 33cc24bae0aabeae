package playerbar

import "fmt"

const (
	repeatSymbol  = "⟳"
	shuffleSymbol = "⤮"
)

// renderModes renders the repeat and shuffle markers and the volume.
// Format: "⟳ ⤮  80%"
func renderModes(s State) string {
	pct := int(s.Volume*100 + 0.5)
	return modeStyle(s.Repeat).Render(repeatSymbol) + " " +
		modeStyle(s.Shuffle).Render(shuffleSymbol) + " " +
		progressTimeStyle().Render(fmt.Sprintf("%3d%%", pct))
}
