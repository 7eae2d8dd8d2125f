package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorFG      = lipgloss.Color("250")
	colorMuted   = lipgloss.Color("240")
	colorBG      = lipgloss.Color("0")
	colorZoom    = lipgloss.Color("#2D8CFF")
	colorHealthy = lipgloss.Color("46")
	colorFailing = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFG)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	etaStyle = lipgloss.NewStyle().
			Foreground(colorFG).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(colorFG).
			PaddingLeft(1).
			PaddingRight(1)

	selectedEtaStyle = etaStyle.
				Foreground(colorBG).
				Background(colorFG)

	joinStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBG).
			Background(colorZoom).
			PaddingLeft(1).
			PaddingRight(1)

	noJoinStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1)

	groupStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorFG).
			PaddingLeft(1).
			PaddingRight(1)

	selectedGroupStyle = groupStyle.
				BorderForeground(colorZoom)

	groupIndexStyle = lipgloss.NewStyle().
			Foreground(colorBG).
			Background(colorFG)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorFG).
			Width(6).
			Align(lipgloss.Center)

	highlightedCommandStyle = commandStyle.
				Bold(true).
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorFG)

	clockStyle = lipgloss.NewStyle().
			Foreground(colorBG).
			Background(colorFG).
			PaddingLeft(1).
			PaddingRight(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

func pollerColor(healthy bool) lipgloss.Color {
	if healthy {
		return colorHealthy
	}
	return colorFailing
}
