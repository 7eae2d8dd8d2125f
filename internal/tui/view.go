package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	defaultRows  = 10
	minTitleCols = 20
	// lines taken by the header block, footer and margins
	chromeLines = 8
)

func renderView(snap Snapshot, width, height int, keys keyMap) string {
	var body string
	switch snap.Page {
	case PageShortcuts:
		body = renderShortcuts(snap.Shortcuts, snap.SelectedGroup)
	default:
		body = renderFeed(snap, width, visibleRows(height))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(2).Render(body),
		renderCommands(snap.Commands),
	)

	var b strings.Builder
	b.WriteString(main)
	b.WriteString("\n\n")
	b.WriteString(renderFooter(snap, keys))
	return b.String()
}

func visibleRows(height int) int {
	if height <= 0 {
		return defaultRows
	}
	return max(1, (height-chromeLines)/2)
}

func renderFeed(snap Snapshot, width, rows int) string {
	var b strings.Builder
	titleCols := max(minTitleCols, width-24)

	if snap.Page == PageHome && snap.Event != nil {
		ev := snap.Event
		b.WriteString(etaStyle.Render(eta(snap.Timestamp, ev.Start)))
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(truncate(ev.Title, titleCols)))
		b.WriteString("\n")
		if ev.CanJoin {
			b.WriteString(joinStyle.Render("ZOOM"))
		} else {
			b.WriteString(noJoinStyle.Render("    "))
		}
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(ev.Time))
		b.WriteString("\n\n")
	}

	if snap.Scroll >= len(snap.Rows) {
		if len(snap.Rows) == 0 {
			b.WriteString(emptyStyle.Render(emptyText(snap.Page)))
		}
		return b.String()
	}

	for i, row := range snap.Rows[snap.Scroll:] {
		if i >= rows {
			break
		}
		stamp := etaStyle
		if i == snap.Selected {
			stamp = selectedEtaStyle
		}
		b.WriteString(stamp.Render(eta(snap.Timestamp, row.Stamp)))
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(truncate(row.Title, titleCols)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(truncate(row.Detail, titleCols+8)))
		b.WriteString("\n")
	}
	return b.String()
}

func emptyText(p Page) string {
	if p == PagePullRequests {
		return "(no pull requests)"
	}
	return "(no notifications)"
}

func renderShortcuts(groups []ShortcutGroupState, selected int) string {
	if len(groups) == 0 {
		return emptyStyle.Render("(no shortcuts configured)")
	}

	blocks := make([]string, 0, len(groups))
	for i, g := range groups {
		var b strings.Builder
		b.WriteString(groupIndexStyle.Render(fmt.Sprintf(" %d ", i+1)))
		b.WriteString(" ")
		b.WriteString(titleStyle.Render(g.Name))
		for j, label := range g.Labels {
			b.WriteString("\n")
			fmt.Fprintf(&b, "%d  %s", j+1, label)
		}

		style := groupStyle
		if i == selected {
			style = selectedGroupStyle
		}
		blocks = append(blocks, style.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderCommands(cmds []CommandState) string {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		style := commandStyle
		if c.Highlighted {
			style = highlightedCommandStyle
		}
		lines = append(lines, style.Render(c.Label))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderFooter(snap Snapshot, keys keyMap) string {
	parts := []string{clockStyle.Render(snap.Clock)}
	for _, p := range snap.Pollers {
		mark := "●"
		if !p.Healthy {
			mark = "✗"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(pollerColor(p.Healthy)).Render(mark+" "+p.Name))
	}

	var help []string
	for _, k := range keys.help() {
		h := k.Help()
		help = append(help, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ") + "\n" + mutedStyle.Render(strings.Join(help, " "))
}

func truncate(s string, cols int) string {
	if runewidth.StringWidth(s) > cols {
		return runewidth.Truncate(s, cols, "...")
	}
	return s
}

// eta renders the distance from t to now in three columns: "+" for the
// past, "-" for the future, then minutes, hours or days.
func eta(now, t time.Time) string {
	secs := now.Unix() - t.Unix()
	sign := "-"
	if secs > 0 {
		sign = "+"
	}
	if secs < 0 {
		secs = -secs
	}

	const (
		minute = 60
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case secs > day:
		return fmt.Sprintf("%s%2dd", sign, roundDiv(secs, day))
	case secs > 12*hour:
		return sign + " 1d"
	case secs > hour:
		return fmt.Sprintf("%s%2dh", sign, roundDiv(secs, hour))
	default:
		return fmt.Sprintf("%s%2dm", sign, roundDiv(secs, minute))
	}
}

func roundDiv(a, b int64) int64 {
	return int64(math.Round(float64(a) / float64(b)))
}
