package console

import (
	"github.com/marcin-skalski/statusdeck/internal/github"
	"github.com/marcin-skalski/statusdeck/internal/state"
)

// Command labels the page-select key at the same position.
type Command struct {
	Label       string
	Highlighted bool
}

// Commands returns the four key labels for the active page of st.
func Commands(st state.State) []Command {
	switch st.Page.Kind {
	case state.PullRequests:
		list := st.Page.PRs.List
		return []Command{
			{Label: "IPR", Highlighted: list == github.ListOpen},
			{Label: "SUB", Highlighted: list == github.ListClosed},
			{Label: "REV", Highlighted: list == github.ListReview},
			{},
		}
	case state.Shortcuts:
		g, selected := st.Page.Shortcuts.Selected()
		cmds := make([]Command, 0, 4)
		for i := 0; i < 3; i++ {
			c := Command{}
			if i < len(st.Shortcuts) {
				c.Label = st.Shortcuts[i].Name
				c.Highlighted = selected && g == i
			}
			cmds = append(cmds, c)
		}
		return append(cmds, Command{Label: "HOME"})
	default:
		return []Command{
			{Label: "JOIN", Highlighted: st.Calendar != nil && st.Calendar.JoinURL != ""},
			{Label: "PRS"},
			{Label: "CAL"},
			{Label: "SHCT"},
		}
	}
}
