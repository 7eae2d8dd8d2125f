package daemon

import (
	"fmt"

	"github.com/marcin-skalski/statusdeck/internal/console"
	"github.com/marcin-skalski/statusdeck/internal/state"
	"github.com/marcin-skalski/statusdeck/internal/tui"
)

func (d *Daemon) GetSnapshot() tui.Snapshot {
	st := d.store.Snapshot()

	snap := tui.Snapshot{
		Timestamp:     d.now(),
		Clock:         st.Clock,
		SelectedGroup: -1,
	}

	if ev := st.Calendar; ev != nil {
		snap.Event = &tui.EventState{
			Title:   ev.Title,
			Time:    ev.DisplayTime,
			Start:   ev.Start,
			CanJoin: ev.JoinURL != "",
		}
	}

	switch st.Page.Kind {
	case state.Home:
		snap.Page = tui.PageHome
		snap.Selected, snap.Scroll = st.Page.Home.Selected, st.Page.Home.Scroll
		for _, n := range st.Notifications {
			snap.Rows = append(snap.Rows, tui.RowState{
				Stamp:  n.UpdatedAt,
				Title:  n.Title,
				Detail: fmt.Sprintf("%s in %s", n.Action, n.Repository),
			})
		}
	case state.PullRequests:
		snap.Page = tui.PagePullRequests
		snap.Selected, snap.Scroll = st.Page.PRs.Selected, st.Page.PRs.Scroll
		for _, pr := range st.ActivePullRequests() {
			snap.Rows = append(snap.Rows, tui.RowState{
				Stamp:  pr.UpdatedAt,
				Title:  pr.Title,
				Detail: pr.RepoName,
			})
		}
	case state.Shortcuts:
		snap.Page = tui.PageShortcuts
		if g, ok := st.Page.Shortcuts.Selected(); ok {
			snap.SelectedGroup = g
		}
	}

	for _, g := range st.Shortcuts {
		labels := make([]string, 0, len(g.Items))
		for _, it := range g.Items {
			labels = append(labels, it.Label)
		}
		snap.Shortcuts = append(snap.Shortcuts, tui.ShortcutGroupState{Name: g.Name, Labels: labels})
	}

	for _, c := range console.Commands(st) {
		snap.Commands = append(snap.Commands, tui.CommandState{Label: c.Label, Highlighted: c.Highlighted})
	}

	for _, s := range d.runner.AllStatus() {
		ps := tui.PollerState{Name: s.Name, Healthy: s.Healthy, LastRun: s.LastRun}
		if s.LastError != nil {
			ps.Err = s.LastError.Error()
		}
		snap.Pollers = append(snap.Pollers, ps)
	}

	return snap
}
