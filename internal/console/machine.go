// Package console is the page state machine driven by the control panel.
// It reads and mutates the page held in the shared store; launches that a
// key triggers run only after the store lock is released.
package console

import (
	"context"
	"log/slog"

	"github.com/marcin-skalski/statusdeck/internal/github"
	"github.com/marcin-skalski/statusdeck/internal/input"
	"github.com/marcin-skalski/statusdeck/internal/launcher"
	"github.com/marcin-skalski/statusdeck/internal/state"
)

// Rows visible below the scroll offset before the slider's bottom detent
// starts advancing the list.
const windowRows = 5

type Machine struct {
	store    *state.Store
	launcher launcher.Launcher
	preserve bool
	logger   *slog.Logger
}

// New returns a machine over store. preserve keeps per-page scroll and
// selection when a page is left and entered again.
func New(store *state.Store, l launcher.Launcher, preserve bool, logger *slog.Logger) *Machine {
	return &Machine{store: store, launcher: l, preserve: preserve, logger: logger}
}

// effect is what a key asks for beyond the state change. It is carried out
// after the store lock is released.
type effect struct {
	openURL string
	run     []string
	logs    []logRecord
}

type logRecord struct {
	level slog.Level
	msg   string
	args  []any
}

// HandleKey applies k to the active page.
func (m *Machine) HandleKey(k input.Key) {
	var eff effect
	var from, to state.PageKind
	m.store.Update(func(st *state.State) {
		from = st.Page.Kind
		eff = m.apply(st, k)
		to = st.Page.Kind
	})
	if from != to {
		m.logger.Debug("page changed", "from", from, "to", to, "key", k)
	}
	m.perform(eff)
}

// Heartbeat advances continuous scrolling while the slider rests at one of
// its extremes. It does nothing at the middle detents or on the shortcuts
// page.
func (m *Machine) Heartbeat() {
	m.store.Update(func(st *state.State) {
		switch st.Page.Kind {
		case state.Home:
			heartbeat(&st.Page.Home, len(st.Notifications))
		case state.PullRequests:
			heartbeat(&st.Page.PRs.SubState, len(st.ActivePullRequests()))
		}
	})
}

func (m *Machine) apply(st *state.State, k input.Key) effect {
	if k.Kind == input.Danger {
		return effect{logs: []logRecord{{level: slog.LevelDebug, msg: "danger key ignored"}}}
	}
	switch st.Page.Kind {
	case state.Home:
		return m.home(st, k)
	case state.PullRequests:
		return m.pullRequests(st, k)
	case state.Shortcuts:
		return m.shortcuts(st, k)
	}
	return effect{}
}

func (m *Machine) home(st *state.State, k input.Key) effect {
	switch k.Kind {
	case input.Key1, input.Execute:
		if st.Calendar != nil && st.Calendar.JoinURL != "" {
			return effect{openURL: st.Calendar.JoinURL}
		}
	case input.Key2:
		st.Page.Enter(state.PullRequests, m.preserve)
	case input.Key3:
		// calendar page not implemented
	case input.Key4:
		st.Page.Enter(state.Shortcuts, m.preserve)
	case input.Slider:
		slide(&st.Page.Home, k.Position, len(st.Notifications))
	}
	return effect{}
}

func (m *Machine) pullRequests(st *state.State, k input.Key) effect {
	p := &st.Page.PRs
	switch k.Kind {
	case input.Key1, input.Key2, input.Key3:
		p.List = github.PullRequestLists[k.Number()-1]
		p.SubState = state.SubState{}
	case input.Abort:
		st.Page.Enter(state.Home, m.preserve)
	case input.Execute:
		prs := st.ActivePullRequests()
		if i := p.Index(); i < len(prs) {
			return effect{openURL: prs[i].URL}
		}
	case input.Slider:
		slide(&p.SubState, k.Position, len(st.ActivePullRequests()))
	}
	return effect{}
}

func (m *Machine) shortcuts(st *state.State, k input.Key) effect {
	page := &st.Page.Shortcuts
	switch k.Kind {
	case input.Key1, input.Key2, input.Key3:
		slot := k.Number() - 1
		g, selected := page.Selected()
		if !selected {
			if slot < len(st.Shortcuts) {
				*page = state.SelectGroup(slot)
			}
			return effect{}
		}
		*page = state.ShortcutsPage{}
		if g < len(st.Shortcuts) && slot < len(st.Shortcuts[g].Items) {
			item := st.Shortcuts[g].Items[slot]
			return effect{
				run:  append([]string(nil), item.Argv...),
				logs: []logRecord{{level: slog.LevelInfo, msg: "shortcut", args: []any{"group", st.Shortcuts[g].Name, "label", item.Label}}},
			}
		}
	case input.Key4:
		st.Page.Enter(state.Home, m.preserve)
	case input.Abort:
		if _, selected := page.Selected(); selected {
			*page = state.ShortcutsPage{}
		} else {
			st.Page.Enter(state.Home, m.preserve)
		}
	}
	return effect{}
}

func (m *Machine) perform(eff effect) {
	for _, r := range eff.logs {
		m.logger.Log(context.Background(), r.level, r.msg, r.args...)
	}
	if eff.openURL != "" {
		m.launcher.OpenURL(eff.openURL)
	}
	if len(eff.run) > 0 {
		m.launcher.Run(eff.run)
	}
}

// slide applies a slider detent to s over a list of n items. The level is
// the detent counted from the top: 0 scrolls up, 1..4 pick a row, 5 picks
// the bottom row and overscrolls near the end of the list.
func slide(s *state.SubState, position, n int) {
	level := input.SliderPositions - 1 - position
	s.Slider = level
	switch {
	case level <= 0:
		if s.Scroll > 0 {
			s.Scroll--
		} else {
			s.Selected = 0
		}
	case level < windowRows:
		s.Selected = level
	default:
		s.Selected = windowRows
		if s.Scroll >= n-windowRows {
			if s.Selected < n {
				s.Selected++
			}
			s.Scroll++
		}
	}
	s.Clamp(n)
}

func heartbeat(s *state.SubState, n int) {
	switch s.Slider {
	case 0:
		if s.Scroll > 0 {
			s.Scroll--
		} else if s.Selected > 0 {
			s.Selected--
		}
	case windowRows:
		s.Scroll++
	default:
		return
	}
	s.Clamp(n)
}
