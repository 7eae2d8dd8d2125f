package state

import "github.com/marcin-skalski/statusdeck/internal/github"

type PageKind int

const (
	Home PageKind = iota
	Shortcuts
	PullRequests
)

func (k PageKind) String() string {
	switch k {
	case Home:
		return "home"
	case Shortcuts:
		return "shortcuts"
	case PullRequests:
		return "pull_requests"
	default:
		return "unknown"
	}
}

// SubState is the cursor over one scrollable list. Slider is the last
// coarse slider level (0..5), not the raw position.
type SubState struct {
	Slider   int
	Selected int
	Scroll   int
}

// Clamp keeps Selected and Scroll inside [0, n].
func (s *SubState) Clamp(n int) {
	if n < 0 {
		n = 0
	}
	s.Selected = clamp(s.Selected, 0, n)
	s.Scroll = clamp(s.Scroll, 0, n)
}

// Index is the list position the cursor points at.
func (s SubState) Index() int {
	return s.Selected + s.Scroll
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type ShortcutPhase int

const (
	PhaseIdle ShortcutPhase = iota
	PhaseGroupSelected
)

func (p ShortcutPhase) String() string {
	if p == PhaseGroupSelected {
		return "group_selected"
	}
	return "idle"
}

// ShortcutsPage is Idle or GroupSelected. Group is meaningful only in
// PhaseGroupSelected; use Selected to read it.
type ShortcutsPage struct {
	Phase ShortcutPhase
	Group int
}

// Selected returns the chosen group index.
func (s ShortcutsPage) Selected() (int, bool) {
	if s.Phase != PhaseGroupSelected {
		return 0, false
	}
	return s.Group, true
}

func SelectGroup(g int) ShortcutsPage {
	return ShortcutsPage{Phase: PhaseGroupSelected, Group: g}
}

type PRPage struct {
	List github.PullRequestList
	SubState
}

// Page is the active page plus the private state of every page. Only the
// field matching Kind is live; the others are kept for the preserve policy.
type Page struct {
	Kind      PageKind
	Home      SubState
	PRs       PRPage
	Shortcuts ShortcutsPage
}

// Enter makes kind the active page. Unless preserve is set, the target
// page starts from fresh sub-state. Shortcuts always starts Idle.
func (p *Page) Enter(kind PageKind, preserve bool) {
	p.Kind = kind
	switch kind {
	case Home:
		if !preserve {
			p.Home = SubState{}
		}
	case PullRequests:
		if !preserve {
			p.PRs = PRPage{}
		}
	case Shortcuts:
		p.Shortcuts = ShortcutsPage{}
	}
}
