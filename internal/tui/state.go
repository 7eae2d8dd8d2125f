package tui

import "time"

type Page int

const (
	PageHome Page = iota
	PageShortcuts
	PagePullRequests
)

type Snapshot struct {
	Timestamp time.Time
	Page      Page
	Clock     string

	Event *EventState
	// Rows is the notification list on the home page and the active pull
	// request list on the pull requests page.
	Rows     []RowState
	Selected int
	Scroll   int

	Shortcuts     []ShortcutGroupState
	SelectedGroup int // -1 when no group is selected

	Commands []CommandState
	Pollers  []PollerState
}

type EventState struct {
	Title   string
	Time    string
	Start   time.Time
	CanJoin bool
}

type RowState struct {
	Stamp  time.Time
	Title  string
	Detail string
}

type ShortcutGroupState struct {
	Name   string
	Labels []string
}

type CommandState struct {
	Label       string
	Highlighted bool
}

type PollerState struct {
	Name    string
	Healthy bool
	LastRun time.Time
	Err     string
}
