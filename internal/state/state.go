// Package state holds the console's shared state: the feeds published by
// pollers and the page the operator is on. Writers replace whole fields
// under one mutex; readers take a Snapshot.
package state

import (
	"sync"
	"time"

	"github.com/marcin-skalski/statusdeck/internal/calendar"
	"github.com/marcin-skalski/statusdeck/internal/config"
	"github.com/marcin-skalski/statusdeck/internal/github"
)

type State struct {
	Page Page

	Calendar      *calendar.Event
	Notifications []github.Notification
	OpenPRs       []github.PullRequest
	ClosedPRs     []github.PullRequest
	ReviewPRs     []github.PullRequest

	// Zero until the matching feed publishes for the first time.
	CalendarAt      time.Time
	NotificationsAt time.Time
	PullsAt         time.Time

	Clock     string
	Shortcuts []config.ShortcutGroup
}

// PullRequests returns the list l.
func (s *State) PullRequests(l github.PullRequestList) []github.PullRequest {
	switch l {
	case github.ListClosed:
		return s.ClosedPRs
	case github.ListReview:
		return s.ReviewPRs
	default:
		return s.OpenPRs
	}
}

// ActivePullRequests is the list selected on the pull requests page.
func (s *State) ActivePullRequests() []github.PullRequest {
	return s.PullRequests(s.Page.PRs.List)
}

// Store owns the State. Slices held in the State are never edited in
// place, so a shallow copy is a consistent snapshot.
type Store struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

func NewStore(shortcuts []config.ShortcutGroup) *Store {
	return &Store{
		state: State{Shortcuts: shortcuts},
		now:   time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update runs fn with the lock held. fn must not block.
func (s *Store) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Store) SetCalendar(ev *calendar.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Calendar = ev
	s.state.CalendarAt = s.now()
}

func (s *Store) SetNotifications(items []github.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notifications = items
	s.state.NotificationsAt = s.now()
}

func (s *Store) SetPullRequests(l github.PullRequestList, prs []github.PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch l {
	case github.ListOpen:
		s.state.OpenPRs = prs
	case github.ListClosed:
		s.state.ClosedPRs = prs
	case github.ListReview:
		s.state.ReviewPRs = prs
	default:
		return
	}
	s.state.PullsAt = s.now()
}

func (s *Store) SetClock(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Clock = text
}

// SetShortcuts replaces the shortcut grid. A selected group that no
// longer exists drops the shortcuts page back to Idle.
func (s *Store) SetShortcuts(groups []config.ShortcutGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Shortcuts = groups
	if g, ok := s.state.Page.Shortcuts.Selected(); ok && g >= len(groups) {
		s.state.Page.Shortcuts = ShortcutsPage{}
	}
}
