package console

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcin-skalski/statusdeck/internal/calendar"
	"github.com/marcin-skalski/statusdeck/internal/config"
	"github.com/marcin-skalski/statusdeck/internal/github"
	"github.com/marcin-skalski/statusdeck/internal/input"
	"github.com/marcin-skalski/statusdeck/internal/state"
)

type fakeLauncher struct {
	runs [][]string
	urls []string
}

func (f *fakeLauncher) Run(argv []string) { f.runs = append(f.runs, argv) }
func (f *fakeLauncher) OpenURL(url string) { f.urls = append(f.urls, url) }

var testGroups = []config.ShortcutGroup{
	{Name: "apps", Items: []config.Shortcut{
		{Label: "camera", Argv: []string{"guvcview"}},
		{Label: "zoom", Argv: []string{"zoom"}},
		{Label: "screenshot", Argv: []string{"flameshot", "gui"}},
	}},
	{Name: "system", Items: []config.Shortcut{
		{Label: "slack", Argv: []string{"slack"}},
	}},
}

func newMachine(t *testing.T, preserve bool) (*Machine, *state.Store, *fakeLauncher) {
	t.Helper()
	store := state.NewStore(testGroups)
	l := &fakeLauncher{}
	return New(store, l, preserve, slog.New(slog.NewTextHandler(io.Discard, nil))), store, l
}

func notifications(n int) []github.Notification {
	out := make([]github.Notification, n)
	for i := range out {
		out[i] = github.Notification{Title: "n", URL: "https://github.com/o/r/pull/1"}
	}
	return out
}

func pulls(prefix string, n int) []github.PullRequest {
	out := make([]github.PullRequest, n)
	for i := range out {
		out[i] = github.PullRequest{Title: prefix, URL: prefix + "/" + string(rune('a'+i))}
	}
	return out
}

func key(k input.Kind) input.Key { return input.Key{Kind: k} }

// level returns the slider key for a coarse level (0 top, 5 bottom).
func level(l int) input.Key { return input.SliderAt(5 - l) }

func home(s *state.Store) state.SubState { return s.Snapshot().Page.Home }

func TestSliderMiddleLevelsSelectExactly(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(20))

	for l := 1; l <= 4; l++ {
		m.HandleKey(level(l))
		if got := home(store); got.Selected != l || got.Slider != l {
			t.Errorf("level %d: sub = %+v, want Selected=%d", l, got, l)
		}
	}
}

func TestSliderTopWithoutScrollSnapsToZero(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(20))

	m.HandleKey(level(3))
	m.HandleKey(level(0))

	got := home(store)
	if got.Selected != 0 || got.Scroll != 0 {
		t.Errorf("sub = %+v, want Selected=0 Scroll=0", got)
	}

	m.HandleKey(level(0))
	if got := home(store); got.Selected != 0 {
		t.Errorf("Selected = %d, want 0 (never negative)", got.Selected)
	}
}

func TestSliderTopScrollsUpFirst(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(20))
	store.Update(func(st *state.State) { st.Page.Home = state.SubState{Selected: 3, Scroll: 2} })

	m.HandleKey(level(0))
	if got := home(store); got.Scroll != 1 || got.Selected != 3 {
		t.Errorf("sub = %+v, want Scroll=1 Selected=3", got)
	}
}

func TestSliderBottomOverscroll(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		scroll int
		want   state.SubState
	}{
		{"far from end", 20, 0, state.SubState{Slider: 5, Selected: 5, Scroll: 0}},
		{"near end", 20, 15, state.SubState{Slider: 5, Selected: 6, Scroll: 16}},
		{"short list", 3, 0, state.SubState{Slider: 5, Selected: 3, Scroll: 1}},
		{"empty list", 0, 0, state.SubState{Slider: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, _ := newMachine(t, false)
			store.SetNotifications(notifications(tt.n))
			store.Update(func(st *state.State) { st.Page.Home.Scroll = tt.scroll })

			m.HandleKey(level(5))

			if got := home(store); got != tt.want {
				t.Errorf("sub = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubStateStaysInBounds(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(7))

	seq := []int{5, 5, 5, 5, 5, 0, 2, 5, 5, 0, 0, 0, 4, 1}
	for _, l := range seq {
		m.HandleKey(level(l))
		m.Heartbeat()
		got := home(store)
		if got.Selected < 0 || got.Selected > 7 || got.Scroll < 0 || got.Scroll > 7 {
			t.Fatalf("after level %d: sub = %+v out of [0, 7]", l, got)
		}
	}

	store.SetNotifications(notifications(2))
	m.HandleKey(level(5))
	if got := home(store); got.Selected > 2 || got.Scroll > 2 {
		t.Errorf("after shrink: sub = %+v", got)
	}
}

func TestHeartbeatScrollsBackToTop(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(10))

	for i := 0; i < 6; i++ {
		m.HandleKey(level(5))
		m.Heartbeat()
	}
	if got := home(store); got.Scroll == 0 {
		t.Fatalf("sub = %+v, want scrolled down", got)
	}

	m.HandleKey(level(0))
	for i := 0; i < 30; i++ {
		m.Heartbeat()
	}

	if got := home(store); got.Scroll != 0 || got.Selected != 0 {
		t.Errorf("sub = %+v, want back at top", got)
	}
}

func TestHeartbeatBottomAdvancesScroll(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(10))
	m.HandleKey(level(5))

	m.Heartbeat()
	m.Heartbeat()

	if got := home(store); got.Scroll != 2 {
		t.Errorf("Scroll = %d, want 2", got.Scroll)
	}
}

func TestHeartbeatNoopAtMiddleLevels(t *testing.T) {
	m, store, _ := newMachine(t, false)
	store.SetNotifications(notifications(10))
	store.Update(func(st *state.State) { st.Page.Home = state.SubState{Slider: 2, Selected: 2, Scroll: 4} })

	m.Heartbeat()

	if got := home(store); got != (state.SubState{Slider: 2, Selected: 2, Scroll: 4}) {
		t.Errorf("sub = %+v, want unchanged", got)
	}
}

func TestHeartbeatNoopOnShortcuts(t *testing.T) {
	m, store, _ := newMachine(t, false)
	m.HandleKey(key(input.Key4))
	m.HandleKey(key(input.Key1))
	before := store.Snapshot().Page

	m.Heartbeat()

	if after := store.Snapshot().Page; after != before {
		t.Errorf("page = %+v, want %+v", after, before)
	}
}

func TestHomeExecuteJoins(t *testing.T) {
	m, store, l := newMachine(t, false)

	m.HandleKey(key(input.Execute))
	if len(l.urls) != 0 {
		t.Fatalf("opened %v with no calendar pick", l.urls)
	}

	store.SetCalendar(&calendar.Event{Title: "sync"})
	m.HandleKey(key(input.Execute))
	if len(l.urls) != 0 {
		t.Fatalf("opened %v without quick-join", l.urls)
	}

	join := "zoomus://zoom.us/join?action=join&confno=1&pwd=p"
	store.SetCalendar(&calendar.Event{Title: "sync", JoinURL: join})
	m.HandleKey(key(input.Execute))
	m.HandleKey(key(input.Key1))
	if len(l.urls) != 2 || l.urls[0] != join || l.urls[1] != join {
		t.Errorf("urls = %v, want two joins", l.urls)
	}
}

func TestHomeNavigation(t *testing.T) {
	m, store, _ := newMachine(t, false)

	m.HandleKey(key(input.Key3))
	m.HandleKey(key(input.Abort))
	m.HandleKey(key(input.Danger))
	if got := store.Snapshot().Page.Kind; got != state.Home {
		t.Fatalf("page = %s, want home", got)
	}

	m.HandleKey(key(input.Key2))
	if got := store.Snapshot().Page.Kind; got != state.PullRequests {
		t.Fatalf("page = %s, want pull_requests", got)
	}
	m.HandleKey(key(input.Key4))
	if got := store.Snapshot().Page.Kind; got != state.PullRequests {
		t.Errorf("Key4 on pull requests moved to %s", got)
	}
	m.HandleKey(key(input.Abort))
	m.HandleKey(key(input.Key4))
	if got := store.Snapshot().Page.Kind; got != state.Shortcuts {
		t.Errorf("page = %s, want shortcuts", got)
	}
}

func TestPullRequestsListsAndExecute(t *testing.T) {
	m, store, l := newMachine(t, false)
	store.SetPullRequests(github.ListOpen, pulls("open", 3))
	store.SetPullRequests(github.ListClosed, pulls("closed", 8))
	store.SetPullRequests(github.ListReview, pulls("review", 1))

	m.HandleKey(key(input.Key2))
	m.HandleKey(level(2))
	m.HandleKey(key(input.Execute))
	if len(l.urls) != 1 || l.urls[0] != "open/c" {
		t.Fatalf("urls = %v, want [open/c]", l.urls)
	}

	m.HandleKey(key(input.Key2))
	snap := store.Snapshot()
	if snap.Page.PRs.List != github.ListClosed || snap.Page.PRs.SubState != (state.SubState{}) {
		t.Errorf("after Key2: prs = %+v", snap.Page.PRs)
	}

	store.Update(func(st *state.State) { st.Page.PRs.SubState = state.SubState{Selected: 2, Scroll: 3} })
	m.HandleKey(key(input.Execute))
	if got := l.urls[len(l.urls)-1]; got != "closed/f" {
		t.Errorf("opened %q, want closed/f (Selected+Scroll)", got)
	}

	m.HandleKey(key(input.Key3))
	m.HandleKey(level(4))
	m.HandleKey(key(input.Execute))
	if len(l.urls) != 2 {
		t.Errorf("urls = %v, want no open past end of review list", l.urls)
	}
}

func TestShortcutsTwoPhase(t *testing.T) {
	m, store, l := newMachine(t, false)
	m.HandleKey(key(input.Key4))

	m.HandleKey(key(input.Key1))
	if g, ok := store.Snapshot().Page.Shortcuts.Selected(); !ok || g != 0 {
		t.Fatalf("selected = %d, %v, want group 0", g, ok)
	}

	m.HandleKey(key(input.Key3))
	if len(l.runs) != 1 || strings.Join(l.runs[0], " ") != "flameshot gui" {
		t.Fatalf("runs = %v, want [flameshot gui]", l.runs)
	}
	if _, ok := store.Snapshot().Page.Shortcuts.Selected(); ok {
		t.Error("page should return to idle after running")
	}

	m.HandleKey(key(input.Key2))
	m.HandleKey(key(input.Key2))
	if len(l.runs) != 1 {
		t.Errorf("runs = %v, missing slot must not run", l.runs)
	}
	if _, ok := store.Snapshot().Page.Shortcuts.Selected(); ok {
		t.Error("missing slot should still return to idle")
	}

	m.HandleKey(key(input.Key3))
	if _, ok := store.Snapshot().Page.Shortcuts.Selected(); ok {
		t.Error("selecting a missing group should stay idle")
	}
}

func TestShortcutsAbort(t *testing.T) {
	m, store, l := newMachine(t, false)
	m.HandleKey(key(input.Key4))
	m.HandleKey(key(input.Key2))

	m.HandleKey(key(input.Abort))
	snap := store.Snapshot()
	if snap.Page.Kind != state.Shortcuts {
		t.Fatalf("first abort left shortcuts: %s", snap.Page.Kind)
	}
	if _, ok := snap.Page.Shortcuts.Selected(); ok {
		t.Error("first abort should clear the selection")
	}

	m.HandleKey(key(input.Abort))
	if got := store.Snapshot().Page.Kind; got != state.Home {
		t.Errorf("second abort: page = %s, want home", got)
	}
	if len(l.runs) != 0 {
		t.Errorf("abort ran %v", l.runs)
	}

	m.HandleKey(key(input.Key4))
	m.HandleKey(key(input.Key1))
	m.HandleKey(key(input.Key4))
	if got := store.Snapshot().Page.Kind; got != state.Home {
		t.Errorf("Key4: page = %s, want home", got)
	}
}

func TestPagePolicy(t *testing.T) {
	tests := []struct {
		preserve bool
		want     state.SubState
		wantList github.PullRequestList
	}{
		{false, state.SubState{}, github.ListOpen},
		{true, state.SubState{Slider: 3, Selected: 3}, github.ListClosed},
	}
	for _, tt := range tests {
		m, store, _ := newMachine(t, tt.preserve)
		store.SetNotifications(notifications(10))
		store.SetPullRequests(github.ListClosed, pulls("closed", 10))

		m.HandleKey(level(3))
		m.HandleKey(key(input.Key2))
		m.HandleKey(key(input.Key2))
		m.HandleKey(level(3))
		m.HandleKey(key(input.Abort))

		if got := home(store); got != tt.want {
			t.Errorf("preserve=%v: home = %+v, want %+v", tt.preserve, got, tt.want)
		}

		m.HandleKey(key(input.Key2))
		prs := store.Snapshot().Page.PRs
		if prs.List != tt.wantList || prs.SubState != tt.want {
			t.Errorf("preserve=%v: prs = %+v", tt.preserve, prs)
		}
	}
}

// lockCheckHandler records, for every log record, whether the store could
// be read while the record was being written.
type lockCheckHandler struct {
	store *state.Store

	mu      sync.Mutex
	msgs    []string
	blocked []string
}

func (h *lockCheckHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *lockCheckHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *lockCheckHandler) WithGroup(string) slog.Handler { return h }

func (h *lockCheckHandler) Handle(_ context.Context, r slog.Record) error {
	read := make(chan struct{})
	go func() {
		h.store.Snapshot()
		close(read)
	}()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, r.Message)
	select {
	case <-read:
	case <-time.After(200 * time.Millisecond):
		h.blocked = append(h.blocked, r.Message)
	}
	return nil
}

func TestLoggingHappensOutsideStoreLock(t *testing.T) {
	store := state.NewStore(testGroups)
	h := &lockCheckHandler{store: store}
	m := New(store, &fakeLauncher{}, false, slog.New(h))

	m.HandleKey(key(input.Danger))
	m.HandleKey(key(input.Key4))
	m.HandleKey(key(input.Key1))
	m.HandleKey(key(input.Key2))

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, want := range []string{"danger key ignored", "shortcut"} {
		found := false
		for _, msg := range h.msgs {
			if msg == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing log record %q in %v", want, h.msgs)
		}
	}
	if len(h.blocked) > 0 {
		t.Errorf("records written while the store was locked: %v", h.blocked)
	}
}
