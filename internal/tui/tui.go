package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcin-skalski/statusdeck/internal/input"
)

type SnapshotProvider interface {
	GetSnapshot() Snapshot
}

// KeyHandler receives logical keys typed on the keyboard.
type KeyHandler interface {
	HandleKey(k input.Key)
}

type Model struct {
	provider        SnapshotProvider
	handler         KeyHandler
	snapshot        Snapshot
	refreshInterval time.Duration
	keys            keyMap
	// slider is the raw position of the emulated slider; 5 is the top.
	slider int
	width  int
	height int
}

type tickMsg time.Time

// RefreshMsg asks the model to re-read the snapshot immediately.
type RefreshMsg struct{}

func NewModel(provider SnapshotProvider, handler KeyHandler, refreshInterval time.Duration) Model {
	return Model{
		provider:        provider,
		handler:         handler,
		snapshot:        provider.GetSnapshot(),
		refreshInterval: refreshInterval,
		keys:            newKeyMap(),
		slider:          input.SliderPositions - 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.refreshInterval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
		case key.Matches(msg, m.keys.Page):
			if k, ok := input.PageKey(int(msg.String()[0] - '0')); ok {
				m.handler.HandleKey(k)
			}
		case key.Matches(msg, m.keys.Abort):
			m.handler.HandleKey(input.Key{Kind: input.Abort})
		case key.Matches(msg, m.keys.Execute):
			m.handler.HandleKey(input.Key{Kind: input.Execute})
		case key.Matches(msg, m.keys.SliderUp):
			m.slider = min(m.slider+1, input.SliderPositions-1)
			m.handler.HandleKey(input.SliderAt(m.slider))
		case key.Matches(msg, m.keys.SliderDown):
			m.slider = max(m.slider-1, 0)
			m.handler.HandleKey(input.SliderAt(m.slider))
		default:
			return m, nil
		}
		m.snapshot = m.provider.GetSnapshot()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case RefreshMsg:
		m.snapshot = m.provider.GetSnapshot()
		return m, nil

	case tickMsg:
		m.snapshot = m.provider.GetSnapshot()
		return m, tickCmd(m.refreshInterval)
	}

	return m, nil
}

func (m Model) View() string {
	return renderView(m.snapshot, m.width, m.height, m.keys)
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
