// Package ui is the Bubble Tea front end of the dashboard. The Update
// loop is the single logical thread the view state is written from; the
// actual fetches run inside tea.Cmd goroutines and report back through
// messages, with the controller's tokens resolving any overlap.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/controller"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
)

const fetchTimeout = 45 * time.Second

type tickMsg time.Time

type refreshedMsg struct {
	applied bool
}

type detailMsg struct {
	applied bool
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctrl     *controller.Controller
	src      controller.MarketSource
	interval time.Duration

	search    textinput.Model
	searching bool
	cursor    int

	width  int
	height int
}

// New builds the dashboard model.
func New(ctrl *controller.Controller, src controller.MarketSource, pollInterval time.Duration) Model {
	search := textinput.New()
	search.Placeholder = "name or symbol"
	search.Prompt = "search: "
	search.CharLimit = 40

	return Model{
		ctrl:     ctrl,
		src:      src,
		interval: pollInterval,
		search:   search,
	}
}

// Init fires the startup refresh and starts the poll timer. The tick
// chain dies with the program, so tearing down the view stops the timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd(m.interval))
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	ctrl, src := m.ctrl, m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return refreshedMsg{applied: ctrl.Refresh(ctx, src)}
	}
}

func (m Model) detailCmd(id string) tea.Cmd {
	ctrl, src := m.ctrl, m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return detailMsg{applied: ctrl.FetchDetail(ctx, src, id)}
	}
}

// visible returns the filtered grid rows for the current search term.
func (m Model) visible() []domain.AssetSummary {
	st := m.ctrl.State()
	return domain.Filter(st.List, st.SearchTerm)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		// Periodic refresh plus the next tick.
		return m, tea.Batch(m.refreshCmd(), tickCmd(m.interval))

	case refreshedMsg, detailMsg:
		// State lives in the controller; the next View() call reads it.
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keypress dismisses a transient notice.
	m.ctrl.ClearNotice()

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "r":
		// Manual refresh doubles as the retry action after an error.
		return m, m.refreshCmd()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		rows := m.visible()
		if m.cursor >= 0 && m.cursor < len(rows) {
			return m, m.detailCmd(rows[m.cursor].ID)
		}
		return m, nil

	case "esc":
		if m.ctrl.State().Selected != nil {
			m.ctrl.Deselect()
			return m, nil
		}
		if m.ctrl.State().SearchTerm != "" {
			m.search.SetValue("")
			m.ctrl.SetSearch("")
			m.clampCursor()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.SetSearch("")
		m.clampCursor()
		return m, nil

	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.clampCursor()
	return m, cmd
}

// clampCursor keeps the selection inside the (possibly shrunken) filtered
// list.
func (m *Model) clampCursor() {
	n := len(m.visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
