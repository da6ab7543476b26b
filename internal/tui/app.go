package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tileshell/internal/shell"
)

type stateMsg struct {
	state *shell.State
	err   error
}

type tickMsg time.Time

type execDoneMsg struct {
	command string
	err     error
}

// keyCommands maps keys to shell command lines run on the focused output.
var keyCommands = map[string]string{
	"l":     "tile next",
	"right": "tile next",
	"h":     "tile prev",
	"left":  "tile prev",
	"]":     "workspace next",
	"[":     "workspace prev",
	"v":     "tile split vertical",
	"s":     "tile split horizontal",
	"x":     "tile remove",
	">":     "tile swap next",
	"<":     "tile swap prev",
	"a":     "arrange",
}

// model is the root bubbletea model for the layout viewer.
type model struct {
	client  Client
	refresh time.Duration

	state     *shell.State
	connected bool
	lastError string
	fatal     error

	// active indexes state.Outputs; -1 until the first snapshot arrives.
	active int

	width  int
	height int
}

func newModel(client Client, refresh time.Duration) model {
	return model{client: client, refresh: refresh, active: -1}
}

func (m model) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		st, err := client.GetState()
		return stateMsg{state: st, err: err}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) run(fn func() error, command string) tea.Cmd {
	return func() tea.Msg {
		return execDoneMsg{command: command, err: fn()}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		if msg.err != nil {
			m.connected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.connected = true
		m.state = msg.state
		m.clampActive()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case execDoneMsg:
		if msg.err != nil {
			m.lastError = fmt.Sprintf("%s: %v", msg.command, msg.err)
		} else {
			m.lastError = ""
		}
		return m, m.fetch()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.cycleOutput(1)
		return m, nil
	case "shift+tab":
		m.cycleOutput(-1)
		return m, nil
	case "r":
		return m, m.fetch()
	}

	if line, ok := keyCommands[key]; ok {
		client := m.client
		return m, m.run(func() error { return client.Exec(line) }, line)
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		out := m.activeOutput()
		if out == nil {
			return m, nil
		}
		client, name, index := m.client, out.Name, n-1
		return m, m.run(func() error { return client.FocusWorkspace(name, index) },
			fmt.Sprintf("workspace focus %d", index))
	}
	return m, nil
}

func (m *model) clampActive() {
	if m.state == nil || len(m.state.Outputs) == 0 {
		m.active = -1
		return
	}
	if m.active >= 0 && m.active < len(m.state.Outputs) {
		return
	}
	m.active = 0
	for i, o := range m.state.Outputs {
		if o.Name == m.state.FocusedOutput {
			m.active = i
			break
		}
	}
}

func (m *model) cycleOutput(delta int) {
	if m.state == nil || len(m.state.Outputs) == 0 {
		return
	}
	n := len(m.state.Outputs)
	m.active = ((m.active+delta)%n + n) % n
}

func (m model) activeOutput() *shell.OutputState {
	if m.state == nil || m.active < 0 || m.active >= len(m.state.Outputs) {
		return nil
	}
	return &m.state.Outputs[m.active]
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.state, m.width)
	var names []string
	if m.state != nil {
		for _, o := range m.state.Outputs {
			names = append(names, o.Name)
		}
	}
	tabBar := renderTabBar(names, m.active, m.width)
	helpBar := renderHelpBar(m.lastError, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	if out := m.activeOutput(); out != nil {
		content = renderOutput(*out, m.width, contentHeight)
	} else {
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("no outputs"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}
