package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tileshell/internal/shell"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250"))
)

// renderTabBar renders one tab per output.
func renderTabBar(names []string, active, width int) string {
	if len(names) == 0 {
		return tabBarStyle.Render(dimStyle.Render("waiting for outputs"))
	}
	var tabs []string
	for i, name := range names {
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	row := strings.Join(tabs, tabGap.String())
	if gap := width - lipgloss.Width(row); gap > 0 {
		row += tabGap.Render(strings.Repeat(" ", gap-1))
	}
	return tabBarStyle.Render(row)
}

// renderStatusBar shows daemon connectivity and the focused output.
func renderStatusBar(connected bool, state *shell.State, width int) string {
	var b strings.Builder
	b.WriteString(" tileshell ")
	if connected {
		b.WriteString(okStyle.Render("● daemon"))
	} else {
		b.WriteString(errStyle.Render("○ daemon not running"))
	}
	if state != nil && state.FocusedOutput != "" {
		for _, o := range state.Outputs {
			if o.Name == state.FocusedOutput {
				fmt.Fprintf(&b, "  focused %s ws %d", o.Name, o.CurrentWorkspace)
				break
			}
		}
	}
	if state != nil && len(state.DetachedViews) > 0 {
		fmt.Fprintf(&b, "  %d detached", len(state.DetachedViews))
	}
	return barStyle.Width(width).Render(b.String())
}

// renderHelpBar lists the key bindings, or the last command error.
func renderHelpBar(lastError string, width int) string {
	if lastError != "" {
		return barStyle.Width(width).Render(" " + errStyle.Render(lastError))
	}
	help := " tab output • h/l tile • [/] workspace • 1-9 focus ws • v/s split • x remove • </> swap • a arrange • q quit"
	return barStyle.Width(width).Render(help)
}
