package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives rofi, fuzzel, wofi or dmenu in dmenu mode: items go in on
// stdin, one per line, and the selection comes back on stdout.
type launcher struct {
	command string
	// byIndex launchers print the selected row number instead of its text.
	byIndex bool
	markup  bool
}

func newLauncher(command string) *launcher {
	switch command {
	case "rofi":
		return &launcher{command: command, byIndex: true, markup: true}
	case "fuzzel":
		return &launcher{command: command, byIndex: true}
	default:
		return &launcher{command: command}
	}
}

func (l *launcher) args(prompt string, items []Item) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows"}
		var active []string
		for i, it := range items {
			if it.IsActive && !it.IsHeader {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		return args
	case "fuzzel":
		return []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

// rows renders one input line per item. Text-matching launchers get
// unique labels so the selection can be mapped back.
func (l *launcher) rows(items []Item) []string {
	rows := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		label := sanitizeLabel(it.Label)
		if !l.byIndex && !it.IsHeader {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[sanitizeLabel(it.Label)]++
		}
		switch {
		case l.markup && it.IsHeader:
			label = "<b>" + html.EscapeString(label) + "</b>\x00nonselectable\x1ftrue"
		case l.markup:
			label = html.EscapeString(label)
		case it.IsHeader:
			label = "── " + label + " ──"
		}
		rows[i] = label
	}
	return rows
}

// Show implements Backend.
func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := l.rows(items)

	cmd := exec.Command(l.command, l.args(prompt, items)...)
	cmd.Stdin = strings.NewReader(strings.Join(rows, "\n"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, items, rows)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) parseSelection(selection string, items []Item, rows []string) (Item, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, row := range rows {
		if strings.TrimSpace(row) == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\x00", " ")
	label = strings.ReplaceAll(label, "\x1f", " ")
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimRight(label, " ")
}

// isCancelExit reports the launcher exit codes for "no selection" (1) and
// Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	}
	return false
}
