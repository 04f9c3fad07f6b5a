package tui

import tea "github.com/charmbracelet/bubbletea"

// textField is a minimal single-line input: append runes, backspace, space.
type textField struct {
	value string
}

// handleKey applies a key press and reports whether it was consumed.
func (f *textField) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.value += string(msg.Runes)
		return true
	case tea.KeySpace:
		f.value += " "
		return true
	case tea.KeyBackspace:
		if f.value != "" {
			runes := []rune(f.value)
			f.value = string(runes[:len(runes)-1])
		}
		return true
	}
	return false
}
