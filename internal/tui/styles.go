package tui

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for one theme. A fresh set is built
// whenever the dark-mode flag flips.
type styles struct {
	title    lipgloss.Style
	banner   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	focused  lipgloss.Style
	errText  lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
	frame    lipgloss.Style
	prompt   lipgloss.Style
}

func newStyles(dark bool) styles {
	var (
		accent  = lipgloss.Color("205")
		warm    = lipgloss.Color("214")
		good    = lipgloss.Color("42")
		bad     = lipgloss.Color("196")
		muted   = lipgloss.Color("245")
		text    = lipgloss.Color("252")
		border  = lipgloss.Color("240")
		surface = lipgloss.Color("236")
	)
	if !dark {
		accent = lipgloss.Color("161")
		warm = lipgloss.Color("130")
		good = lipgloss.Color("28")
		bad = lipgloss.Color("124")
		muted = lipgloss.Color("243")
		text = lipgloss.Color("235")
		border = lipgloss.Color("250")
		surface = lipgloss.Color("254")
	}

	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		banner:   lipgloss.NewStyle().Foreground(warm).Bold(true),
		label:    lipgloss.NewStyle().Foreground(muted),
		value:    lipgloss.NewStyle().Foreground(text),
		selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		focused:  lipgloss.NewStyle().Foreground(good).Bold(true),
		errText:  lipgloss.NewStyle().Foreground(bad),
		status:   lipgloss.NewStyle().Foreground(good),
		help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		frame:    lipgloss.NewStyle().Padding(1, 2),
		prompt: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Background(surface).
			Padding(1, 2),
	}
}
