package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"dailybalance/internal/state"
)

const listDateLayout = "2006/01/02 15:04"

func (m Model) View() string {
	app := m.holders.App.Snapshot()
	st := newStyles(app.DarkMode)

	var body string
	switch app.Screen {
	case state.ScreenHome:
		body = m.viewHome(st)
	case state.ScreenFood:
		body = m.viewFood(st)
	case state.ScreenExpense:
		body = m.viewExpense(st)
	case state.ScreenRecords:
		body = m.viewRecords(st)
	case state.ScreenExpenseRecords:
		body = m.viewExpenseRecords(st)
	case state.ScreenTodayRecords:
		body = m.viewTodayRecords(st)
	case state.ScreenMessage:
		body = m.viewMessage(st, app.Message)
	}

	if m.savePrompt != nil {
		body = m.viewSavePrompt(st)
	}

	var footer []string
	if m.errText != "" {
		footer = append(footer, st.errText.Render(m.errText))
	}
	if m.status != "" {
		footer = append(footer, st.status.Render(m.status))
	}
	if len(footer) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(footer, "\n"))
	}

	return st.frame.Render(body)
}

func (m Model) viewHome(st styles) string {
	snap := m.holders.Records.Snapshot()

	var b strings.Builder
	b.WriteString(st.title.Render("Daily Balance"))
	b.WriteString("\n")

	if snap.HasLastCigarette {
		since := formatSince(snap.LastCigarette, time.Now())
		b.WriteString(st.banner.Render("Último cigarro hace " + since))
		b.WriteString("\n\n")
	}

	b.WriteString(st.label.Render("Hoy  "))
	b.WriteString(st.value.Render(fmt.Sprintf("cigarros %d  ·  cervezas %d",
		snap.TodayCigarettes, snap.TodayBeers)))
	b.WriteString("\n")

	b.WriteString(st.help.Render(strings.Join([]string{
		"c cigarro · b cerveza · f comida · e gasto",
		"r registros · x gastos · t hoy · d tema · q salir",
	}, "\n")))
	return b.String()
}

func (m Model) viewFood(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("Registrar comida"))
	b.WriteString("\n")
	b.WriteString(st.label.Render("Descripción: "))
	b.WriteString(st.focused.Render(m.food.value + "█"))
	b.WriteString("\n")
	b.WriteString(st.help.Render("enter guardar · esc volver"))
	return b.String()
}

func (m Model) viewExpense(st styles) string {
	snap := m.holders.ExpenseEntry.Snapshot()

	field := func(idx int, label, value string) string {
		line := st.label.Render(label+": ") + st.value.Render(value)
		if m.focus == idx {
			line = st.label.Render(label+": ") + st.focused.Render(value+"█")
		}
		return line
	}

	var b strings.Builder
	b.WriteString(st.title.Render("Registrar gasto diario"))
	b.WriteString("\n")
	b.WriteString(field(0, "Cantidad", m.amount.value))
	b.WriteString("\n")
	b.WriteString(field(1, "Categoría", m.category.value))
	b.WriteString("\n")

	originLine := st.label.Render("Origen: ")
	if m.focus == 2 {
		originLine += st.focused.Render("‹ " + snap.Origin + " ›")
	} else {
		originLine += st.value.Render(snap.Origin)
	}
	b.WriteString(originLine)
	b.WriteString("\n")

	if len(snap.Suggestions) > 0 {
		b.WriteString(st.label.Render("Categorías usadas: "))
		b.WriteString(st.value.Render(strings.Join(snap.Suggestions, ", ")))
		b.WriteString("\n")
	}

	if snap.ShowError {
		b.WriteString(st.errText.Render("Revisa cantidad, categoría y origen"))
		b.WriteString("\n")
	}
	if snap.Submitting {
		b.WriteString(st.label.Render("Guardando..."))
		b.WriteString("\n")
	}

	b.WriteString(st.help.Render("tab campo · ←/→ origen · enter guardar · esc volver"))
	return b.String()
}

func (m Model) viewRecords(st styles) string {
	snap := m.holders.Records.Snapshot()

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Registros (%d)", len(snap.Records))))
	b.WriteString("\n")

	if len(snap.Records) == 0 {
		b.WriteString(st.label.Render("Sin registros"))
		b.WriteString("\n")
	}
	for i, rec := range snap.Records {
		line := fmt.Sprintf("%-10s  %s", rec.Type, formatMillis(rec.Timestamp))
		if rec.Description != "" {
			line += "  " + rec.Description
		}
		b.WriteString(renderRow(st, line, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(st.help.Render("↑/↓ mover · d borrar · D borrar todo · E exportar · esc volver"))
	return b.String()
}

func (m Model) viewExpenseRecords(st styles) string {
	snap := m.holders.ExpenseRecords.Snapshot()

	var total float64
	for _, exp := range snap.Expenses {
		total += exp.Amount
	}

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Gastos diarios (%d) · total %s · orden %s",
		len(snap.Expenses), formatAmount(total), snap.SortKey)))
	b.WriteString("\n")

	if len(snap.Expenses) == 0 {
		b.WriteString(st.label.Render("Sin gastos"))
		b.WriteString("\n")
	}
	for i, exp := range snap.Expenses {
		line := fmt.Sprintf("%8s  %-14s  %s", formatAmount(exp.Amount), exp.Category, formatMillis(exp.Date))
		if exp.Origin != "" {
			line += "  " + exp.Origin
		}
		if exp.Note != "" {
			line += "  " + exp.Note
		}
		b.WriteString(renderRow(st, line, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(st.help.Render("↑/↓ mover · s orden · d borrar · E exportar · esc volver"))
	return b.String()
}

func (m Model) viewTodayRecords(st styles) string {
	snap := m.holders.Records.Snapshot()

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Hoy: %s (%d)", snap.TodayType, len(snap.TodayRecords))))
	b.WriteString("\n")

	if len(snap.TodayRecords) == 0 {
		b.WriteString(st.label.Render("Nada registrado hoy"))
		b.WriteString("\n")
	}
	for i, rec := range snap.TodayRecords {
		b.WriteString(renderRow(st, formatMillis(rec.Timestamp), i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(st.help.Render("D borrar los de hoy · esc volver"))
	return b.String()
}

func (m Model) viewMessage(st styles, message string) string {
	var b strings.Builder
	b.WriteString(st.status.Render(message))
	b.WriteString("\n")
	b.WriteString(st.help.Render("cualquier tecla para continuar"))
	return b.String()
}

func (m Model) viewSavePrompt(st styles) string {
	prompt := m.savePrompt
	var b strings.Builder
	b.WriteString(st.title.Render("Exportar " + string(prompt.request.Kind)))
	b.WriteString("\n")
	b.WriteString(st.label.Render("Archivo: "))
	b.WriteString(st.focused.Render(prompt.filename.value + "█"))
	b.WriteString("\n")
	b.WriteString(st.help.Render("enter guardar · esc cancelar"))
	return st.prompt.Render(b.String())
}

func renderRow(st styles, line string, selected bool) string {
	if selected {
		return st.selected.Render("> " + line)
	}
	return st.value.Render("  " + line)
}

// formatSince renders the age of a millisecond timestamp as the largest
// two useful units, e.g. "3h 12m" or "2d 5h".
func formatSince(millis int64, now time.Time) string {
	elapsed := now.Sub(time.UnixMilli(millis))
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		h := int(elapsed.Hours())
		min := int(elapsed.Minutes()) - h*60
		return fmt.Sprintf("%dh %dm", h, min)
	default:
		d := int(elapsed.Hours()) / 24
		h := int(elapsed.Hours()) - d*24
		return fmt.Sprintf("%dd %dh", d, h)
	}
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).Format(listDateLayout)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + "€"
}
