// Package tui renders the application screens and translates key presses
// into holder intents. Intents run as commands off the render loop; their
// completion messages trigger a re-read of the holder snapshots.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"dailybalance/internal/core"
	"dailybalance/internal/export"
	"dailybalance/internal/log"
	"dailybalance/internal/state"
)

// Holders groups the view-state holders the UI renders from.
type Holders struct {
	App            *state.AppHolder
	Records        *state.RecordsHolder
	ExpenseEntry   *state.ExpenseEntryHolder
	ExpenseRecords *state.ExpenseRecordsHolder
	Food           *state.FoodHolder
}

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx     context.Context
	holders Holders
	saver   export.Saver
	logger  *log.Logger

	width  int
	height int

	// Per-screen UI state not owned by the holders.
	focus      int // focused field on the expense entry screen
	cursor     int // selected row on list screens
	originIdx  int // selected origin option
	amount     textField
	category   textField
	food       textField
	savePrompt *savePrompt
	status     string
	errText    string
}

// savePrompt is the host side of the export flow: the user confirms or
// edits the suggested filename, or cancels.
type savePrompt struct {
	request  state.ExportRequest
	filename textField
}

type (
	// refreshedMsg signals that an intent completed and snapshots changed.
	refreshedMsg struct{}

	// holderUpdatedMsg re-arms a holder subscription.
	holderUpdatedMsg struct {
		ch <-chan struct{}
	}

	errMsg struct {
		err error
	}

	expenseRegisteredMsg struct {
		inserted bool
	}

	exportDoneMsg struct {
		token uuid.UUID
		dest  string
		err   error
	}
)

func NewModel(ctx context.Context, holders Holders, saver export.Saver, logger *log.Logger) Model {
	return Model{
		ctx:     ctx,
		holders: holders,
		saver:   saver,
		logger:  logger.WithComponent(log.ComponentTUI),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.intent(m.holders.App.LoadDarkMode),
		m.intent(m.holders.Records.RefreshHomeStats),
		listen(m.holders.App.Updates()),
		listen(m.holders.Records.Updates()),
		listen(m.holders.ExpenseEntry.Updates()),
		listen(m.holders.ExpenseRecords.Updates()),
		listen(m.holders.Food.Updates()),
	)
}

// intent wraps a holder call into a command running off the render loop.
func (m Model) intent(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err: err}
		}
		return refreshedMsg{}
	}
}

// listen waits for the next coalesced holder update.
func listen(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return holderUpdatedMsg{ch: ch}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case holderUpdatedMsg:
		return m, listen(msg.ch)

	case refreshedMsg:
		return m, nil

	case errMsg:
		m.errText = msg.err.Error()
		m.logger.ErrorContext(m.ctx, "Intent failed", log.FieldError, msg.err)
		return m, nil

	case expenseRegisteredMsg:
		if msg.inserted {
			m.amount.value = ""
			m.category.value = ""
			m.holders.App.ShowMessage("Gasto diario registrado!")
		}
		return m, nil

	case exportDoneMsg:
		m.holders.App.AckExport(msg.token)
		m.savePrompt = nil
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.status = "Exported to " + msg.dest
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// The save prompt captures all keys while open.
	if m.savePrompt != nil {
		return m.handleSavePromptKey(msg)
	}

	m.errText = ""

	switch m.holders.App.Snapshot().Screen {
	case state.ScreenHome:
		return m.handleHomeKey(msg)
	case state.ScreenFood:
		return m.handleFoodKey(msg)
	case state.ScreenExpense:
		return m.handleExpenseKey(msg)
	case state.ScreenRecords:
		return m.handleRecordsKey(msg)
	case state.ScreenExpenseRecords:
		return m.handleExpenseRecordsKey(msg)
	case state.ScreenTodayRecords:
		return m.handleTodayRecordsKey(msg)
	case state.ScreenMessage:
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, m.intent(m.holders.Records.RefreshHomeStats)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		return m, m.registerAction(core.ActionCigarette, "")
	case "b":
		return m, m.registerAction(core.ActionBeer, "")
	case "f":
		m.food.value = ""
		m.holders.Food.Reset()
		m.holders.App.NavigateTo(state.ScreenFood)
		return m, nil
	case "e":
		m.focus = 0
		m.originIdx = 0
		m.amount.value = ""
		m.category.value = ""
		m.holders.ExpenseEntry.Reset()
		// The origin selector always shows an option, so the holder must
		// start on that option or the screen would lie about it.
		if options := m.holders.ExpenseEntry.Snapshot().OriginOptions; len(options) > 0 {
			m.holders.ExpenseEntry.SetOrigin(options[0])
		}
		m.holders.App.NavigateTo(state.ScreenExpense)
		return m, m.intent(m.holders.ExpenseEntry.RefreshSuggestions)
	case "r":
		m.cursor = 0
		m.holders.App.NavigateTo(state.ScreenRecords)
		return m, m.intent(m.holders.Records.RequestRecords)
	case "x":
		m.cursor = 0
		m.holders.App.NavigateTo(state.ScreenExpenseRecords)
		return m, m.intent(m.holders.ExpenseRecords.Request)
	case "t":
		m.cursor = 0
		m.holders.App.NavigateTo(state.ScreenTodayRecords)
		return m, m.intent(func(ctx context.Context) error {
			return m.holders.Records.RequestTodayByType(ctx, core.ActionCigarette)
		})
	case "d":
		return m, m.intent(m.holders.App.ToggleDarkMode)
	}
	return m, nil
}

func (m Model) registerAction(typ, description string) tea.Cmd {
	return m.intent(func(ctx context.Context) error {
		return m.holders.Records.RegisterAction(ctx, typ, description)
	})
}

func (m Model) handleFoodKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, nil
	case tea.KeyEnter:
		m.holders.Food.SetDescription(m.food.value)
		m.food.value = ""
		return m, m.intent(func(ctx context.Context) error {
			if err := m.holders.Food.RegisterFood(ctx); err != nil {
				return err
			}
			m.holders.Food.Reset()
			m.holders.App.ShowMessage("Comida registrada!")
			return nil
		})
	}
	if m.food.handleKey(msg) {
		return m, nil
	}
	return m, nil
}

const expenseFieldCount = 3 // amount, category, origin

func (m Model) handleExpenseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entry := m.holders.ExpenseEntry

	switch msg.Type {
	case tea.KeyEsc:
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, nil
	case tea.KeyTab:
		m.focus = (m.focus + 1) % expenseFieldCount
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus + expenseFieldCount - 1) % expenseFieldCount
		return m, nil
	case tea.KeyEnter:
		return m, m.registerExpense()
	}

	snap := entry.Snapshot()
	switch m.focus {
	case 0:
		if m.amount.handleKey(msg) {
			entry.SetAmountText(m.amount.value)
		}
	case 1:
		if m.category.handleKey(msg) {
			entry.SetCategory(m.category.value)
		}
	case 2:
		options := snap.OriginOptions
		if len(options) == 0 {
			return m, nil
		}
		switch msg.String() {
		case "left", "up":
			m.originIdx = (m.originIdx + len(options) - 1) % len(options)
		case "right", "down":
			m.originIdx = (m.originIdx + 1) % len(options)
		default:
			return m, nil
		}
		entry.SetOrigin(options[m.originIdx])
	}
	return m, nil
}

func (m Model) registerExpense() tea.Cmd {
	entry := m.holders.ExpenseEntry
	ctx := m.ctx
	return func() tea.Msg {
		inserted, err := entry.Register(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return expenseRegisteredMsg{inserted: inserted}
	}
}

func (m Model) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.holders.Records.Snapshot()

	switch msg.String() {
	case "esc", "q":
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, m.intent(m.holders.Records.RefreshHomeStats)
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(snap.Records)-1)
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(snap.Records)-1)
		return m, nil
	case "d":
		if m.cursor < len(snap.Records) {
			id := snap.Records[m.cursor].ID
			m.cursor = clamp(m.cursor, 0, len(snap.Records)-2)
			return m, m.intent(func(ctx context.Context) error {
				return m.holders.Records.DeleteByID(ctx, id)
			})
		}
		return m, nil
	case "D":
		m.cursor = 0
		return m, m.intent(m.holders.Records.DeleteAll)
	case "E":
		req := m.holders.App.RequestExport(export.KindRecords)
		m.savePrompt = &savePrompt{request: req, filename: textField{value: req.Filename}}
		return m, nil
	}
	return m, nil
}

func (m Model) handleExpenseRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	holder := m.holders.ExpenseRecords
	snap := holder.Snapshot()

	switch msg.String() {
	case "esc", "q":
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, nil
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(snap.Expenses)-1)
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(snap.Expenses)-1)
		return m, nil
	case "s":
		holder.SetSortKey(nextSortKey(snap.SortKey))
		m.cursor = 0
		return m, nil
	case "d":
		if m.cursor < len(snap.Expenses) {
			victim := snap.Expenses[m.cursor]
			m.cursor = clamp(m.cursor, 0, len(snap.Expenses)-2)
			return m, m.intent(func(ctx context.Context) error {
				return holder.Delete(ctx, victim)
			})
		}
		return m, nil
	case "E":
		req := m.holders.App.RequestExport(export.KindExpenses)
		m.savePrompt = &savePrompt{request: req, filename: textField{value: req.Filename}}
		return m, nil
	}
	return m, nil
}

func nextSortKey(key state.SortKey) state.SortKey {
	switch key {
	case state.SortByDate:
		return state.SortByAmount
	case state.SortByAmount:
		return state.SortByCategory
	default:
		return state.SortByDate
	}
}

func (m Model) handleTodayRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.holders.Records.Snapshot()

	switch msg.String() {
	case "esc", "q":
		m.holders.App.NavigateTo(state.ScreenHome)
		return m, m.intent(m.holders.Records.RefreshHomeStats)
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(snap.TodayRecords)-1)
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(snap.TodayRecords)-1)
		return m, nil
	case "D":
		typ := snap.TodayType
		m.cursor = 0
		return m, m.intent(func(ctx context.Context) error {
			return m.holders.Records.DeleteTodayByType(ctx, typ)
		})
	}
	return m, nil
}

func (m Model) handleSavePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := m.savePrompt

	switch msg.Type {
	case tea.KeyEsc:
		// Cancellation still acknowledges the request so it cannot
		// re-fire.
		m.holders.App.AckExport(prompt.request.Token)
		m.savePrompt = nil
		m.status = "Export cancelled"
		return m, nil
	case tea.KeyEnter:
		if strings.TrimSpace(prompt.filename.value) == "" {
			m.holders.App.AckExport(prompt.request.Token)
			m.savePrompt = nil
			m.status = "Export cancelled"
			return m, nil
		}
		return m, m.performExport(*prompt)
	}

	prompt.filename.handleKey(msg)
	return m, nil
}

func (m Model) performExport(prompt savePrompt) tea.Cmd {
	ctx := m.ctx
	saver := m.saver
	records := m.holders.Records
	expenses := m.holders.ExpenseRecords
	logger := m.logger

	return func() tea.Msg {
		var data string
		switch prompt.request.Kind {
		case export.KindExpenses:
			data = export.ExpensesCSV(expenses.Snapshot().Expenses)
		default:
			data = export.ActionRecordsCSV(records.Snapshot().Records)
		}

		dest, err := saver.Save(ctx, prompt.filename.value, []byte(data))
		if err != nil {
			return exportDoneMsg{token: prompt.request.Token, err: fmt.Errorf("export %s: %w", prompt.request.Kind, err)}
		}

		logger.InfoContext(ctx, "Export written",
			log.FieldExportKind, string(prompt.request.Kind),
			log.FieldFilename, dest)
		return exportDoneMsg{token: prompt.request.Token, dest: dest}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
