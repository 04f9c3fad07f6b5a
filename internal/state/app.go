package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dailybalance/internal/export"
	"dailybalance/internal/prefs"
)

// Screen identifies one of the fixed application screens. There is no
// back-stack; "back" is an explicit navigation to home.
type Screen string

const (
	ScreenHome           Screen = "home"
	ScreenFood           Screen = "food"
	ScreenExpense        Screen = "expense"
	ScreenRecords        Screen = "records"
	ScreenExpenseRecords Screen = "expense-records"
	ScreenTodayRecords   Screen = "today-records"
	ScreenMessage        Screen = "message"
)

// ExportRequest is a one-shot command to the host: perform a save of the
// named kind. The token ties the later acknowledgment to this exact
// request so a handled request can never re-fire.
type ExportRequest struct {
	Token    uuid.UUID
	Kind     export.Kind
	Filename string
	MIME     string
}

// AppSnapshot is a copy of the shell state.
type AppSnapshot struct {
	Screen   Screen
	Message  string
	DarkMode bool

	PendingExport ExportRequest
	HasExport     bool
}

// AppHolder is the top-level shell state: current screen, transient
// message, theme flag and pending export request.
type AppHolder struct {
	prefs *prefs.Store
	now   func() time.Time

	mu   sync.Mutex
	snap AppSnapshot

	notifier notifier
}

func NewAppHolder(prefStore *prefs.Store) *AppHolder {
	return &AppHolder{
		prefs: prefStore,
		now:   time.Now,
		snap:  AppSnapshot{Screen: ScreenHome},
	}
}

func (h *AppHolder) Updates() <-chan struct{} {
	return h.notifier.subscribe()
}

func (h *AppHolder) Snapshot() AppSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}

// NavigateTo switches the current screen.
func (h *AppHolder) NavigateTo(screen Screen) {
	h.mu.Lock()
	h.snap.Screen = screen
	h.mu.Unlock()
	h.notifier.notify()
}

// ShowMessage sets the transient message and switches to the message
// screen.
func (h *AppHolder) ShowMessage(msg string) {
	h.mu.Lock()
	h.snap.Message = msg
	h.snap.Screen = ScreenMessage
	h.mu.Unlock()
	h.notifier.notify()
}

// RequestExport arms a one-shot export request. A request already pending
// is replaced; its token becomes stale and its acknowledgment will be
// ignored.
func (h *AppHolder) RequestExport(kind export.Kind) ExportRequest {
	req := ExportRequest{
		Token:    uuid.New(),
		Kind:     kind,
		Filename: export.SuggestedFilename(kind, h.now()),
		MIME:     export.MIMEType,
	}

	h.mu.Lock()
	h.snap.PendingExport = req
	h.snap.HasExport = true
	h.mu.Unlock()
	h.notifier.notify()

	return req
}

// PendingExport returns the armed request, if any.
func (h *AppHolder) PendingExport() (ExportRequest, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap.PendingExport, h.snap.HasExport
}

// AckExport clears the pending request if the token matches. Called by the
// host after the save completed or the user cancelled; either way the
// request must not fire again.
func (h *AppHolder) AckExport(token uuid.UUID) bool {
	h.mu.Lock()
	if !h.snap.HasExport || h.snap.PendingExport.Token != token {
		h.mu.Unlock()
		return false
	}
	h.snap.PendingExport = ExportRequest{}
	h.snap.HasExport = false
	h.mu.Unlock()
	h.notifier.notify()
	return true
}

// LoadDarkMode reads the persisted theme flag into the snapshot.
func (h *AppHolder) LoadDarkMode(ctx context.Context) error {
	dark, err := h.prefs.DarkMode(ctx)
	if err != nil {
		return fmt.Errorf("load dark mode: %w", err)
	}

	h.mu.Lock()
	h.snap.DarkMode = dark
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}

// ToggleDarkMode flips and persists the theme flag.
func (h *AppHolder) ToggleDarkMode(ctx context.Context) error {
	h.mu.Lock()
	next := !h.snap.DarkMode
	h.mu.Unlock()

	if err := h.prefs.SetDarkMode(ctx, next); err != nil {
		return err
	}

	h.mu.Lock()
	h.snap.DarkMode = next
	h.mu.Unlock()
	h.notifier.notify()

	return nil
}
