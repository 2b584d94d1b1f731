package tui

import "github.com/reallife-app/reallife/internal/wizard"

// ViewMode selects how the community step is drawn.
type ViewMode int

const (
	ViewBubbles ViewMode = iota // freeform bubble canvas
	ViewList                    // grouped checklist
)

// String returns the display name for a view mode.
func (v ViewMode) String() string {
	switch v {
	case ViewBubbles:
		return "bubbles"
	case ViewList:
		return "list"
	default:
		return "unknown"
	}
}

// --- Inter-component messages ---

// ToggleMsg is emitted when the user toggles a community in either view.
type ToggleMsg struct{ ID string }

// SubmitDoneMsg carries the classified result of a submission.
type SubmitDoneMsg struct{ Outcome wizard.Outcome }

// OverlayCloseMsg is emitted when any overlay is dismissed.
type OverlayCloseMsg struct {
	Confirmed bool // true = OK, false = Cancel/Esc
}

// SelectionSummary carries counts for the status bar.
type SelectionSummary struct {
	Selected int
	Total    int
	Step     wizard.Step
	Mode     ViewMode
}
