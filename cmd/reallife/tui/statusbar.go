package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/reallife-app/reallife/internal/wizard"
)

// StatusBar renders the bottom row with selection counts and keyboard shortcuts.
type StatusBar struct {
	summary SelectionSummary
	busy    bool
	width   int
}

// NewStatusBar creates a status bar with default values.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// Update refreshes the status bar with a new selection summary.
func (s *StatusBar) Update(summary SelectionSummary, busy bool) {
	s.summary = summary
	s.busy = busy
}

func (s StatusBar) shortcuts() []string {
	if s.busy {
		return []string{StatusBarKeyStyle.Render("Ctrl+C") + ": cancel"}
	}
	if s.summary.Step == wizard.BasicInfo {
		return []string{
			StatusBarKeyStyle.Render("Enter") + ": next",
			StatusBarKeyStyle.Render("Esc") + ": leave",
		}
	}
	return []string{
		StatusBarKeyStyle.Render("Space") + ": toggle",
		StatusBarKeyStyle.Render("v") + ": " + otherMode(s.summary.Mode).String(),
		StatusBarKeyStyle.Render("b") + ": back",
		StatusBarKeyStyle.Render("Ctrl+S") + ": finish",
	}
}

func otherMode(m ViewMode) ViewMode {
	if m == ViewBubbles {
		return ViewList
	}
	return ViewBubbles
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := fmt.Sprintf("Step %d/2 · %s", int(s.summary.Step)+1, s.summary.Step)
	if s.summary.Step == wizard.CommunitySelection {
		left += fmt.Sprintf(" · %d/%d selected", s.summary.Selected, s.summary.Total)
	}
	if s.busy {
		left += " · submitting"
	}

	right := strings.Join(s.shortcuts(), " · ")

	leftWidth := ansi.StringWidth(left)
	rightWidth := ansi.StringWidth(right)
	gap := s.width - 2 - leftWidth - rightWidth // StatusBarStyle padding
	if gap < 1 {
		gap = 1
	}

	return StatusBarStyle.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}
