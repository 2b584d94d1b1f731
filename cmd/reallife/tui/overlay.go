package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// OverlayType identifies the kind of modal overlay.
type OverlayType int

const (
	OverlayConfirm OverlayType = iota // Cancel/OK confirmation
	OverlayNotice                     // message with a single OK button
)

// Overlay renders a centered modal box on top of existing content.
type Overlay struct {
	overlayType OverlayType
	title       string
	message     string
	cursor      int // button index: 0=Cancel, 1=OK
	active      bool
}

// NewConfirmOverlay creates a confirmation dialog with Cancel/OK buttons.
func NewConfirmOverlay(title, message string) Overlay {
	return Overlay{
		overlayType: OverlayConfirm,
		title:       title,
		message:     message,
		cursor:      0, // default to Cancel
		active:      true,
	}
}

// NewNoticeOverlay creates a dialog that only needs acknowledging, used for
// unavailable capabilities and submission errors.
func NewNoticeOverlay(title, message string) Overlay {
	return Overlay{
		overlayType: OverlayNotice,
		title:       title,
		message:     message,
		cursor:      1,
		active:      true,
	}
}

// Active returns whether the overlay is currently shown.
func (o Overlay) Active() bool {
	return o.active
}

// Update handles key messages for the overlay.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if !o.active {
		return o, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key.String() {
	case "esc":
		o.active = false
		return o, func() tea.Msg {
			return OverlayCloseMsg{Confirmed: o.overlayType == OverlayNotice}
		}
	case "tab", "left", "right", "h", "l":
		if o.overlayType == OverlayConfirm {
			o.cursor = 1 - o.cursor
		}
	case "enter":
		o.active = false
		confirmed := o.cursor == 1
		return o, func() tea.Msg {
			return OverlayCloseMsg{Confirmed: confirmed}
		}
	}
	return o, nil
}

// View renders the overlay box. It does not composite over a background;
// that is the caller's responsibility using Composite().
func (o Overlay) View() string {
	if !o.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	b.WriteString(o.message)
	b.WriteString("\n\n")
	if o.overlayType == OverlayNotice {
		b.WriteString(OverlayButtonActiveStyle.Render("OK"))
	} else {
		b.WriteString(o.renderButtons("Cancel", "OK"))
	}
	return OverlayStyle.Render(b.String())
}

// renderButtons draws two side-by-side buttons with the cursor on one.
func (o Overlay) renderButtons(cancel, ok string) string {
	var cancelBtn, okBtn string
	if o.cursor == 0 {
		cancelBtn = OverlayButtonActiveStyle.Render(cancel)
		okBtn = OverlayButtonInactiveStyle.Render(ok)
	} else {
		cancelBtn = OverlayButtonInactiveStyle.Render(cancel)
		okBtn = OverlayButtonActiveStyle.Render(ok)
	}
	return cancelBtn + "  " + okBtn
}

// Composite places the overlay box centered on top of the background string.
// The background is expected to be a fully rendered terminal frame.
func Composite(background string, overlay string, totalWidth, totalHeight int) string {
	if overlay == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < totalHeight {
		bgLines = append(bgLines, "")
	}

	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		if w := ansi.StringWidth(line); w > overlayWidth {
			overlayWidth = w
		}
	}

	startRow := max((totalHeight-len(overlayLines))/2, 0)
	startCol := max((totalWidth-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(bgLines) {
			break
		}

		// Cut the background by display cells so styled lines stay intact.
		bgLine := bgLines[row]
		bgWidth := ansi.StringWidth(bgLine)
		left := ansi.Truncate(bgLine, startCol, "")
		if w := ansi.StringWidth(left); w < startCol {
			left += strings.Repeat(" ", startCol-w)
		}
		right := ""
		if end := startCol + ansi.StringWidth(overlayLine); end < bgWidth {
			right = ansi.TruncateLeft(bgLine, end, "")
		}
		bgLines[row] = left + overlayLine + right
	}

	if totalHeight > 0 && len(bgLines) > totalHeight {
		bgLines = bgLines[:totalHeight]
	}
	return strings.Join(bgLines, "\n")
}
