package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite(t *testing.T) {
	bg := "AAAA\nBBBB\nCCCC\nDDDD"
	overlay := "XX\nXX"
	result := Composite(bg, overlay, 4, 4)
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "AAAA", lines[0])
	assert.Equal(t, "BXXB", lines[1])
	assert.Equal(t, "CXXC", lines[2])
	assert.Equal(t, "DDDD", lines[3])
}

func TestCompositeEmpty(t *testing.T) {
	bg := "hello"
	assert.Equal(t, bg, Composite(bg, "", 5, 1))
}

func TestComposite_PadsShortBackground(t *testing.T) {
	result := Composite("A", "X", 3, 3)
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, " X", lines[1])
}

func TestComposite_OversizedOverlay(t *testing.T) {
	bg := "A\nB"
	overlay := "XXXX\nXXXX\nXXXX\nXXXX"
	result := Composite(bg, overlay, 2, 2)
	assert.NotEmpty(t, result)
	assert.Len(t, strings.Split(result, "\n"), 2)
}

func TestConfirmOverlay_DefaultsToCancel(t *testing.T) {
	o := NewConfirmOverlay("Leave?", "Your selection will be lost.")
	require.True(t, o.Active())

	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, o.Active())
	require.NotNil(t, cmd)
	assert.Equal(t, OverlayCloseMsg{Confirmed: false}, cmd())
}

func TestConfirmOverlay_TabSwitchesToOK(t *testing.T) {
	o := NewConfirmOverlay("Leave?", "")
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyTab})
	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, OverlayCloseMsg{Confirmed: true}, cmd())
}

func TestNoticeOverlay(t *testing.T) {
	o := NewNoticeOverlay("Could not finish setup", "db_error")
	view := o.View()
	assert.Contains(t, view, "Could not finish setup")
	assert.Contains(t, view, "db_error")
	assert.Contains(t, view, "OK")
	assert.NotContains(t, view, "Cancel")

	// Tab does nothing on a notice.
	o, _ = o.Update(tea.KeyMsg{Type: tea.KeyTab})
	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, o.Active())
	require.NotNil(t, cmd)
	assert.Equal(t, OverlayCloseMsg{Confirmed: true}, cmd())
	assert.Empty(t, o.View())
}

func TestOverlay_InactiveIgnoresKeys(t *testing.T) {
	var o Overlay
	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, o.Active())
	assert.Nil(t, cmd)
}
