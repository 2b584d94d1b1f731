package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/selection"
)

// PickerItem represents a single row in the community list.
type PickerItem struct {
	Key      string // community id
	Display  string
	Selected bool
	IsHeader bool // category header, not selectable
}

// Picker is the list view of the community step: communities grouped under
// category headers with checkboxes.
type Picker struct {
	items   []PickerItem
	cursor  int // index of the highlighted row
	height  int // viewport height (number of visible rows)
	width   int
	offset  int // scroll offset for long lists
	focused bool
}

// NewPicker creates a Picker with the given items. The cursor is placed on the
// first selectable item.
func NewPicker(items []PickerItem) Picker {
	p := Picker{
		items:   items,
		height:  20,
		focused: true,
	}
	for i := range p.items {
		if !p.isSkippable(i) {
			p.cursor = i
			break
		}
	}
	return p
}

// CommunityPickerItems builds one header per category followed by its
// communities.
func CommunityPickerItems(groups []community.Group, sel selection.Set) []PickerItem {
	var items []PickerItem
	for _, g := range groups {
		items = append(items, PickerItem{
			Display:  fmt.Sprintf("%s (%d)", titleCase(g.Category), len(g.Communities)),
			IsHeader: true,
		})
		for _, c := range g.Communities {
			items = append(items, PickerItem{
				Key:      c.ID,
				Display:  c.Name,
				Selected: sel.Contains(c.ID),
			})
		}
	}
	return items
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SelectedKeys returns the keys of all selected items.
func (p Picker) SelectedKeys() []string {
	var keys []string
	for _, it := range p.items {
		if !it.IsHeader && it.Selected {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// TotalCount returns the number of selectable items.
func (p Picker) TotalCount() int {
	n := 0
	for _, it := range p.items {
		if !it.IsHeader {
			n++
		}
	}
	return n
}

// CurrentKey returns the key under the cursor, or "".
func (p Picker) CurrentKey() string {
	if p.cursor >= 0 && p.cursor < len(p.items) && !p.items[p.cursor].IsHeader {
		return p.items[p.cursor].Key
	}
	return ""
}

// SyncSelection refreshes checkboxes from sel.
func (p *Picker) SyncSelection(sel selection.Set) {
	for i := range p.items {
		if !p.items[i].IsHeader {
			p.items[i].Selected = sel.Contains(p.items[i].Key)
		}
	}
}

// SetHeight sets the viewport height.
func (p *Picker) SetHeight(h int) {
	p.height = h
	p.clampScroll()
}

// SetWidth sets the available width.
func (p *Picker) SetWidth(w int) {
	p.width = w
}

// SetFocused sets whether the picker has keyboard focus.
func (p *Picker) SetFocused(f bool) {
	p.focused = f
}

// Update handles navigation. Toggling is reported with ToggleMsg; the
// checkbox changes once the caller syncs the selection back.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "up", "k":
		p.moveCursor(-1)
	case "down", "j":
		p.moveCursor(+1)
	case " ", "enter":
		if id := p.CurrentKey(); id != "" {
			return p, func() tea.Msg { return ToggleMsg{ID: id} }
		}
	}
	return p, nil
}

// View renders the visible window of the list.
func (p Picker) View() string {
	if len(p.items) == 0 {
		return ContentPaneStyle.Render("(no communities)")
	}

	visible := p.height
	hasAbove := p.offset > 0
	hasBelow := p.offset+p.height < len(p.items)
	if hasAbove {
		visible--
	}
	if hasBelow {
		visible--
	}
	if visible < 1 {
		visible = 1
	}

	var b strings.Builder
	if hasAbove {
		b.WriteString(DimStyle.Render("  ↑ more") + "\n")
	}

	end := min(p.offset+visible, len(p.items))
	for i := p.offset; i < end; i++ {
		it := p.items[i]
		if it.IsHeader {
			b.WriteString(HeaderStyle.Render("── "+it.Display+" ──") + "\n")
			continue
		}

		cursor := "  "
		if p.focused && i == p.cursor {
			cursor = "> "
		}
		checkbox := UnselectedStyle.Render("[ ]")
		if it.Selected {
			checkbox = SelectedStyle.Render("[x]")
		}
		display := it.Display
		if p.focused && i == p.cursor {
			display = lipgloss.NewStyle().Bold(true).Foreground(colorText).Render(display)
		}
		b.WriteString(cursor + checkbox + " " + display + "\n")
	}

	if end < len(p.items) {
		b.WriteString(DimStyle.Render("  ↓ more") + "\n")
	}
	return ContentPaneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (p *Picker) isSkippable(i int) bool {
	return i >= 0 && i < len(p.items) && p.items[i].IsHeader
}

// moveCursor advances the cursor by dir, skipping headers.
func (p *Picker) moveCursor(dir int) {
	next := p.cursor + dir
	for next >= 0 && next < len(p.items) {
		if !p.isSkippable(next) {
			p.cursor = next
			p.clampScroll()
			return
		}
		next += dir
	}
}

// clampScroll keeps the cursor inside the visible window.
func (p *Picker) clampScroll() {
	if p.height <= 0 {
		return
	}
	effective := p.height
	if len(p.items) > p.height {
		effective -= 2 // scroll indicators
	}
	if effective < 1 {
		effective = 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+effective {
		p.offset = p.cursor - effective + 1
	}
	// Keep the header of the cursor's group in view when it is just above.
	if p.cursor == p.offset && p.offset > 0 && effective > 1 && p.isSkippable(p.offset-1) {
		p.offset--
	}
	maxOffset := max(len(p.items)-effective, 0)
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
}
