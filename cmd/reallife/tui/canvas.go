package tui

import (
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/layout"
	"github.com/reallife-app/reallife/internal/selection"
)

const (
	defaultCanvasWidth = 80
	minBubbleWidth     = 6
	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0
)

// bubble is one community placed on the terminal grid.
type bubble struct {
	row, col, width int
}

// Canvas is the bubble view of the community step. Bubble positions come
// from layout.Params and are scaled to terminal cells.
type Canvas struct {
	communities []community.Community
	params      layout.Params
	selected    selection.Set
	cursor      int
	width       int
	height      int
	offset      int // first visible terminal row
	focused     bool
}

// NewCanvas creates a canvas for communities in index order.
func NewCanvas(communities []community.Community, params layout.Params, sel selection.Set) Canvas {
	return Canvas{
		communities: communities,
		params:      params,
		selected:    sel,
		width:       defaultCanvasWidth,
		height:      20,
		focused:     true,
	}
}

// SetWidth sets the available width in cells.
func (c *Canvas) SetWidth(w int) {
	if w > 0 {
		c.width = w
	}
}

// SetHeight sets the viewport height in rows.
func (c *Canvas) SetHeight(h int) {
	c.height = h
	c.follow()
}

// SetFocused sets whether the canvas has keyboard focus.
func (c *Canvas) SetFocused(f bool) {
	c.focused = f
}

// SyncSelection refreshes highlighted bubbles from sel.
func (c *Canvas) SyncSelection(sel selection.Set) {
	c.selected = sel
}

// CurrentKey returns the id of the community under the cursor.
func (c Canvas) CurrentKey() string {
	if c.cursor >= 0 && c.cursor < len(c.communities) {
		return c.communities[c.cursor].ID
	}
	return ""
}

// scale is canvas points per terminal column.
func (c Canvas) scale() float64 {
	w := c.width
	if w <= 0 {
		w = defaultCanvasWidth
	}
	return c.params.CanvasWidth / float64(w)
}

// place maps the item at index to terminal coordinates. The row is the
// bubble's vertical center.
func (c Canvas) place(index int) bubble {
	colScale := c.scale()
	rowScale := colScale * cellAspect
	pos := c.params.PositionFor(index)

	w := max(int(math.Floor(c.params.ItemSize/colScale)), minBubbleWidth)
	return bubble{
		row:   int(math.Round((pos.Top + c.params.ItemSize/2) / rowScale)),
		col:   max(int(math.Round(pos.Left/colScale)), 0),
		width: w,
	}
}

// totalRows is the canvas height in terminal rows.
func (c Canvas) totalRows() int {
	rowScale := c.scale() * cellAspect
	return int(math.Ceil(c.params.CanvasHeight(len(c.communities)) / rowScale))
}

func (c Canvas) columns() int {
	if c.params.Columns < 1 {
		return 1
	}
	return c.params.Columns
}

// Update handles cursor movement and toggling.
func (c Canvas) Update(msg tea.Msg) (Canvas, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(c.communities) == 0 {
		return c, nil
	}
	switch key.String() {
	case "left", "h":
		c.moveCursor(-1)
	case "right", "l":
		c.moveCursor(+1)
	case "up", "k":
		c.moveCursor(-c.columns())
	case "down", "j":
		c.moveCursor(+c.columns())
	case " ", "enter":
		if id := c.CurrentKey(); id != "" {
			return c, func() tea.Msg { return ToggleMsg{ID: id} }
		}
	}
	return c, nil
}

func (c *Canvas) moveCursor(delta int) {
	next := c.cursor + delta
	if next < 0 || next >= len(c.communities) {
		return
	}
	c.cursor = next
	c.follow()
}

// follow scrolls so the cursor's bubble is visible.
func (c *Canvas) follow() {
	if len(c.communities) == 0 || c.height <= 0 {
		return
	}
	row := c.place(c.cursor).row
	if row < c.offset {
		c.offset = row
	}
	if row >= c.offset+c.height {
		c.offset = row - c.height + 1
	}
	maxOffset := max(c.totalRows()-c.height, 0)
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c Canvas) label(index int, width int) string {
	cm := c.communities[index]
	inner := max(width-2, 1)
	name := ansi.Truncate(cm.Name, inner, "…")
	pad := inner - ansi.StringWidth(name)
	text := "(" + strings.Repeat(" ", pad/2) + name + strings.Repeat(" ", pad-pad/2) + ")"

	switch {
	case c.focused && index == c.cursor:
		return BubbleCursorStyle.Render(text)
	case c.selected.Contains(cm.ID):
		return BubbleSelectedStyle.Render(text)
	default:
		return lipgloss.NewStyle().Foreground(categoryColor(community.NormalizeCategory(cm.Category))).Render(text)
	}
}

// View renders the visible rows of the canvas.
func (c Canvas) View() string {
	if len(c.communities) == 0 {
		return ContentPaneStyle.Render("(no communities)")
	}

	type piece struct {
		col, width int
		text       string
	}
	rows := make(map[int][]piece)
	for i := range c.communities {
		b := c.place(i)
		if b.row < c.offset || b.row >= c.offset+c.height {
			continue
		}
		rows[b.row] = append(rows[b.row], piece{col: b.col, width: b.width, text: c.label(i, b.width)})
	}

	lines := make([]string, 0, c.height)
	for r := c.offset; r < c.offset+c.height; r++ {
		pieces := rows[r]
		sort.Slice(pieces, func(i, j int) bool { return pieces[i].col < pieces[j].col })

		var b strings.Builder
		at := 0
		for _, p := range pieces {
			col := max(p.col, at)
			if col+p.width > c.width {
				break
			}
			b.WriteString(strings.Repeat(" ", col-at))
			b.WriteString(p.text)
			at = col + p.width
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
