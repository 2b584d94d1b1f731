package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reallife-app/reallife/internal/commands"
)

// menuLevel tracks a position in the navigation stack.
type menuLevel struct {
	title  string
	items  []menuItem
	cursor int
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items    []menuItem
	cursor   int
	stack    []menuLevel // pushed on drill-in
	state    commands.MenuState
	width    int
	height   int
	Version  string
	Quitting bool
	Selected MenuAction // set when a leaf action is chosen
}

// NewMenuModel creates a menu model from detected state.
func NewMenuModel(state commands.MenuState) MenuModel {
	return MenuModel{
		items: BuildMenuItems(state),
		state: state,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) currentItems() []menuItem {
	if len(m.stack) == 0 {
		return m.items
	}
	return m.stack[len(m.stack)-1].items
}

func (m MenuModel) currentTitle() string {
	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[len(m.stack)-1].title
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		items := m.currentItems()

		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}

		case "enter":
			if m.cursor >= 0 && m.cursor < len(items) {
				selected := items[m.cursor]
				if selected.isCategory() {
					m.stack = append(m.stack, menuLevel{
						title:  selected.label,
						items:  selected.children,
						cursor: m.cursor,
					})
					m.cursor = 0
				} else {
					m.Selected = selected.action
					return m, tea.Quit
				}
			}

		case "esc":
			if len(m.stack) > 0 {
				prev := m.stack[len(m.stack)-1]
				m.stack = m.stack[:len(m.stack)-1]
				m.cursor = prev.cursor
			} else {
				m.Quitting = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m MenuModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	subtle := lipgloss.NewStyle().Foreground(colorSubtext0)

	b.WriteString(TitleStyle.Render("reallife"))
	if title := m.currentTitle(); title != "" {
		b.WriteString(subtle.Render(" > " + title))
		b.WriteString("\n\n")
	} else {
		if m.Version != "" {
			b.WriteString(" " + subtle.Render("v"+m.Version))
		}
		b.WriteString("\n")
		if summary := buildStatusSummary(m.state); summary != "" {
			b.WriteString(subtle.Render(summary))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, item := range m.currentItems() {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(colorBlue)
		}

		line := cursor + style.Render(item.label)
		if item.desc != "" {
			line += " " + subtle.Render(item.desc)
		}
		if item.isCategory() {
			line += " " + subtle.Render(">")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if len(m.stack) > 0 {
		b.WriteString(subtle.Render("esc back  q quit"))
	} else {
		b.WriteString(subtle.Render("q quit"))
	}
	b.WriteString("\n")

	content := b.String()
	if m.width > 0 {
		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 2).
			Width(min(m.width-2, 56))
		content = boxStyle.Render(content)
	}
	return content
}

// buildStatusSummary returns the one-line session status for the header.
func buildStatusSummary(state commands.MenuState) string {
	var parts []string
	switch {
	case state.LoggedIn && state.Username != "":
		parts = append(parts, "logged in as "+state.Username)
	case state.LoggedIn:
		parts = append(parts, "logged in")
	case state.SessionExpired:
		parts = append(parts, "session expired")
	default:
		parts = append(parts, "not logged in")
	}
	if !state.ConfigExists {
		parts = append(parts, "no config")
	}
	return strings.Join(parts, " | ")
}
