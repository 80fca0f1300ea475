package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-manager/app"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63")).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

func (m *Model) View() string {
	s := m.state
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Manager"))
	b.WriteString("\n")

	input := s.NewTaskText
	if m.mode == modeAdd {
		input += "█"
	} else if input == "" {
		input = inactiveStyle.Render("Add a new task...")
	}
	fmt.Fprintf(&b, "New: %s\n", input)

	if s.Message != "" {
		b.WriteString(messageStyle.Render(s.Message))
		b.WriteString("\n")
	}
	if s.Loading {
		b.WriteString("Loading...\n")
	}
	b.WriteString("\n")

	b.WriteString(renderFilters(s.Filter))
	fmt.Fprintf(&b, "  Sort: %s\n", s.SortBy.Label())

	search := s.Search
	if m.mode == modeSearch {
		search += "█"
	}
	fmt.Fprintf(&b, "Search: %s\n\n", search)

	visible := s.Visible()
	if len(visible) == 0 && !s.Loading {
		b.WriteString(emptyStyle.Render(s.EmptyMessage()))
		b.WriteString("\n")
	}
	for i, t := range visible {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}

		var text string
		switch {
		case s.IsEditing(t.ID):
			text = "✎ " + s.EditingText + "█"
		case t.Completed:
			text = doneStyle.Render(t.Description)
		default:
			text = t.Description
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, box, text)
	}

	help := helpStyle
	if m.width > 0 {
		help = help.Width(m.width)
	}
	b.WriteString(help.Render(m.help()))
	return b.String()
}

func renderFilters(current app.Filter) string {
	parts := make([]string, 0, len(app.Filters))
	for _, f := range app.Filters {
		if f == current {
			parts = append(parts, activeStyle.Render(f.Label()))
		} else {
			parts = append(parts, inactiveStyle.Render(f.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) help() string {
	switch {
	case m.state.EditingID != "":
		return "enter save • esc cancel"
	case m.mode == modeAdd:
		return "enter add • esc back"
	case m.mode == modeSearch:
		return "type to search • enter/esc done"
	default:
		return "a add • / search • e edit • space toggle • d delete • f filter • s sort • r reload • q quit"
	}
}
