package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/monthgrid/internal/tui/styles"
)

// HelpModel renders the help view with keyboard shortcuts.
type HelpModel struct {
	width, height int
	keymap        [][]string
	theme         styles.Theme
}

// NewHelp creates a new HelpModel.
func NewHelp(theme styles.Theme) *HelpModel {
	return &HelpModel{
		theme: theme,
	}
}

// Init implements Component.
func (h *HelpModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (h *HelpModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg {
				return ViewChangeRequestMsg{View: ViewCalendar} // Request to go back
			}
		}
	}
	return h, nil
}

// View implements Component.
func (h *HelpModel) View() string {
	if len(h.keymap) == 0 {
		return h.theme.HelpDesc.Render("No keybindings registered")
	}

	var b strings.Builder
	b.WriteString(h.theme.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	// Navigation and General go left, the calendar actions right.
	var col1Sections = map[string]bool{
		"Navigation": true,
		"General":    true,
	}

	var col1Content, col2Content strings.Builder
	var currentColumn *strings.Builder = &col1Content

	keyStyle := h.theme.HelpKey.Width(16).Align(lipgloss.Right).PaddingRight(2)

	for _, item := range h.keymap {
		if len(item) < 2 {
			continue
		}
		key := item[0]
		desc := item[1]

		// Check if this is a section header to potentially switch columns
		if desc == "" && key != "" {
			if col1Sections[key] {
				currentColumn = &col1Content
			} else {
				currentColumn = &col2Content
			}
			currentColumn.WriteString("\n" + h.theme.SectionHeader.Render(" "+key+" ") + "\n")
			continue
		}

		if key == "" && desc == "" {
			currentColumn.WriteString("\n")
			continue
		}

		currentColumn.WriteString(keyStyle.Render(key) + h.theme.HelpDesc.Render(desc) + "\n")
	}

	colWidth := h.width / 2
	if colWidth > 50 {
		colWidth = 50 // Cap column width for better readability
	}

	columnStyle := lipgloss.NewStyle().Width(colWidth).PaddingLeft(2).PaddingRight(2)
	helpView := lipgloss.JoinHorizontal(lipgloss.Top,
		columnStyle.Render(col1Content.String()),
		columnStyle.Render(col2Content.String()),
	)

	b.WriteString(helpView)
	b.WriteString("\n\n")

	footer := h.theme.HelpDesc.Render("Press ESC or ? to close")
	b.WriteString(lipgloss.NewStyle().Width(h.width).Align(lipgloss.Center).Render(footer))

	return b.String()
}

// SetSize implements Component.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetKeymap sets custom help items.
func (h *HelpModel) SetKeymap(items [][]string) {
	h.keymap = items
}
