package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// One title per group returned by keyMap.FullHelp, in the same order.
var helpSectionTitles = []string{
	"Navegación",
	"Movimiento",
	"Biblioteca",
	"Detalle",
	"Formularios",
	"General",
}

const helpKeyColumn = 12

// renderHelp lays the full key map out as titled sections inside a modal.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := styles.WarningText.Width(helpKeyColumn)
	titleStyle := styles.AccentText.Bold(true)

	var sections []string
	for i, group := range m.keys.FullHelp() {
		lines := helpLines(group, keyStyle, styles.Text)
		if len(lines) == 0 {
			continue
		}
		if i < len(helpSectionTitles) {
			lines = append([]string{titleStyle.Render(helpSectionTitles[i])}, lines...)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	body := styles.Text.Bold(true).Render("Atajos de teclado") + "\n" +
		styles.FaintText.Render(strings.Repeat("─", helpModalWidth-12)) + "\n\n" +
		strings.Join(sections, "\n\n")

	return placeModal(m.theme, m.width, m.height, helpModalWidth, m.theme.Accent, body)
}

// helpLines renders one "key  description" row per enabled binding.
func helpLines(group []key.Binding, keyStyle, descStyle lipgloss.Style) []string {
	var lines []string
	for _, b := range group {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		lines = append(lines, keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
	}
	return lines
}
