package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmAction names what a confirmation modal guards.
type confirmAction int

const (
	confirmDeleteGame confirmAction = iota
	confirmDeleteReview
)

// confirmMsg reports the answer of a confirmation modal.
type confirmMsg struct {
	action    confirmAction
	id        string
	confirmed bool
}

// confirmModal asks a yes/no question. Only y (or s, for "sí") confirms;
// every other key cancels.
type confirmModal struct {
	action confirmAction
	id     string
	prompt string
}

func newConfirmModal(action confirmAction, id, prompt string) confirmModal {
	return confirmModal{action: action, id: id, prompt: prompt}
}

func (c confirmModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	confirmed := false
	switch strings.ToLower(keyMsg.String()) {
	case "y", "s":
		confirmed = true
	}
	answer := confirmMsg{action: c.action, id: c.id, confirmed: confirmed}
	return c, func() tea.Msg { return answer }, true
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Confirmar"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", confirmModalWidth-8)))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y/s: Confirmar  •  Cualquier otra tecla: Cancelar"))

	return placeModal(theme, width, height, confirmModalWidth, theme.Danger, b.String())
}

// placeModal centers content in a bordered box over the whole screen.
func placeModal(theme Theme, width, height, modalWidth int, border, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
