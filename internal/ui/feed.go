package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// handleFeedKey moves through the feed and opens linked games.
func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	feed := m.snapshot.Feed
	if len(feed) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.feedRow < len(feed)-1 {
			m.feedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.feedRow > 0 {
			m.feedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.feedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.feedRow = len(feed) - 1
	case key.Matches(msg, m.keys.Confirm):
		entry := feed[m.feedRow]
		if !entry.HasGame() {
			return m, nil
		}
		// Only games in the loaded library can be opened
		if g, ok := m.snapshot.FindGame(string(entry.GameID)); ok {
			return m.openDetail(g)
		}
		log.Info().Str("game", string(entry.GameID)).Msg("feed game not in library")
		m.setFlash(msgGameNotFound, true)
	}
	return m, nil
}

// renderFeed renders the recent activity list.
func (m Model) renderFeed() string {
	height := m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	innerWidth := max(m.width-2, 1)

	var message string
	switch {
	case !m.account.Active():
		message = msgNeedLogin
	case m.feedErr != "" && !m.snapshot.HasFeed:
		message = m.feedErr
	case !m.snapshot.HasFeed:
		message = "Cargando feed..."
	case len(m.snapshot.Feed) == 0:
		message = "Aún no hay actividad."
	}
	if message != "" {
		return m.renderTitledBox("Actividad Reciente", bg.Render(message, styles.MutedText), m.width, height, true)
	}

	feed := m.snapshot.Feed
	visible := max(height-2, 1)
	start := 0
	if m.feedRow >= visible {
		start = m.feedRow - visible + 1
	}
	end := min(len(feed), start+visible)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		entry := feed[i]
		when := "--:--"
		if t := entry.ParsedCreatedAt(); !t.IsZero() {
			when = t.Local().Format("02/01 15:04")
		}
		link := "  "
		if entry.HasGame() {
			link = "→ "
		}
		text := truncate(entry.Text, innerWidth-len([]rune(when))-6)

		if i == m.feedRow {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(innerWidth)
			lines = append(lines, sel.Render(" "+when+"  "+link+text))
			continue
		}
		lines = append(lines, bg.Space()+bg.Render(when, styles.FaintText)+bg.Spaces(2)+
			bg.Render(link, styles.AccentText)+bg.Render(text, styles.Text))
	}

	title := "Actividad Reciente"
	if m.feedErr != "" {
		title += " !"
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}
