package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
	"github.com/five82/plusultra/internal/stats"
)

const (
	msgLibraryLoading = "Cargando biblioteca..."
	msgLibraryEmpty   = "Tu biblioteca está vacía o no coincide con los filtros. ¡Añade tu primer juego!"
)

// handleLibraryKey processes keyboard input for the library view.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleLibrarySearchKey(msg)
	}

	f := m.snapshot.Filters
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchPrev = f.Query
		m.searchInput.SetValue(f.Query)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.CycleGenre):
		return m.applyFilters(f.NextGenre())
	case key.Matches(msg, m.keys.CyclePlatform):
		return m.applyFilters(f.NextPlatform())
	case key.Matches(msg, m.keys.CycleCompletion):
		return m.applyFilters(f.NextCompletion())
	case key.Matches(msg, m.keys.CycleSort):
		return m.applyFilters(f.NextSort())
	case key.Matches(msg, m.keys.ResetFilters):
		return m.applyFilters(f.Reset())
	}

	games := m.snapshot.Games
	if len(games) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(games)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(games) - 1
	case key.Matches(msg, m.keys.Confirm):
		if g, ok := m.selectedGame(); ok {
			return m.openDetail(g)
		}
	case key.Matches(msg, m.keys.ToggleCompleted):
		if g, ok := m.selectedGame(); ok {
			return m, m.toggleCompletedCmd(g)
		}
	case key.Matches(msg, m.keys.EditGame):
		if g, ok := m.selectedGame(); ok {
			return m.openGameForm(&g)
		}
	case key.Matches(msg, m.keys.DeleteGame):
		if g, ok := m.selectedGame(); ok {
			return m.promptDeleteGame(g)
		}
	}
	return m, nil
}

// handleLibrarySearchKey edits the free-text query. Every change re-issues
// the library fetch; only the latest response is kept.
func (m Model) handleLibrarySearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		if strings.TrimSpace(m.snapshot.Filters.Query) != strings.TrimSpace(m.searchPrev) {
			return m.applyFilters(m.snapshot.Filters.WithQuery(m.searchPrev))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	query := m.searchInput.Value()
	if strings.TrimSpace(query) == strings.TrimSpace(m.snapshot.Filters.Query) {
		return m, cmd
	}
	next, fetch := m.applyFilters(m.snapshot.Filters.WithQuery(query))
	return next, tea.Batch(cmd, fetch)
}

// applyFilters stores new filters and fetches the library for them.
func (m Model) applyFilters(f library.Filters) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	t := m.store.SetFilters(f)
	m.snapshot.Filters = f
	m.snapshot.Loading = true
	m.selectedRow = 0
	return m, m.loadLibraryCmd(t)
}

func (m Model) selectedGame() (api.Game, bool) {
	games := m.snapshot.Games
	if m.selectedRow < 0 || m.selectedRow >= len(games) {
		return api.Game{}, false
	}
	return games[m.selectedRow], true
}

// renderLibrary renders the library with a split layout: list and card.
func (m Model) renderLibrary() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	filterBar := m.renderFilterBar()
	bodyHeight := contentHeight - 1

	var message string
	switch {
	case m.libraryErr != "" && !m.snapshot.HasGames:
		message = styles.DangerText.Render("¡Error de conexión! " + m.libraryErr)
	case m.snapshot.Loading && !m.snapshot.HasGames:
		message = styles.InfoText.Render(msgLibraryLoading)
	case len(m.snapshot.Games) == 0 && m.snapshot.HasGames:
		message = styles.MutedText.Render(msgLibraryEmpty)
	case len(m.snapshot.Games) == 0:
		message = styles.InfoText.Render(msgLibraryLoading)
	}
	if message != "" {
		body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, message)
		return filterBar + "\n" + body
	}

	// Extra wide (>= 160): 35% list, 65% card
	// Default: 45% list, 55% card
	var listWidth int
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 35 / 100
	} else {
		listWidth = m.width * 45 / 100
	}
	cardWidth := m.width - listWidth

	listBg := m.theme.FocusBg
	listContent := m.renderGameRows(listWidth-2, bodyHeight-2, listBg)
	listTitle := fmt.Sprintf("Biblioteca (%d)", len(m.snapshot.Games))
	if m.snapshot.Loading {
		listTitle += " ↻"
	}
	if m.libraryErr != "" {
		// The previous list stays visible after a failed refresh
		listTitle += " !"
	}
	listPane := m.renderTitledBox(listTitle, listContent, listWidth, bodyHeight, true)

	var cardContent string
	if g, ok := m.selectedGame(); ok {
		cardContent = m.renderGameCard(g, cardWidth-4, m.theme.SurfaceAlt)
	}
	cardPane := m.renderTitledBox("Juego", cardContent, cardWidth, bodyHeight, false)

	return filterBar + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, listPane, cardPane)
}

// renderFilterBar shows the search box and the active filters.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	f := m.snapshot.Filters

	var search string
	switch {
	case m.searching:
		search = m.searchInput.View()
	case f.Query != "":
		search = bg.Render("/ "+f.Query, styles.AccentText)
	default:
		search = bg.Render("/ "+m.searchInput.Placeholder, styles.FaintText)
	}

	parts := []string{
		search,
		bg.Pair("Género:", orAll(f.Genre, "Todos"), styles.MutedText, styles.Text),
		bg.Pair("Plataforma:", orAll(f.Platform, "Todas"), styles.MutedText, styles.Text),
		bg.Pair("Estado:", f.Completion.Label(), styles.MutedText, styles.Text),
		bg.Pair("Orden:", library.SortLabel(f.SortBy), styles.MutedText, styles.Text),
	}
	if f.Active() {
		parts = append(parts, bg.Hint("x", "limpiar", styles.WarningText, styles.WarningText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "   "), m.width)
}

// renderGameRows renders the visible window of the game list.
func (m Model) renderGameRows(width, height int, bgColor string) string {
	games := m.snapshot.Games
	start := 0
	if height > 0 && m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(len(games), start+max(height, 1))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatGameRow(games[i], width, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatGameRow formats a row: "✓ Title · Platform ★★★☆☆".
func (m Model) formatGameRow(g api.Game, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	mark := "·"
	if g.Completed {
		mark = "✓"
	}
	meta := g.Platform
	rating := stats.Stars(g.AverageRating)
	titleWidth := max(width-len([]rune(meta))-len([]rune(rating))-8, 8)

	var markStyle, titleStyle, metaStyle, ratingStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markStyle, titleStyle, metaStyle, ratingStyle = selText, selText.Bold(true), selText, selText
	} else {
		styles := m.theme.Styles()
		markStyle = styles.MutedText
		if g.Completed {
			markStyle = styles.SuccessText
		}
		titleStyle = styles.Text
		metaStyle = styles.FaintText
		ratingStyle = styles.WarningText
	}

	return bg.Render(mark, markStyle) + bg.Space() +
		bg.Render(truncate(g.Title, titleWidth), titleStyle) +
		bg.Render(" · ", metaStyle) + bg.Render(meta, metaStyle) + bg.Space() +
		bg.Render(rating, ratingStyle)
}

// renderGameCard renders the summary card of a game.
func (m Model) renderGameCard(g api.Game, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	var b strings.Builder
	b.WriteString(bg.Render(truncate(g.Title, width), styles.Text.Bold(true)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBadge(g))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(bg.Render(padRight(label, 14), styles.MutedText))
		b.WriteString(bg.Render(truncate(value, width-14), styles.Text))
		b.WriteString("\n")
	}
	row("Género", g.Genre)
	row("Plataforma", g.Platform)
	if g.ReleaseYear > 0 {
		row("Año", fmt.Sprintf("%d", g.ReleaseYear))
	}
	row("Desarrollador", g.Developer)
	row("Horas", fmt.Sprintf("%.1f", g.HoursPlayed))
	b.WriteString(bg.Render(padRight("Puntuación", 14), styles.MutedText))
	b.WriteString(bg.Render(stats.Stars(g.AverageRating), styles.WarningText))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(fmt.Sprintf("%.1f", g.AverageRating), styles.FaintText))
	b.WriteString("\n")

	if g.AchievementsTotal > 0 {
		pct := stats.AchievementProgress(g)
		b.WriteString("\n")
		b.WriteString(bg.Render(fmt.Sprintf("Logros %d/%d", g.AchievementsEarned, g.AchievementsTotal), styles.MutedText))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(pct / 100))
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(fmt.Sprintf("%.0f%%", pct), styles.AccentText))
		b.WriteString("\n")
	}

	if desc := g.PlainDescription(); desc != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color(m.theme.Muted)).
			Render(truncate(desc, width*4)))
	}
	return b.String()
}

// renderStatusBadge renders COMPLETADO or PENDIENTE.
func (m Model) renderStatusBadge(g api.Game) string {
	styles := m.theme.Styles()
	if g.Completed {
		return styles.StatusStyle(statusCompleted).Render("COMPLETADO")
	}
	return styles.StatusStyle(statusPending).Render("PENDIENTE")
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 1)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
