package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plusultra/internal/stats"
)

// dashboardSummary prefers the server dashboard and falls back to the
// loaded library.
func (m Model) dashboardSummary() stats.Summary {
	if m.account.Active() && m.snapshot.HasStats {
		return stats.FromDashboard(m.snapshot.Stats)
	}
	return stats.Summarize(m.snapshot.Games)
}

// statsContent renders the dashboard page shown in the page viewport.
func (m Model) statsContent() string {
	styles := m.theme.Styles()
	s := m.dashboardSummary()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Dashboard Personal"))
	b.WriteString("\n")
	switch {
	case m.statsErr != "":
		b.WriteString(styles.DangerText.Render(m.statsErr))
		b.WriteString("\n")
	case s.Local && !m.account.Active():
		b.WriteString(styles.FaintText.Render("Calculado con la biblioteca cargada. " + msgNeedLogin))
		b.WriteString("\n")
	case s.Local:
		b.WriteString(styles.FaintText.Render("Calculado con la biblioteca cargada."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cards := []string{
		m.statCard("Juegos en Biblioteca", fmt.Sprintf("%d", s.TotalGames), styles.InfoText),
		m.statCard("Juegos Completados", fmt.Sprintf("%d", s.Completed), styles.SuccessText),
		m.statCard("Horas Jugadas", fmt.Sprintf("%.1f", s.TotalHours), styles.AccentText),
		m.statCard("Géneros Rastreados", fmt.Sprintf("%d", s.Genres()), styles.WarningText),
	}
	if !s.Local {
		cards = append(cards, m.statCard("Reseñas", fmt.Sprintf("%d", s.TotalReviews), styles.Text))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Bold(true).Render("Progreso General"))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(s.CompletionRate / 100))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("%.1f%% completado", s.CompletionRate)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Puntuación media "))
	b.WriteString(styles.WarningText.Render(stats.Stars(s.AverageRating)))
	b.WriteString(styles.FaintText.Render(fmt.Sprintf(" %.1f", s.AverageRating)))
	b.WriteString("\n\n")

	b.WriteString(m.renderChart("Juegos por Plataforma", s.ByPlatform))
	b.WriteString("\n\n")
	b.WriteString(m.renderChart("Juegos por Género", s.ByGenre))
	return b.String()
}

// statCard is one boxed figure of the dashboard.
func (m Model) statCard(label, value string, valueStyle lipgloss.Style) string {
	styles := m.theme.Styles()
	content := valueStyle.Bold(true).Render(value) + "\n" + styles.MutedText.Render(label)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderMuted)).
		Padding(0, 1).
		MarginRight(1).
		Width(24).
		Render(content)
}

// renderChart draws a horizontal bar chart of slices.
func (m Model) renderChart(title string, slices []stats.Slice) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	if len(slices) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Sin datos"))
		return b.String()
	}

	labelWidth := 0
	for _, sl := range slices {
		labelWidth = max(labelWidth, len([]rune(sl.Label)))
	}
	for _, sl := range slices {
		filled := int(math.Round(sl.Percent / 100 * chartBarWidth))
		if sl.Count > 0 && filled == 0 {
			filled = 1
		}
		filled = min(filled, chartBarWidth)
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(padRight(sl.Label, labelWidth+2)))
		b.WriteString(styles.AccentText.Render(strings.Repeat("█", filled)))
		b.WriteString(styles.FaintText.Render(strings.Repeat("░", chartBarWidth-filled)))
		b.WriteString(styles.Text.Render(fmt.Sprintf(" %d", sl.Count)))
		b.WriteString(styles.FaintText.Render(fmt.Sprintf(" (%.1f%%)", sl.Percent)))
	}
	return b.String()
}
