package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plusultra/internal/stats"
)

// profileContent renders the player profile: identity, level, totals, the
// latest game, friends and recent additions.
func (m Model) profileContent() string {
	styles := m.theme.Styles()
	if !m.account.Active() {
		return styles.MutedText.Render(msgNeedLogin) + "\n\n" +
			styles.AccentText.Render("L") + styles.FaintText.Render(": Iniciar Sesión")
	}

	user := m.account.User
	games := m.snapshot.Games

	var b strings.Builder

	// ID card
	avatar := "○"
	if strings.TrimSpace(user.ProfilePicURL) != "" {
		avatar = "◉"
	}
	var card strings.Builder
	card.WriteString(styles.AccentText.Bold(true).Render(avatar + "  @" + user.Nickname))
	card.WriteString("\n")
	card.WriteString(styles.MutedText.Render(user.Email))
	if phrase := strings.TrimSpace(user.Phrase); phrase != "" {
		card.WriteString("\n")
		card.WriteString(styles.Text.Italic(true).Render("“" + phrase + "”"))
	}
	if user.ProfilePicURL != "" {
		card.WriteString("\n")
		card.WriteString(styles.FaintText.Render(truncateMiddle(user.ProfilePicURL, 48)))
	}
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 2).
		Render(card.String()))
	b.WriteString("\n\n")

	// Level
	level := stats.Level(games)
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Nivel %d", level.Level)))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%.0f / %.0f XP", math.Floor(level.XP), level.Next)))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(level.Progress / 100))
	b.WriteString("\n\n")

	// Totals
	completed := 0
	var hours float64
	for _, g := range games {
		hours += g.HoursPlayed
		if g.Completed {
			completed++
		}
	}
	rate := stats.CompletionRate(games)
	b.WriteString(styles.MutedText.Render("Juegos "))
	b.WriteString(styles.InfoText.Render(fmt.Sprintf("%d", len(games))))
	b.WriteString(styles.MutedText.Render("   Completados "))
	b.WriteString(styles.SuccessText.Render(fmt.Sprintf("%d", completed)))
	b.WriteString(styles.MutedText.Render("   Horas "))
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("%.1f", hours)))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(rate / 100))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("%.1f%%", rate)))
	b.WriteString("\n\n")

	// Latest game
	b.WriteString(styles.Text.Bold(true).Render("Último juego"))
	b.WriteString("\n")
	if len(games) == 0 {
		b.WriteString(styles.FaintText.Render("Tu biblioteca está vacía."))
	} else {
		last := games[0]
		b.WriteString(styles.AccentText.Render(last.Title))
		b.WriteString(styles.FaintText.Render(" · " + last.Platform + " · " + last.Genre))
		b.WriteString("\n")
		b.WriteString(m.renderStatusBadge(last))
		b.WriteString(" ")
		b.WriteString(styles.WarningText.Render(stats.Stars(last.AverageRating)))
		if last.AchievementsTotal > 0 {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render("Logros "))
			b.WriteString(m.bar.ViewAs(stats.AchievementProgress(last) / 100))
			b.WriteString(styles.FaintText.Render(fmt.Sprintf(" %d/%d", last.AchievementsEarned, last.AchievementsTotal)))
		}
	}
	b.WriteString("\n\n")

	// Friends
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Amigos (%d)", len(m.friends))))
	b.WriteString("\n")
	switch {
	case m.friendsErr != "":
		b.WriteString(styles.DangerText.Render(m.friendsErr))
	case len(m.friends) == 0:
		b.WriteString(styles.FaintText.Render("Aún no tienes amigos. Añádelos desde Ajustes (S)."))
	default:
		for i, f := range m.friends {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(styles.AccentText.Render("@" + f.Nickname))
			if f.Phrase != "" {
				b.WriteString(styles.FaintText.Render("  " + truncate(f.Phrase, 60)))
			}
		}
	}
	b.WriteString("\n\n")

	// Recent additions
	b.WriteString(styles.Text.Bold(true).Render("Añadidos recientemente"))
	recent := stats.Recent(games, recentGamesLimit)
	if len(recent) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Sin juegos todavía."))
	}
	for _, g := range recent {
		b.WriteString("\n")
		mark := styles.MutedText.Render("·")
		if g.Completed {
			mark = styles.SuccessText.Render("✓")
		}
		b.WriteString(mark + " " + styles.Text.Render(g.Title))
		if t := g.ParsedCreatedAt(); !t.IsZero() {
			b.WriteString(styles.FaintText.Render("  " + t.Local().Format("02/01/2006")))
		}
	}
	return b.String()
}
