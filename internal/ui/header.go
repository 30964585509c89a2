package ui

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
)

const logoText = "PLUS ULTRA"

// renderHeader renders the status bar: logo, view, library status and the
// account area.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	left := []string{m.renderLogo(bg)}
	left = append(left, bg.Render(m.currentView.String(), styles.Text.Bold(true)))

	switch {
	case m.snapshot.IsOffline():
		left = append(left,
			bg.Render("SIN CONEXIÓN "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Reintentando...", styles.WarningText.Bold(true)))
	case m.snapshot.Loading && !m.snapshot.HasGames:
		left = append(left, bg.Render("Conectando...", styles.WarningText.Bold(true)))
	case m.snapshot.HasGames:
		completed := 0
		for _, g := range m.snapshot.Games {
			if g.Completed {
				completed++
			}
		}
		left = append(left,
			bg.Render(fmt.Sprintf("%d juegos", len(m.snapshot.Games)), styles.InfoText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d completados", completed), styles.SuccessText))
	}

	if !m.lastUpdated.IsZero() && m.width >= LayoutCompactWidth {
		left = append(left, bg.Render(m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}

	leftStr := strings.Join(left, sep)
	right := m.renderAccount(styles, bg)

	gap := m.width - 2 - lipgloss.Width(leftStr) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return styles.Header.Width(m.width).Render(leftStr + bg.Spaces(gap) + right)
}

// renderLogo colors each letter of the logo from the theme's palette.
func (m Model) renderLogo(bg BgStyle) string {
	colors := m.theme.LogoColors
	if len(colors) == 0 {
		colors = []string{m.theme.Accent}
	}
	var b strings.Builder
	i := 0
	for _, r := range logoText {
		if r == ' ' {
			b.WriteString(bg.Space())
			continue
		}
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[i%len(colors)]))
		b.WriteString(bg.Render(string(r), style))
		i++
	}
	return b.String()
}

// renderAccount shows the signed-in user, or the login hint.
func (m Model) renderAccount(styles Styles, bg BgStyle) string {
	if !m.account.Active() {
		return bg.Hint("L", "Iniciar Sesión", styles.AccentText, styles.MutedText)
	}
	user := m.account.User
	name := user.Nickname
	if name == "" {
		name = user.Email
	}
	avatar := "○"
	if strings.TrimSpace(user.ProfilePicURL) != "" {
		avatar = "◉"
	}
	return bg.Pair(avatar, "@"+name, styles.AccentText, styles.Text.Bold(true))
}

// classifyConnectionError returns a short label for a fetch failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return "TIMEOUT"
	case api.StatusCode(err) >= 500:
		return "SERVIDOR"
	case api.StatusCode(err) == 401 || api.StatusCode(err) == 403:
		return "NO AUTORIZADO"
	case strings.Contains(strings.ToLower(err.Error()), "refused"):
		return "RECHAZADA"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewAddGame, ViewEditGame:
		commands = []cmd{
			{"Tab", "Campo"},
			{"Space", "Opción"},
			{"Ctrl+S", "Guardar"},
			{"Esc", "Cancelar"},
		}
		if m.gameForm != nil && len(m.gameForm.suggestions) > 0 {
			commands = append([]cmd{{"↑/↓", "Sugerencia"}, {"Enter", "Usar"}}, commands...)
		}
	case ViewDetail:
		if m.reviewForm != nil {
			commands = []cmd{
				{"Tab", "Campo"},
				{"←/→", "Cambiar"},
				{"Enter", "Guardar"},
				{"Esc", "Cancelar"},
			}
			break
		}
		commands = []cmd{
			{"c", "Completado"},
			{"E", "Editar"},
			{"X", "Eliminar"},
			{"w", "Reseñar"},
			{"u", "Editar reseña"},
			{"d", "Borrar reseña"},
			{"Esc", "Volver"},
			{"?", "Más"},
		}
	case ViewLogin, ViewRegister:
		other := "Registro"
		if m.currentView == ViewRegister {
			other = "Login"
		}
		commands = []cmd{
			{"Tab", "Campo"},
			{"Enter", "Enviar"},
			{"Ctrl+R", other},
			{"Esc", "Volver"},
		}
	case ViewSettings:
		commands = []cmd{
			{"Tab", "Campo"},
			{"Enter", "Aplicar"},
			{"Ctrl+T", "Tema"},
			{"Esc", "Volver"},
		}
	case ViewFeed:
		commands = []cmd{
			{"j/k", "Navegar"},
			{"Enter", "Ver juego"},
			{"R", "Recargar"},
			{"b", "Biblioteca"},
			{"?", "Más"},
		}
	case ViewStats, ViewProfile:
		commands = []cmd{
			{"j/k", "Desplazar"},
			{"R", "Recargar"},
			{"b", "Biblioteca"},
			{"S", "Ajustes"},
			{"Tab", "Vista"},
			{"?", "Más"},
		}
	default: // ViewLibrary
		if m.searching {
			commands = []cmd{
				{"Enter", "Aplicar"},
				{"Esc", "Cancelar"},
			}
			break
		}
		f := m.snapshot.Filters
		commands = []cmd{
			{"/", "Buscar"},
			{"1", orAll(f.Genre, "Género")},
			{"2", orAll(f.Platform, "Plataforma")},
			{"3", f.Completion.Label()},
			{"o", library.SortLabel(f.SortBy)},
			{"n", "Añadir"},
			{"Enter", "Detalle"},
			{"s", "Stats"},
			{"?", "Más"},
		}
	}

	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments, bg.Hint(c.key, c.desc, styles.AccentText, styles.MutedText))
	}

	// Show active search query
	if m.currentView == ViewLibrary && !m.searching && m.snapshot.Filters.Query != "" {
		segments = append(segments,
			bg.Render("/"+truncate(m.snapshot.Filters.Query, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments, bg.Hint("T", m.theme.Name, styles.AccentText, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows the last action result.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	if m.flash == "" {
		return bg.FillLine("", m.width)
	}
	style := styles.SuccessText
	if m.flashErr {
		style = styles.DangerText
	}
	return bg.FillLine(bg.Space()+bg.Render(truncate(m.flash, m.width-2), style), m.width)
}

func orAll(value, label string) string {
	if value == "" {
		return label
	}
	return value
}
