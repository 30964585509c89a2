package ui

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Panes
	FocusBg    string // Focused pane

	// List colors
	SelectionBg   string
	SelectionText string

	// Border colors
	Border      string
	BorderMuted string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Logo letters, cycled across "PLUS ULTRA"
	LogoColors []string

	// Badge colors keyed by game status
	StatusColors map[string]string
}

// Game status keys for StatusColors.
const (
	statusCompleted = "completado"
	statusPending   = "pendiente"
)

// Styles builds the Lipgloss styles for t.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	panel := func(bg string) lipgloss.Style {
		return fg(t.Text).Background(lipgloss.Color(bg))
	}

	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    panel(t.Surface),
		SurfaceAlt: panel(t.SurfaceAlt),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   panel(t.Surface).Padding(0, 1),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles holds the prebuilt styles of one theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Selected lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle is the badge for a game status; unknown statuses use the
// muted color.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color, ok := s.statusColors[status]
	if !ok || color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

// WithBackground repaints every style except Selected on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Background, &s.Surface, &s.SurfaceAlt,
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themes = map[string]Theme{
	"Neon":     neonTheme(),
	"Slate":    slateTheme(),
	"Daylight": daylightTheme(),
}

var themeOrder = []string{"Neon", "Slate", "Daylight"}

// GetTheme looks a theme up by name. Unknown names get Neon, the theme a
// fresh install starts with.
func GetTheme(name string) Theme {
	t, ok := themes[name]
	if !ok {
		t = themes[themeOrder[0]]
	}
	return t
}

// NextTheme is the theme after current in the settings cycle.
func NextTheme(current string) string {
	next := 0
	if i := slices.Index(themeOrder, current); i >= 0 {
		next = (i + 1) % len(themeOrder)
	}
	return themeOrder[next]
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	return slices.Clone(themeOrder)
}

func neonTheme() Theme {
	// Night neon: magenta and cyan on near-black
	return Theme{
		Name: "Neon",

		Background: "#07060f",
		Surface:    "#110f22",
		SurfaceAlt: "#171430",
		FocusBg:    "#211c45",

		SelectionBg:   "#ff2e97",
		SelectionText: "#0b0a14",

		Border:      "#3b3470",
		BorderMuted: "#1f1b3d",
		BorderFocus: "#00e5ff",

		Text:    "#eceaff",
		Muted:   "#9a94c7",
		Faint:   "#6d6799",
		Accent:  "#00e5ff",
		Success: "#00ff88",
		Warning: "#ffd166",
		Danger:  "#ff4d6d",
		Info:    "#b388ff",

		LogoColors: []string{"#ff2e97", "#ff8c42", "#ffd166", "#00ff88", "#00e5ff", "#b388ff"},

		StatusColors: map[string]string{
			statusCompleted: "#00ff88",
			statusPending:   "#ffd166",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800
		FocusBg:    "#283548",

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border:      "#334155", // slate-700
		BorderMuted: "#1e293b", // slate-800
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500

		LogoColors: []string{"#38bdf8", "#0ea5e9", "#06b6d4", "#14b8a6"},

		StatusColors: map[string]string{
			statusCompleted: "#16a34a", // green-600
			statusPending:   "#f59e0b", // amber-500
		},
	}
}

func daylightTheme() Theme {
	// Light variant of the web client's day mode
	return Theme{
		Name: "Daylight",

		Background: "#f4f4f8",
		Surface:    "#e4e4ee",
		SurfaceAlt: "#ffffff",
		FocusBg:    "#eef2ff",

		SelectionBg:   "#4f46e5",
		SelectionText: "#ffffff",

		Border:      "#c7c7d6",
		BorderMuted: "#e4e4ee",
		BorderFocus: "#4f46e5",

		Text:    "#1e1b2e",
		Muted:   "#5b5870",
		Faint:   "#8a879c",
		Accent:  "#4f46e5",
		Success: "#15803d",
		Warning: "#b45309",
		Danger:  "#b91c1c",
		Info:    "#0369a1",

		LogoColors: []string{"#db2777", "#ea580c", "#ca8a04", "#16a34a", "#0284c7", "#7c3aed"},

		StatusColors: map[string]string{
			statusCompleted: "#15803d",
			statusPending:   "#b45309",
		},
	}
}
