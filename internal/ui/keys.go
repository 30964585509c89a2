package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewLibrary  key.Binding
	ViewStats    key.Binding
	ViewFeed     key.Binding
	ViewProfile  key.Binding
	ViewSettings key.Binding
	Account      key.Binding
	NewGame      key.Binding

	// Library actions
	Search          key.Binding
	CycleGenre      key.Binding
	CyclePlatform   key.Binding
	CycleCompletion key.Binding
	CycleSort       key.Binding
	ResetFilters    key.Binding

	// Game actions
	ToggleCompleted key.Binding
	EditGame        key.Binding
	DeleteGame      key.Binding

	// Review actions
	WriteReview  key.Binding
	EditReview   key.Binding
	DeleteReview key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Forms
	Confirm   key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	SwitchTo  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "Q"),
			key.WithHelp("Q", "Salir"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Ayuda"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cambiar tema"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Siguiente vista"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Vista anterior"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Volver a la biblioteca"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Recargar"),
		),

		// View switching
		ViewLibrary: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Biblioteca"),
		),
		ViewStats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Estadísticas"),
		),
		ViewFeed: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Actividad"),
		),
		ViewProfile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Perfil"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Ajustes"),
		),
		Account: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Iniciar/cerrar sesión"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Añadir juego"),
		),

		// Library actions
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Buscar"),
		),
		CycleGenre: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Género"),
		),
		CyclePlatform: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Plataforma"),
		),
		CycleCompletion: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Estado"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Ordenar"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Limpiar filtros"),
		),

		// Game actions
		ToggleCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Completado/pendiente"),
		),
		EditGame: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Editar juego"),
		),
		DeleteGame: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Eliminar juego"),
		),

		// Review actions
		WriteReview: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Escribir reseña"),
		),
		EditReview: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Editar reseña"),
		),
		DeleteReview: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Eliminar reseña"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Bajar"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Inicio"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Final"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Página arriba"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Página abajo"),
		),

		// Forms
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Abrir/aplicar"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Guardar"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Siguiente campo"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Campo anterior"),
		),
		Cycle: key.NewBinding(
			key.WithKeys(" ", "left", "right"),
			key.WithHelp("space", "Cambiar opción"),
		),
		SwitchTo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Login/registro"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewLibrary, k.ViewStats, k.ViewFeed, k.ViewProfile, k.ViewSettings, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		// Library
		{k.Confirm, k.NewGame, k.Search, k.CycleGenre, k.CyclePlatform, k.CycleCompletion, k.CycleSort, k.ResetFilters},
		// Detail
		{k.ToggleCompleted, k.EditGame, k.DeleteGame, k.WriteReview, k.EditReview, k.DeleteReview},
		// Forms
		{k.NextField, k.PrevField, k.Cycle, k.Submit, k.SwitchTo},
		// General
		{k.Account, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
