// Package ui provides the terminal interface of the PLUS ULTRA client.
//
// The interface is a Bubble Tea program. Model holds all view state and is
// updated only on the Bubble Tea goroutine; network work runs inside
// tea.Cmd functions and reports back through messages.
//
// # Views
//
//   - Biblioteca: filterable game list with a summary card
//   - Añadir/Editar Juego: game form with debounced metadata suggestions
//   - Detalle: one game with its reviews and an inline review editor
//   - Estadísticas: dashboard totals and breakdown charts
//   - Iniciar Sesión / Registro: account forms
//   - Perfil: level, totals, latest game, friends and recent additions
//   - Actividad: recent activity feed
//   - Ajustes: profile editor, avatar upload and friend requests
//
// # Consistency
//
// Every fetch is issued through state.Store or reviews.Panel, which hand out
// sequence numbers. A response is applied only while its number is still the
// latest issued, so a slow response never replaces a newer one. Requests
// capture the session credential when the command is built.
//
// # Key Bindings
//
// Press h or ? for the full list. The main ones:
//
//   - Tab / Shift+Tab: cycle Biblioteca, Estadísticas, Actividad, Perfil
//   - b, s, a, p, S: jump to a view
//   - n: add a game; Enter: open the selected game
//   - /, 1, 2, 3, o, x: search, filter, sort and reset the library
//   - c, E, X: toggle completed, edit and delete a game
//   - w, u, d: write, edit and delete a review
//   - L: log in or out; T: cycle theme; Q or Ctrl+C: quit
package ui
