package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
	"github.com/five82/plusultra/internal/reviews"
	"github.com/five82/plusultra/internal/state"
)

// User-facing texts used when the backend gives no message of its own.
const (
	msgLibraryFailed    = "Error al cargar la biblioteca"
	msgStatsFailed      = "Error al cargar las estadísticas"
	msgFeedFailed       = "Error al cargar el feed"
	msgFriendsFailed    = "Error al cargar los amigos"
	msgCreateFailed     = "Error al agregar juego"
	msgUpdateFailed     = "Error al actualizar juego"
	msgToggleFailed     = "Error al actualizar estado"
	msgDeleteFailed     = "Error al eliminar juego"
	msgLoginFailed      = "Error al iniciar sesión"
	msgRegisterFailed   = "Error al registrarse"
	msgProfileFailed    = "Error al actualizar el perfil"
	msgAvatarFailed     = "Error al subir la foto de perfil"
	msgFriendFailed     = "Error al añadir amigo"
	msgNeedLogin        = "Inicia sesión para continuar."
	msgGameNotFound     = "Juego no encontrado en la biblioteca"
	msgDeleteGamePrompt = "¿Estás seguro de que quieres eliminar este juego y todas sus reseñas?"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type libraryLoadedMsg struct {
	snapshot state.Snapshot
	applied  bool
	err      error
}

type statsLoadedMsg struct {
	snapshot state.Snapshot
	applied  bool
	err      error
}

type feedLoadedMsg struct {
	snapshot state.Snapshot
	applied  bool
	err      error
}

type gameSavedMsg struct {
	game api.Game
	edit bool
	err  error
}

type gameCompletedMsg struct {
	id   string
	game api.Game
	err  error
}

type gameDeletedMsg struct {
	id  string
	err error
}

type searchDueMsg struct {
	tag uint64
}

type searchResultsMsg struct {
	tag     uint64
	results []api.SearchResult
	err     error
}

type reviewsResultMsg reviews.Result

type authDoneMsg struct {
	register bool
	user     api.User
	err      error
}

type profileSavedMsg struct {
	avatar bool
	user   api.User
	err    error
}

type friendsLoadedMsg struct {
	seq     uint64
	friends []api.Friend
	err     error
}

type friendAddedMsg struct {
	nickname string
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// requestContext returns a bounded context for one request. The session
// credential is captured now, when the command is built, so a response that
// arrives after logout was still sent with the token valid at issue time.
func (m Model) requestContext() (context.Context, context.CancelFunc) {
	ctx := m.ctx
	if m.session != nil {
		if authed, err := m.session.Authorize(ctx); err == nil {
			ctx = authed
		}
	}
	return context.WithTimeout(ctx, m.requestTimeout)
}

// reloadLibrary issues a library fetch for the current filters.
func (m *Model) reloadLibrary() tea.Cmd {
	if m.store == nil || m.client == nil {
		return nil
	}
	t := m.store.BeginLibrary()
	m.snapshot.Loading = true
	return m.loadLibraryCmd(t)
}

func (m Model) loadLibraryCmd(t state.Ticket) tea.Cmd {
	ctx, cancel := m.requestContext()
	client, store := m.client, m.store
	return func() tea.Msg {
		defer cancel()
		games, err := client.ListGames(ctx, t.Filters.Values())
		if err != nil {
			log.Warn().Err(err).Str("query", t.Filters.Encode()).Msg("library fetch failed")
		}
		applied := store.ApplyLibrary(t, games, err)
		return libraryLoadedMsg{snapshot: store.Snapshot(), applied: applied, err: err}
	}
}

// loadStats issues a dashboard fetch. Logged-out users get local stats only.
func (m *Model) loadStats() tea.Cmd {
	if m.store == nil || m.client == nil || !m.account.Active() {
		return nil
	}
	seq := m.store.BeginStats()
	ctx, cancel := m.requestContext()
	client, store := m.client, m.store
	return func() tea.Msg {
		defer cancel()
		dashboard, err := client.DashboardStats(ctx)
		var result *api.DashboardStats
		if err == nil {
			result = &dashboard
		} else {
			log.Warn().Err(err).Msg("dashboard fetch failed")
		}
		applied := store.ApplyStats(seq, result, err)
		return statsLoadedMsg{snapshot: store.Snapshot(), applied: applied, err: err}
	}
}

func (m *Model) loadFeed() tea.Cmd {
	if m.store == nil || m.client == nil || !m.account.Active() {
		return nil
	}
	seq := m.store.BeginFeed()
	ctx, cancel := m.requestContext()
	client, store := m.client, m.store
	return func() tea.Msg {
		defer cancel()
		feed, err := client.Feed(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("feed fetch failed")
		}
		applied := store.ApplyFeed(seq, feed, err)
		return feedLoadedMsg{snapshot: store.Snapshot(), applied: applied, err: err}
	}
}

func (m *Model) loadFriends() tea.Cmd {
	if m.client == nil || !m.account.Active() {
		return nil
	}
	m.friendsSeq++
	seq := m.friendsSeq
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		friends, err := client.ListFriends(ctx)
		return friendsLoadedMsg{seq: seq, friends: friends, err: err}
	}
}

func (m Model) saveGameCmd(sub forms.GameSubmission) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		game, err := sub.Send(ctx, client)
		return gameSavedMsg{game: game, edit: sub.ID != "", err: err}
	}
}

func (m Model) toggleCompletedCmd(g api.Game) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	id, completed := g.ID, !g.Completed
	return func() tea.Msg {
		defer cancel()
		game, err := client.SetCompleted(ctx, id, completed)
		return gameCompletedMsg{id: id, game: game, err: err}
	}
}

func (m Model) deleteGameCmd(id string) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		return gameDeletedMsg{id: id, err: client.DeleteGame(ctx, id)}
	}
}

func (m Model) searchCmd(tag uint64, title string) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		results, err := client.SearchGames(ctx, title)
		return searchResultsMsg{tag: tag, results: results, err: err}
	}
}

// searchDueCmd fires the debounced search trigger tag after delay.
func searchDueCmd(delay time.Duration, tag uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDueMsg{tag: tag}
	})
}

func (m Model) reviewsCmd(req reviews.Request) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		return reviewsResultMsg(req.Run(ctx, client))
	}
}

func (m Model) addFriendCmd(nickname string) tea.Cmd {
	ctx, cancel := m.requestContext()
	client := m.client
	return func() tea.Msg {
		defer cancel()
		return friendAddedMsg{nickname: nickname, err: client.AddFriend(ctx, nickname)}
	}
}
