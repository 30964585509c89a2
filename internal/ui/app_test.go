package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
	"github.com/five82/plusultra/internal/session"
	"github.com/five82/plusultra/internal/state"
)

// fakeBackend is an in-memory PLUS ULTRA API.
type fakeBackend struct {
	mu        sync.Mutex
	games     []api.Game
	nextID    int
	searches  []string
	deletes   []string
	listAuth  []string
	listDelay func(query url.Values) time.Duration
}

func newFakeBackend(games ...api.Game) *fakeBackend {
	return &fakeBackend{games: games, nextID: len(games) + 1}
}

func (b *fakeBackend) router() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/juegos", func(r chi.Router) {
		r.Get("/", b.listGames)
		r.Post("/", b.createGame)
		r.Put("/{id}", b.updateGame)
		r.Delete("/{id}", b.deleteGame)
	})
	r.Get("/api/reseñas/juego/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Review{})
	})
	r.Get("/api/search-game/{title}", func(w http.ResponseWriter, r *http.Request) {
		title, _ := url.PathUnescape(chi.URLParam(r, "title"))
		b.mu.Lock()
		b.searches = append(b.searches, title)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, []api.SearchResult{
			{ID: 1, Name: title + " Infinite", Released: "2021-12-08"},
			{ID: 2, Name: title + " 2", Released: "2004-11-09"},
		})
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, api.AuthResponse{
			Token: "tok-1",
			User:  api.User{ID: "u1", Email: creds.Email, Nickname: "player1"},
		})
	})
	r.Get("/api/stats/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.DashboardStats{})
	})
	r.Get("/api/feed", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Activity{})
	})
	r.Get("/api/friends/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Friend{})
	})
	return r
}

func (b *fakeBackend) listGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	b.mu.Lock()
	b.listAuth = append(b.listAuth, r.Header.Get("Authorization"))
	delay := b.listDelay
	b.mu.Unlock()
	if delay != nil {
		time.Sleep(delay(query))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.Game{}
	for _, g := range b.games {
		if genre := query.Get("genero"); genre != "" && g.Genre != genre {
			continue
		}
		if q := query.Get("busqueda"); q != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(q)) {
			continue
		}
		out = append(out, g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *fakeBackend) createGame(w http.ResponseWriter, r *http.Request) {
	var in api.GameInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	g := api.Game{
		ID:          fmt.Sprintf("g%d", b.nextID),
		Title:       in.Title,
		Genre:       in.Genre,
		Platform:    in.Platform,
		ReleaseYear: in.ReleaseYear,
		Developer:   in.Developer,
		Completed:   in.Completed,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	b.nextID++
	b.games = append([]api.Game{g}, b.games...)
	writeJSON(w, http.StatusCreated, g)
}

func (b *fakeBackend) updateGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.games {
		if b.games[i].ID != id {
			continue
		}
		if done, ok := body["completado"].(bool); ok {
			b.games[i].Completed = done
		}
		writeJSON(w, http.StatusOK, b.games[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Juego no encontrado"})
}

func (b *fakeBackend) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, id)
	for i := range b.games {
		if b.games[i].ID == id {
			b.games = append(b.games[:i], b.games[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) snapshot() (games []api.Game, searches, deletes, listAuth []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Game(nil), b.games...),
		append([]string(nil), b.searches...),
		append([]string(nil), b.deletes...),
		append([]string(nil), b.listAuth...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness drives a Model the way the Bubble Tea runtime does: commands run
// on their own goroutines and their messages are fed back through Update.
type harness struct {
	t           *testing.T
	model       Model
	msgs        chan tea.Msg
	sessionPath string
}

func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL+"/api", 2*time.Second)
	require.NoError(t, err)

	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.json")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := New(Options{
		Context:        ctx,
		Client:         client,
		Store:          state.NewStore(library.Default()),
		Session:        session.NewHolder(sessionPath, client),
		PollTick:       time.Hour,
		SearchDebounce: 30 * time.Millisecond,
		RequestTimeout: 2 * time.Second,
		PrefsPath:      filepath.Join(dir, "prefs.toml"),
	})
	h := &harness{t: t, model: m, msgs: make(chan tea.Msg, 512), sessionPath: sessionPath}
	h.run(m.Init())
	h.update(tea.WindowSizeMsg{Width: 200, Height: 50})
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			h.msgs <- msg
		}
	}()
}

func (h *harness) update(msg tea.Msg) {
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			h.run(cmd)
		}
		return
	}
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(cmd)
}

// waitFor processes messages until cond holds.
func (h *harness) waitFor(what string, cond func(Model) bool) {
	h.t.Helper()
	deadline := time.After(3 * time.Second)
	for !cond(h.model) {
		select {
		case msg := <-h.msgs:
			h.update(msg)
		case <-deadline:
			h.t.Fatalf("timed out waiting for %s", what)
		}
	}
}

// settle processes messages until none arrive for quiet.
func (h *harness) settle(quiet time.Duration) {
	for {
		select {
		case msg := <-h.msgs:
			h.update(msg)
		case <-time.After(quiet):
			return
		}
	}
}

func (h *harness) key(s string) {
	switch s {
	case "tab":
		h.update(tea.KeyMsg{Type: tea.KeyTab})
	case "enter":
		h.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "backspace":
		h.update(tea.KeyMsg{Type: tea.KeyBackspace})
	case "ctrl+s":
		h.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	default:
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			h.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func libraryLoaded(m Model) bool {
	return m.snapshot.HasGames && !m.snapshot.Loading
}

func hasTitle(games []api.Game, title string) bool {
	for _, g := range games {
		if g.Title == title {
			return true
		}
	}
	return false
}

func seedGames() []api.Game {
	return []api.Game{
		{ID: "g1", Title: "Celeste", Genre: "Aventura", Platform: "PC", ReleaseYear: 2018, Developer: "Maddy Makes Games"},
		{ID: "g2", Title: "DOOM Eternal", Genre: "Acción", Platform: "PC", ReleaseYear: 2020, Developer: "id Software"},
	}
}

func TestModel_LoginShowsNicknameAndRefetchesLibrary(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)
	assert.Contains(t, h.model.View(), "Iniciar Sesión")

	h.key("L")
	require.Equal(t, ViewLogin, h.model.currentView)

	h.typeText("ana@example.com")
	h.key("tab")
	h.typeText("secret")
	h.key("enter")

	h.waitFor("login", func(m Model) bool {
		return m.account.Active() && m.currentView == ViewLibrary && libraryLoaded(m)
	})

	assert.Contains(t, h.model.View(), "@player1")

	data, err := os.ReadFile(h.sessionPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-1")

	_, _, _, listAuth := backend.snapshot()
	require.NotEmpty(t, listAuth)
	assert.Equal(t, "Bearer tok-1", listAuth[len(listAuth)-1])
}

func TestModel_LoginFailureShowsServerMessage(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.waitFor("initial library", libraryLoaded)

	h.key("L")
	h.typeText("ana@example.com")
	h.key("tab")
	h.typeText("wrong")
	h.key("enter")

	h.waitFor("login failure", func(m Model) bool { return m.auth.err != "" })
	assert.Equal(t, "Credenciales inválidas", h.model.auth.err)
	assert.False(t, h.model.account.Active())
	assert.Equal(t, ViewLogin, h.model.currentView)

	_, err := os.Stat(h.sessionPath)
	assert.True(t, os.IsNotExist(err))
}

func TestModel_CreateGameAppearsWithoutManualRefresh(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("n")
	require.Equal(t, ViewAddGame, h.model.currentView)

	h.typeText("Dark Souls")
	h.key("tab") // genre, RPG by default
	h.key("tab") // platform, PC by default
	h.key("tab") // release year
	for range 6 {
		h.key("backspace")
	}
	h.typeText("2011")
	h.key("tab") // developer
	h.typeText("FromSoftware")
	h.key("ctrl+s")

	h.waitFor("game in library", func(m Model) bool {
		return m.currentView == ViewLibrary && hasTitle(m.snapshot.Games, "Dark Souls")
	})
	assert.Contains(t, h.model.View(), "Dark Souls")

	games, _, _, _ := backend.snapshot()
	require.True(t, hasTitle(games, "Dark Souls"))
	created := games[0]
	assert.Equal(t, "RPG", created.Genre)
	assert.Equal(t, "PC", created.Platform)
	assert.Equal(t, 2011, created.ReleaseYear)
	assert.Equal(t, "FromSoftware", created.Developer)
}

func TestModel_CreateGameValidationStaysOnForm(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("n")
	h.key("ctrl+s")
	h.settle(50 * time.Millisecond)

	assert.Equal(t, ViewAddGame, h.model.currentView)
	require.NotNil(t, h.model.gameForm)
	assert.NotEmpty(t, h.model.gameForm.err)

	games, _, _, _ := backend.snapshot()
	assert.Empty(t, games)
}

func TestModel_DeclinedDeleteKeepsGame(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("X")
	require.NotNil(t, h.model.modal)
	assert.Contains(t, h.model.View(), "Confirmar")

	h.key("n")
	assert.Nil(t, h.model.modal)
	h.settle(100 * time.Millisecond)

	games, _, deletes, _ := backend.snapshot()
	assert.Empty(t, deletes)
	assert.Len(t, games, 2)
	assert.True(t, hasTitle(h.model.snapshot.Games, "Celeste"))
}

func TestModel_ConfirmedDeleteRemovesGame(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("X")
	h.key("y")

	h.waitFor("game removed", func(m Model) bool {
		return libraryLoaded(m) && !hasTitle(m.snapshot.Games, "Celeste")
	})
	_, _, deletes, _ := backend.snapshot()
	assert.Equal(t, []string{"g1"}, deletes)
}

func TestModel_TitleSearchIsDebounced(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("n")
	for _, r := range []string{"H", "a", "l", "o"} {
		h.key(r)
	}

	h.waitFor("suggestions", func(m Model) bool {
		return m.gameForm != nil && len(m.gameForm.suggestions) > 0
	})
	h.settle(100 * time.Millisecond)

	_, searches, _, _ := backend.snapshot()
	assert.Equal(t, []string{"Halo"}, searches)
	assert.Contains(t, h.model.View(), "Halo Infinite (2021-12-08)")
}

// searchDueFrom runs cmd and its batched children until the debounce tick
// arrives.
func searchDueFrom(t *testing.T, cmd tea.Cmd) searchDueMsg {
	t.Helper()
	out := make(chan tea.Msg, 8)
	var launch func(tea.Cmd)
	launch = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, child := range batch {
					launch(child)
				}
				return
			}
			out <- msg
		}()
	}
	launch(cmd)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-out:
			if due, ok := msg.(searchDueMsg); ok {
				return due
			}
		case <-deadline:
			t.Fatal("no debounce tick")
		}
	}
}

func TestModel_TickFromClosedFormDoesNotFireNewForm(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("n")
	next, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("H")})
	h.model = next.(Model)
	stale := searchDueFrom(t, cmd)

	h.key("esc")
	h.key("n")
	next, fresh := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	h.model = next.(Model)

	next, cmd = h.model.Update(stale)
	h.model = next.(Model)
	assert.Nil(t, cmd)
	require.NotNil(t, h.model.gameForm)
	assert.False(t, h.model.gameForm.searching)
	assert.True(t, h.model.debounce.Pending(), "the new form's trigger still waits")

	h.update(searchDueFrom(t, fresh))
	h.settle(100 * time.Millisecond)

	_, searches, _, _ := backend.snapshot()
	assert.Equal(t, []string{"X"}, searches)
}

func TestModel_SuggestionFillsFormWithoutNewSearch(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("n")
	h.typeText("Halo")
	h.waitFor("suggestions", func(m Model) bool {
		return m.gameForm != nil && len(m.gameForm.suggestions) > 0
	})

	h.update(tea.KeyMsg{Type: tea.KeyDown})
	h.key("enter")
	h.settle(100 * time.Millisecond)

	form := h.model.gameForm
	require.NotNil(t, form)
	assert.Equal(t, "Halo Infinite", form.form.Draft().Title)
	assert.Equal(t, 2021, form.form.Draft().ReleaseYear)
	assert.Empty(t, form.suggestions)

	_, searches, _, _ := backend.snapshot()
	assert.Equal(t, []string{"Halo"}, searches)
}

func TestModel_LatestFilterWins(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	backend.listDelay = func(q url.Values) time.Duration {
		if q.Get("genero") == "Acción" {
			return 300 * time.Millisecond
		}
		return 0
	}
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("1") // Acción, slow
	h.key("1") // Aventura, fast
	require.Equal(t, "Aventura", h.model.snapshot.Filters.Genre)

	h.settle(500 * time.Millisecond)

	require.Len(t, h.model.snapshot.Games, 1)
	assert.Equal(t, "Celeste", h.model.snapshot.Games[0].Title)
	assert.Equal(t, "Aventura", h.model.snapshot.Filters.Genre)
	assert.False(t, h.model.snapshot.Loading)
}

func TestModel_ToggleCompletedRefetches(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)
	require.False(t, h.model.snapshot.Games[0].Completed)

	h.key("c")
	h.waitFor("completed", func(m Model) bool {
		return libraryLoaded(m) && len(m.snapshot.Games) > 0 && m.snapshot.Games[0].Completed
	})
	assert.Contains(t, h.model.View(), "COMPLETADO")
}

func TestModel_FeedAndStatsNeedLogin(t *testing.T) {
	h := newHarness(t, newFakeBackend(seedGames()...))
	h.waitFor("initial library", libraryLoaded)

	h.key("a")
	assert.Equal(t, ViewFeed, h.model.currentView)
	assert.Contains(t, h.model.View(), msgNeedLogin)

	h.key("s")
	assert.Equal(t, ViewStats, h.model.currentView)
	view := h.model.View()
	assert.Contains(t, view, "Dashboard Personal")
	assert.Contains(t, view, "Juegos en Biblioteca")
}

func TestModel_SettingsRedirectsToLoginWhenLoggedOut(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.waitFor("initial library", libraryLoaded)

	h.key("S")
	assert.Equal(t, ViewLogin, h.model.currentView)
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.waitFor("initial library", libraryLoaded)

	h.key("?")
	require.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "Atajos de teclado")

	h.key("j")
	assert.False(t, h.model.showHelp)
}

func TestModel_TabCyclesViews(t *testing.T) {
	h := newHarness(t, newFakeBackend())
	h.waitFor("initial library", libraryLoaded)

	want := []View{ViewStats, ViewFeed, ViewProfile, ViewLibrary}
	for _, v := range want {
		h.key("tab")
		assert.Equal(t, v, h.model.currentView)
	}
}

func TestModel_TrailingSpaceDoesNotRefetch(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)

	h.key("/")
	h.typeText("Celeste")
	h.settle(100 * time.Millisecond)
	require.Equal(t, "Celeste", h.model.snapshot.Filters.Query)
	_, _, _, before := backend.snapshot()

	h.typeText(" ")
	h.settle(100 * time.Millisecond)

	_, _, _, after := backend.snapshot()
	assert.Len(t, after, len(before))
	assert.False(t, h.model.snapshot.Loading)
}

func TestModel_SupersededReviewMutationStillRefreshesLibrary(t *testing.T) {
	backend := newFakeBackend(seedGames()...)
	h := newHarness(t, backend)
	h.waitFor("initial library", libraryLoaded)
	_, _, _, before := backend.snapshot()

	next, cmd := h.model.Update(reviewsResultMsg{GameID: "g1", Seq: 1})
	h.model = next.(Model)
	assert.Nil(t, cmd, "an unchanged stale result is dropped")

	next, cmd = h.model.Update(reviewsResultMsg{GameID: "g1", Seq: 1, Changed: true})
	h.model = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, h.model.snapshot.Loading)

	h.run(cmd)
	h.waitFor("library reload", libraryLoaded)
	_, _, _, after := backend.snapshot()
	assert.Len(t, after, len(before)+1)
}
