package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
	"github.com/five82/plusultra/internal/prefs"
	"github.com/five82/plusultra/internal/reviews"
	"github.com/five82/plusultra/internal/session"
	"github.com/five82/plusultra/internal/state"
)

// View represents the current active view. The numbering is stable: other
// code and saved state may refer to views by number.
type View int

const (
	ViewLibrary View = iota
	ViewAddGame
	ViewEditGame
	ViewDetail
	ViewStats
	ViewLogin
	ViewRegister
	ViewProfile
	ViewFeed
	ViewSettings
)

var viewTitles = map[View]string{
	ViewLibrary:  "Biblioteca",
	ViewAddGame:  "Añadir Nuevo Juego",
	ViewEditGame: "Editar Juego",
	ViewDetail:   "Detalle",
	ViewStats:    "Estadísticas",
	ViewLogin:    "Iniciar Sesión",
	ViewRegister: "Registro",
	ViewProfile:  "Perfil",
	ViewFeed:     "Actividad",
	ViewSettings: "Ajustes",
}

func (v View) String() string {
	if title, ok := viewTitles[v]; ok {
		return title
	}
	return "Biblioteca"
}

// tabOrder is the cycle used by tab and shift+tab.
var tabOrder = []View{ViewLibrary, ViewStats, ViewFeed, ViewProfile}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Client         api.Service
	Store          *state.Store
	Session        *session.Holder
	PollTick       time.Duration
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	ThemeName      string
	PrefsPath      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx            context.Context
	client         api.Service
	store          *state.Store
	session        *session.Holder
	prefsPath      string
	pollTick       time.Duration
	debounce       *forms.Debouncer // shared by every game form so tags never repeat
	requestTimeout time.Duration
	keys           keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	account     session.Session

	// Library state
	selectedRow int
	libraryErr  string
	searching   bool
	searchInput textinput.Model
	searchPrev  string

	// Detail state
	detail     api.Game
	reviews    *reviews.Panel
	reviewRow  int
	reviewForm *reviewFormState

	// Forms
	gameForm *gameFormState
	auth     authState
	settings settingsState

	// Profile and feed state
	friends    []api.Friend
	friendsErr string
	friendsSeq uint64
	feedRow    int
	statsErr   string
	feedErr    string

	// Scrollable pages and bars
	pageViewport viewport.Model
	bar          progress.Model

	// Status line
	flash    string
	flashErr bool

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	searchDebounce := opts.SearchDebounce
	if searchDebounce <= 0 {
		searchDebounce = forms.DefaultSearchDebounce
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "Buscar por título o desarrollador..."
	search.CharLimit = 80
	search.Prompt = "/ "

	m := Model{
		ctx:            ctx,
		client:         opts.Client,
		store:          opts.Store,
		session:        opts.Session,
		prefsPath:      prefsPath,
		pollTick:       pollTick,
		debounce:       forms.NewDebouncer(searchDebounce),
		requestTimeout: requestTimeout,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(themeName),
		currentView:    ViewLibrary,
		searchInput:    search,
		auth:           newAuthState(),
		settings:       newSettingsState(),
		bar:            progress.New(progress.WithoutPercentage(), progress.WithWidth(progressBarWidth)),
	}
	m.applyBarColors()
	if m.session != nil {
		m.account = m.session.Snapshot()
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
		if m.client != nil {
			cmds = append(cmds, m.loadLibraryCmd(m.store.BeginLibrary()))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.pageViewport = viewport.New(msg.Width-2, m.contentHeight()-2)
		}
		// Inside the titled box borders
		m.pageViewport.Width = max(msg.Width-2, 1)
		m.pageViewport.Height = max(m.contentHeight()-2, 1)
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case libraryLoadedMsg:
		m.applySnapshot(msg.snapshot)
		if msg.applied {
			m.libraryErr = errorText(msg.err, msgLibraryFailed)
		}
		return m, nil

	case statsLoadedMsg:
		m.applySnapshot(msg.snapshot)
		if msg.applied {
			m.statsErr = errorText(msg.err, msgStatsFailed)
		}
		return m, nil

	case feedLoadedMsg:
		m.applySnapshot(msg.snapshot)
		if msg.applied {
			m.feedErr = errorText(msg.err, msgFeedFailed)
		}
		return m, nil

	case confirmMsg:
		return m.handleConfirm(msg)

	case gameSavedMsg:
		return m.handleGameSaved(msg)

	case gameCompletedMsg:
		return m.handleGameCompleted(msg)

	case gameDeletedMsg:
		return m.handleGameDeleted(msg)

	case searchDueMsg:
		return m.handleSearchDue(msg)

	case searchResultsMsg:
		m.handleSearchResults(msg)
		return m, nil

	case reviewsResultMsg:
		return m.handleReviewsResult(msg)

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case profileSavedMsg:
		m.handleProfileSaved(msg)
		return m, nil

	case friendsLoadedMsg:
		if msg.seq == m.friendsSeq {
			if msg.err != nil {
				m.friendsErr = errorText(msg.err, msgFriendsFailed)
			} else {
				m.friendsErr = ""
				m.friends = msg.friends
			}
		}
		return m, nil

	case friendAddedMsg:
		return m.handleFriendAdded(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns every other key
	if m.capturingInput() {
		return m.handleViewKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.setView(m.cycleView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.setView(m.cycleView(-1))

	case key.Matches(msg, m.keys.ViewLibrary):
		return m.setView(ViewLibrary)

	case key.Matches(msg, m.keys.ViewStats):
		return m.setView(ViewStats)

	case key.Matches(msg, m.keys.ViewFeed):
		return m.setView(ViewFeed)

	case key.Matches(msg, m.keys.ViewProfile):
		return m.setView(ViewProfile)

	case key.Matches(msg, m.keys.ViewSettings):
		return m.setView(ViewSettings)

	case key.Matches(msg, m.keys.NewGame):
		return m.openGameForm(nil)

	case key.Matches(msg, m.keys.Account):
		if m.account.Active() {
			return m.logout()
		}
		return m.setView(ViewLogin)

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshCurrentView()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.currentView != ViewLibrary {
			return m.setView(ViewLibrary)
		}
		return m, nil
	}

	return m.handleViewKey(msg)
}

// handleViewKey dispatches to the handler of the current view.
func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewLibrary:
		return m.handleLibraryKey(msg)
	case ViewAddGame, ViewEditGame:
		return m.handleGameFormKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewLogin, ViewRegister:
		return m.handleAuthKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewFeed:
		return m.handleFeedKey(msg)
	case ViewStats, ViewProfile:
		return m.handlePageKey(msg)
	}
	return m, nil
}

// capturingInput reports whether a text field currently receives keys.
func (m Model) capturingInput() bool {
	switch m.currentView {
	case ViewAddGame, ViewEditGame, ViewLogin, ViewRegister, ViewSettings:
		return true
	case ViewLibrary:
		return m.searching
	case ViewDetail:
		return m.reviewForm != nil
	}
	return false
}

// setView switches views and starts whatever fetch the new view needs.
func (m Model) setView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.flash = ""
	m.pageViewport.GotoTop()

	switch v {
	case ViewLibrary:
		m.searching = false
		m.searchInput.Blur()
		cmd := m.reloadLibrary()
		return m, cmd
	case ViewStats:
		cmd := m.loadStats()
		return m, cmd
	case ViewFeed:
		cmd := m.loadFeed()
		return m, cmd
	case ViewProfile:
		cmd := m.loadFriends()
		return m, cmd
	case ViewSettings:
		if !m.account.Active() {
			m.currentView = ViewLogin
			m.auth.focusLogin()
			return m, nil
		}
		m.settings.seed(m.account.User)
		return m, nil
	case ViewLogin:
		m.auth.focusLogin()
	case ViewRegister:
		m.auth.focusRegister()
	}
	return m, nil
}

func (m Model) cycleView(step int) View {
	for i, v := range tabOrder {
		if v == m.currentView {
			return tabOrder[(i+step+len(tabOrder))%len(tabOrder)]
		}
	}
	return ViewLibrary
}

// refreshCurrentView re-issues the fetch backing the current view.
func (m *Model) refreshCurrentView() tea.Cmd {
	switch m.currentView {
	case ViewStats:
		return m.loadStats()
	case ViewFeed:
		return m.loadFeed()
	case ViewProfile:
		return tea.Batch(m.reloadLibrary(), m.loadFriends())
	case ViewDetail:
		return tea.Batch(m.reloadLibrary(), m.loadReviews())
	default:
		return m.reloadLibrary()
	}
}

// handlePageKey scrolls the stats and profile pages.
func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Scrolling is bounded by the content length
	if m.currentView == ViewStats {
		m.pageViewport.SetContent(m.statsContent())
	} else {
		m.pageViewport.SetContent(m.profileContent())
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		m.pageViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.pageViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.pageViewport.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.pageViewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.pageViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.pageViewport.GotoBottom()
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.session != nil {
		m.account = m.session.Snapshot()
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot installs a store snapshot and keeps selections in range.
func (m *Model) applySnapshot(s state.Snapshot) {
	m.snapshot = s
	m.lastUpdated = time.Now()
	if m.selectedRow >= len(s.Games) {
		m.selectedRow = max(len(s.Games)-1, 0)
	}
	if m.feedRow >= len(s.Feed) {
		m.feedRow = max(len(s.Feed)-1, 0)
	}
	if m.detail.ID != "" {
		if g, ok := s.FindGame(m.detail.ID); ok {
			m.detail = g
		}
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// cycleTheme switches to the next theme and remembers it.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.applyBarColors()
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		log.Warn().Err(err).Msg("save prefs")
	}
}

func (m *Model) applyBarColors() {
	m.bar.FullColor = m.theme.Accent
	m.bar.EmptyColor = m.theme.BorderMuted
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// contentHeight is the height left for the view between the bars.
func (m Model) contentHeight() int {
	return max(m.height-3, 3) // header + command bar + status line
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLibrary:
		return m.renderLibrary()
	case ViewAddGame, ViewEditGame:
		return m.renderGameForm()
	case ViewDetail:
		return m.renderDetail()
	case ViewStats:
		return m.renderPage(m.statsContent())
	case ViewLogin, ViewRegister:
		return m.renderAuth()
	case ViewProfile:
		return m.renderPage(m.profileContent())
	case ViewFeed:
		return m.renderFeed()
	case ViewSettings:
		return m.renderSettings()
	default:
		return ""
	}
}

// renderPage shows long content through the page viewport.
func (m Model) renderPage(content string) string {
	vp := m.pageViewport
	vp.SetContent(content)
	return m.renderTitledBox(m.currentView.String(), vp.View(), m.width, m.contentHeight(), true)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
