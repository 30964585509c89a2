package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/forms"
	"github.com/five82/plusultra/internal/session"
)

// Login and register field positions.
const (
	loginEmail = iota
	loginPassword
)

const (
	registerNickname = iota
	registerEmail
	registerPassword
	registerConfirm
)

// authState holds the login and register forms.
type authState struct {
	login    inputGroup
	register inputGroup
	err      string
	busy     bool
}

func newAuthState() authState {
	width := formModalWidth - 12
	return authState{
		login: newInputGroup(width,
			inputSpec{label: "Correo", placeholder: "tu@correo.com", limit: 120},
			inputSpec{label: "Contraseña", limit: 120, secret: true},
		),
		register: newInputGroup(width,
			inputSpec{label: "Nickname", placeholder: "player1", limit: 40},
			inputSpec{label: "Correo", placeholder: "tu@correo.com", limit: 120},
			inputSpec{label: "Contraseña", limit: 120, secret: true},
			inputSpec{label: "Confirmar contraseña", limit: 120, secret: true},
		),
	}
}

func (a *authState) focusLogin() {
	a.err = ""
	a.login.FocusIndex(loginEmail)
}

func (a *authState) focusRegister() {
	a.err = ""
	a.register.FocusIndex(registerNickname)
}

// handleAuthKey processes keyboard input for the login and register views.
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	group := &m.auth.login
	if m.currentView == ViewRegister {
		group = &m.auth.register
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return m.setView(ViewLibrary)

	case key.Matches(msg, m.keys.SwitchTo):
		if m.currentView == ViewLogin {
			return m.setView(ViewRegister)
		}
		return m.setView(ViewLogin)

	case key.Matches(msg, m.keys.Submit),
		msg.Type == tea.KeyEnter && group.Focused() == len(group.inputs)-1:
		return m.submitAuth()

	case key.Matches(msg, m.keys.NextField), msg.Type == tea.KeyEnter:
		group.Next()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		group.Prev()
		return m, nil
	}

	cmd := group.Update(msg)
	m.auth.err = ""
	return m, cmd
}

// submitAuth validates the active form and sends it.
func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	if m.auth.busy {
		return m, nil
	}
	if m.session == nil {
		m.auth.err = msgLoginFailed
		return m, nil
	}

	holder := m.session
	ctx, cancel := context.WithTimeout(m.ctx, m.requestTimeout)

	if m.currentView == ViewRegister {
		g := m.auth.register
		reg, err := forms.RegisterForm{
			Nickname: g.Value(registerNickname),
			Email:    g.Value(registerEmail),
			Password: g.Value(registerPassword),
			Confirm:  g.Value(registerConfirm),
		}.Registration()
		if err != nil {
			cancel()
			m.auth.err = errorText(err, msgRegisterFailed)
			return m, nil
		}
		m.auth.busy = true
		m.auth.err = ""
		return m, func() tea.Msg {
			defer cancel()
			user, err := holder.Register(ctx, reg)
			return authDoneMsg{register: true, user: user, err: err}
		}
	}

	g := m.auth.login
	creds, err := forms.LoginForm{
		Email:    g.Value(loginEmail),
		Password: g.Value(loginPassword),
	}.Credentials()
	if err != nil {
		cancel()
		m.auth.err = errorText(err, msgLoginFailed)
		return m, nil
	}
	m.auth.busy = true
	m.auth.err = ""
	return m, func() tea.Msg {
		defer cancel()
		user, err := holder.Login(ctx, creds)
		return authDoneMsg{user: user, err: err}
	}
}

// handleAuthDone adopts a new session and returns to the library.
func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.auth.busy = false
	if msg.err != nil {
		fallback := msgLoginFailed
		if msg.register {
			fallback = msgRegisterFailed
		}
		m.auth.err = errorText(msg.err, fallback)
		return m, nil
	}

	if m.session != nil {
		m.account = m.session.Snapshot()
	}
	m.auth.login.Reset()
	m.auth.register.Reset()
	m.friends = nil

	next, cmd := m.setView(ViewLibrary)
	nm := next.(Model)
	nm.setFlash("¡Bienvenido, @"+msg.user.Nickname+"!", false)
	return nm, cmd
}

// logout drops the session and routes to the login screen. Results of
// requests issued before it still arrive but carry no credential forward.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.session != nil {
		if err := m.session.Logout(); err != nil {
			log.Warn().Err(err).Msg("logout")
		}
	}
	m.account = session.Session{}
	m.friends = nil
	m.friendsErr = ""
	m.statsErr = ""
	m.feedErr = ""

	next, cmd := m.setView(ViewLogin)
	nm := next.(Model)
	nm.setFlash("Sesión cerrada", false)
	reload := nm.reloadLibrary()
	return nm, tea.Batch(cmd, reload)
}

// renderAuth renders the login or register panel.
func (m Model) renderAuth() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	group := m.auth.login
	hint := "¿No tienes cuenta? Ctrl+R para registrarte"
	if m.currentView == ViewRegister {
		group = m.auth.register
		hint = "¿Ya tienes cuenta? Ctrl+R para iniciar sesión"
	}

	var b strings.Builder
	b.WriteString(group.View(styles))
	b.WriteString("\n\n")
	switch {
	case m.auth.busy:
		b.WriteString(styles.InfoText.Render("Conectando..."))
	case m.auth.err != "":
		b.WriteString(styles.DangerText.Render(m.auth.err))
	default:
		b.WriteString(styles.FaintText.Render(hint))
	}

	width := min(max(m.width-4, 20), formModalWidth)
	box := m.renderTitledBox(m.currentView.String(), b.String(), width, min(height, len(group.inputs)*3+6), true)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}
