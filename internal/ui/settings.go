package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
)

// Settings field positions.
const (
	settingsNickname = iota
	settingsPhrase
	settingsAvatarURL
	settingsAvatarFile
	settingsFriend
)

// settingsState is the profile editor plus the add-friend box.
type settingsState struct {
	fields inputGroup
	err    string
	notice string
	busy   bool
}

func newSettingsState() settingsState {
	return settingsState{
		fields: newInputGroup(formModalWidth-12,
			inputSpec{label: "Nickname", limit: 40},
			inputSpec{label: "Frase", placeholder: "Tu lema de jugador", limit: 140},
			inputSpec{label: "URL del avatar", placeholder: "https://...", limit: 300},
			inputSpec{label: "Archivo de avatar", placeholder: "/ruta/a/imagen.png", limit: 400},
			inputSpec{label: "Añadir amigo", placeholder: "nickname", limit: 40},
		),
	}
}

// seed fills the profile fields from u.
func (s *settingsState) seed(u api.User) {
	s.fields.SetValue(settingsNickname, u.Nickname)
	s.fields.SetValue(settingsPhrase, u.Phrase)
	s.fields.SetValue(settingsAvatarURL, u.ProfilePicURL)
	s.fields.SetValue(settingsAvatarFile, "")
	s.fields.SetValue(settingsFriend, "")
	s.fields.FocusIndex(settingsNickname)
	s.err = ""
	s.notice = ""
}

// handleSettingsKey processes keyboard input for the settings view. Enter
// applies the section of the focused field.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.settings

	switch {
	case msg.Type == tea.KeyEsc:
		return m.setView(ViewProfile)

	case msg.String() == "ctrl+t":
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.saveProfile()

	case key.Matches(msg, m.keys.Confirm):
		switch s.fields.Focused() {
		case settingsAvatarFile:
			return m.uploadAvatar()
		case settingsFriend:
			return m.addFriend()
		default:
			return m.saveProfile()
		}

	case key.Matches(msg, m.keys.NextField):
		s.fields.Next()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		s.fields.Prev()
		return m, nil
	}

	cmd := s.fields.Update(msg)
	s.err = ""
	s.notice = ""
	return m, cmd
}

func (m Model) saveProfile() (tea.Model, tea.Cmd) {
	s := &m.settings
	if s.busy || m.session == nil {
		return m, nil
	}
	in, err := forms.ProfileForm{
		Nickname:      s.fields.Value(settingsNickname),
		Phrase:        s.fields.Value(settingsPhrase),
		ProfilePicURL: s.fields.Value(settingsAvatarURL),
	}.Changes(m.account.User)
	if errors.Is(err, forms.ErrNoChanges) {
		s.notice = "No hay cambios."
		return m, nil
	}
	if err != nil {
		s.err = errorText(err, msgProfileFailed)
		return m, nil
	}

	s.busy = true
	s.err = ""
	holder := m.session
	ctx, cancel := context.WithTimeout(m.ctx, m.requestTimeout)
	return m, func() tea.Msg {
		defer cancel()
		user, err := holder.UpdateProfile(ctx, in)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m Model) uploadAvatar() (tea.Model, tea.Cmd) {
	s := &m.settings
	if s.busy || m.session == nil {
		return m, nil
	}
	path := strings.TrimSpace(s.fields.Value(settingsAvatarFile))
	if path == "" {
		s.err = "Indica la ruta de una imagen."
		return m, nil
	}

	s.busy = true
	s.err = ""
	holder := m.session
	ctx, cancel := context.WithTimeout(m.ctx, m.requestTimeout)
	return m, func() tea.Msg {
		defer cancel()
		user, err := holder.UploadAvatar(ctx, path)
		return profileSavedMsg{avatar: true, user: user, err: err}
	}
}

func (m Model) addFriend() (tea.Model, tea.Cmd) {
	s := &m.settings
	nickname, err := forms.FriendForm{Nickname: s.fields.Value(settingsFriend)}.Target()
	if err != nil {
		s.err = errorText(err, msgFriendFailed)
		return m, nil
	}
	s.err = ""
	return m, m.addFriendCmd(nickname)
}

// handleProfileSaved refreshes the account after a profile mutation.
func (m *Model) handleProfileSaved(msg profileSavedMsg) {
	s := &m.settings
	s.busy = false
	if msg.err != nil {
		fallback := msgProfileFailed
		if msg.avatar {
			fallback = msgAvatarFailed
		}
		s.err = errorText(msg.err, fallback)
		return
	}
	if m.session != nil {
		m.account = m.session.Snapshot()
	}
	s.seed(m.account.User)
	if msg.avatar {
		s.notice = "Foto de perfil actualizada."
	} else {
		s.notice = "Perfil actualizado."
	}
}

// handleFriendAdded reports the result and reloads the friend list.
func (m Model) handleFriendAdded(msg friendAddedMsg) (tea.Model, tea.Cmd) {
	s := &m.settings
	if msg.err != nil {
		s.err = errorText(msg.err, msgFriendFailed)
		return m, nil
	}
	s.fields.SetValue(settingsFriend, "")
	s.notice = "@" + msg.nickname + " añadido a tus amigos."
	cmd := m.loadFriends()
	return m, cmd
}

// renderSettings renders the profile editor.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	s := m.settings

	var b strings.Builder
	b.WriteString(s.fields.View(styles))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Tema: "))
	b.WriteString(styles.AccentText.Render(m.theme.Name))
	b.WriteString(styles.FaintText.Render("  (Ctrl+T para cambiar)"))
	b.WriteString("\n\n")
	switch {
	case s.busy:
		b.WriteString(styles.InfoText.Render("Guardando..."))
	case s.err != "":
		b.WriteString(styles.DangerText.Render(s.err))
	case s.notice != "":
		b.WriteString(styles.SuccessText.Render(s.notice))
	default:
		b.WriteString(styles.FaintText.Render("Enter aplica la sección del campo activo."))
	}

	width := min(max(m.width-4, 20), formModalWidth)
	box := m.renderTitledBox(m.currentView.String(), b.String(), width, height, true)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, box)
}
