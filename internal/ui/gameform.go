package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
)

const msgSearching = "Buscando..."

// gameFormState is the add/edit game view.
type gameFormState struct {
	form     *forms.GameForm
	fields   fieldList
	debounce *forms.Debouncer

	searching   bool
	searchTag   uint64
	suggestions []api.SearchResult
	suggestion  int

	err    string
	saving bool
}

func newGameFormState(seed *api.Game, debounce *forms.Debouncer) *gameFormState {
	form := forms.NewGameForm(seed)
	st := &gameFormState{
		form:       form,
		debounce:   debounce,
		suggestion: -1,
		fields: fieldList{rows: []formRow{
			textRow(forms.FieldTitle, "Título", "The Legend of Zelda", 120),
			choiceRow(forms.FieldGenre, "Género"),
			choiceRow(forms.FieldPlatform, "Plataforma"),
			textRow(forms.FieldReleaseYear, "Año", "2017", 4),
			textRow(forms.FieldDeveloper, "Desarrollador", "Nintendo", 80),
			textRow(forms.FieldCover, "Portada (URL)", "https://...", 300),
			textRow(forms.FieldDescription, "Descripción", "", 1000),
			textRow(forms.FieldAchievementsEarned, "Logros obtenidos", "0", 6),
			textRow(forms.FieldAchievementsTotal, "Logros totales", "0", 6),
			toggleRow(forms.FieldCompleted, "Completado"),
		}},
	}
	for i := range st.fields.rows {
		row := &st.fields.rows[i]
		if row.kind == fieldText {
			row.input.SetValue(form.Value(row.field))
		}
		// The identity of an edited game is fixed
		if row.field == forms.FieldTitle && form.IsEdit() {
			row.disabled = true
		}
	}
	st.fields.FocusFirst()
	return st
}

// syncText copies a text row into the form.
func (st *gameFormState) syncText(field forms.Field) {
	i := st.fields.Index(field)
	if i < 0 {
		return
	}
	if err := st.form.Set(field, st.fields.rows[i].input.Value()); err != nil {
		log.Debug().Err(err).Str("field", string(field)).Msg("game form set")
	}
}

func (st *gameFormState) clearSuggestions() {
	st.suggestions = nil
	st.suggestion = -1
	st.searching = false
}

// openGameForm opens the add form, or the edit form when seed is not nil.
func (m Model) openGameForm(seed *api.Game) (tea.Model, tea.Cmd) {
	// A trigger left by a previous form must not fire in this one
	m.debounce.Cancel()
	m.gameForm = newGameFormState(seed, m.debounce)
	m.flash = ""
	if seed == nil {
		m.currentView = ViewAddGame
	} else {
		m.currentView = ViewEditGame
	}
	return m, nil
}

// handleGameFormKey processes keyboard input for the game form.
func (m Model) handleGameFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.gameForm
	if st == nil {
		return m.setView(ViewLibrary)
	}

	// Suggestion list navigation while it is shown
	if len(st.suggestions) > 0 {
		switch msg.String() {
		case "down":
			st.suggestion = min(st.suggestion+1, min(len(st.suggestions), maxSuggestions)-1)
			return m, nil
		case "up":
			if st.suggestion > 0 {
				st.suggestion--
				return m, nil
			}
			if st.suggestion == 0 {
				st.suggestion = -1
				return m, nil
			}
		case "enter":
			if st.suggestion >= 0 {
				m.applySuggestion(st.suggestions[st.suggestion])
				return m, nil
			}
		case "esc":
			st.clearSuggestions()
			st.debounce.Cancel()
			return m, nil
		}
	}

	switch {
	case msg.Type == tea.KeyEsc:
		st.debounce.Cancel()
		m.gameForm = nil
		if st.form.IsEdit() && m.detail.ID == st.form.ID() {
			m.currentView = ViewDetail
			return m, nil
		}
		return m.setView(ViewLibrary)

	case key.Matches(msg, m.keys.Submit), msg.Type == tea.KeyEnter && st.fields.focus == len(st.fields.rows)-1:
		return m.submitGameForm()

	case key.Matches(msg, m.keys.NextField), msg.Type == tea.KeyEnter:
		st.fields.Move(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		st.fields.Move(-1)
		return m, nil
	}

	row := st.fields.Current()
	if row == nil {
		return m, nil
	}
	switch row.kind {
	case fieldChoice:
		if key.Matches(msg, m.keys.Cycle) {
			switch row.field {
			case forms.FieldGenre:
				st.form.CycleGenre()
			case forms.FieldPlatform:
				st.form.CyclePlatform()
			}
		}
		return m, nil
	case fieldToggle:
		if key.Matches(msg, m.keys.Cycle) {
			st.form.ToggleCompleted()
		}
		return m, nil
	}

	cmd, changed := st.fields.Update(msg)
	if !changed {
		return m, cmd
	}
	st.syncText(row.field)
	st.err = ""
	if row.field != forms.FieldTitle {
		return m, cmd
	}

	// A title edit restarts the debounce window
	term, ok := st.form.SearchTerm()
	if !ok {
		st.debounce.Cancel()
		st.clearSuggestions()
		return m, cmd
	}
	tag := st.debounce.Trigger(term)
	return m, tea.Batch(cmd, searchDueCmd(st.debounce.Delay(), tag))
}

// applySuggestion copies a search result into the form. It does not start
// another search.
func (m *Model) applySuggestion(r api.SearchResult) {
	st := m.gameForm
	st.debounce.Cancel()
	st.form.ApplySuggestion(r)
	st.fields.SetText(forms.FieldTitle, st.form.Value(forms.FieldTitle))
	st.fields.SetText(forms.FieldReleaseYear, st.form.Value(forms.FieldReleaseYear))
	st.fields.SetText(forms.FieldCover, st.form.Value(forms.FieldCover))
	st.clearSuggestions()
}

func (m Model) submitGameForm() (tea.Model, tea.Cmd) {
	st := m.gameForm
	if st.saving {
		return m, nil
	}
	for _, row := range st.fields.rows {
		if row.kind == fieldText && !row.disabled {
			st.syncText(row.field)
		}
	}
	sub, err := st.form.Prepare()
	if err != nil {
		st.err = errorText(err, msgCreateFailed)
		return m, nil
	}
	st.err = ""
	st.saving = true
	st.debounce.Cancel()
	st.clearSuggestions()
	return m, m.saveGameCmd(sub)
}

// handleSearchDue runs the metadata search once the debounce window closes.
func (m Model) handleSearchDue(msg searchDueMsg) (tea.Model, tea.Cmd) {
	st := m.gameForm
	if st == nil {
		return m, nil
	}
	term, ok := st.debounce.Fire(msg.tag)
	if !ok {
		return m, nil
	}
	st.searchTag = msg.tag
	st.searching = true
	return m, m.searchCmd(msg.tag, term)
}

// handleSearchResults installs suggestions from the latest search only.
func (m *Model) handleSearchResults(msg searchResultsMsg) {
	st := m.gameForm
	if st == nil || msg.tag != st.searchTag {
		return
	}
	st.searching = false
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("game search failed")
		st.suggestions = nil
		st.suggestion = -1
		return
	}
	st.suggestions = msg.results
	st.suggestion = -1
}

// handleGameSaved finishes a create or update.
func (m Model) handleGameSaved(msg gameSavedMsg) (tea.Model, tea.Cmd) {
	st := m.gameForm
	if msg.err != nil {
		fallback := msgCreateFailed
		if msg.edit {
			fallback = msgUpdateFailed
		}
		text := errorText(msg.err, fallback)
		if st != nil {
			st.saving = false
			st.err = text
		} else {
			m.setFlash(text, true)
		}
		return m, nil
	}

	if msg.edit && m.detail.ID == msg.game.ID {
		m.detail = msg.game
	}
	m.gameForm = nil
	next, cmd := m.setView(ViewLibrary)
	nm := next.(Model)
	if msg.edit {
		nm.setFlash("Juego actualizado", false)
	} else {
		nm.setFlash("Juego añadido", false)
	}
	return nm, cmd
}

// renderGameForm renders the add/edit form as a centered panel.
func (m Model) renderGameForm() string {
	st := m.gameForm
	styles := m.theme.Styles()
	height := m.contentHeight()
	if st == nil {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, "")
	}

	var b strings.Builder
	b.WriteString(st.fields.View(styles, st.form.Value))

	if st.searching {
		b.WriteString("\n\n")
		b.WriteString(styles.InfoText.Render(msgSearching))
	} else if len(st.suggestions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render("Sugerencias"))
		for i, r := range st.suggestions {
			if i >= maxSuggestions {
				break
			}
			line := r.Name
			if r.Released != "" {
				line += " (" + r.Released + ")"
			}
			b.WriteString("\n")
			if i == st.suggestion {
				b.WriteString(styles.Selected.Render("› " + line))
			} else {
				b.WriteString(styles.Text.Render("  " + line))
			}
		}
	}

	if st.saving {
		b.WriteString("\n\n")
		b.WriteString(styles.InfoText.Render("Guardando..."))
	}
	if st.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(st.err))
	}

	width := min(max(m.width-4, 20), formModalWidth+16)
	box := m.renderTitledBox(m.currentView.String(), b.String(), width, height, true)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, box)
}
