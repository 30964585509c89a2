package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
	"github.com/five82/plusultra/internal/reviews"
	"github.com/five82/plusultra/internal/stats"
)

// reviewFormState is the inline review editor of the detail view.
type reviewFormState struct {
	form   *forms.ReviewForm
	fields fieldList
	err    string
	saving bool
}

func newReviewFormState(gameID string, seed *api.Review) *reviewFormState {
	form := forms.NewReviewForm(gameID, seed)
	st := &reviewFormState{
		form: form,
		fields: fieldList{rows: []formRow{
			choiceRow(forms.FieldRating, "Puntuación"),
			textRow(forms.FieldText, "Reseña", "¿Qué te pareció?", 2000),
			textRow(forms.FieldHours, "Horas jugadas", "0", 8),
			choiceRow(forms.FieldDifficulty, "Dificultad"),
			toggleRow(forms.FieldRecommend, "Recomendado"),
		}},
	}
	for i := range st.fields.rows {
		row := &st.fields.rows[i]
		if row.kind == fieldText {
			row.input.SetValue(form.Value(row.field))
		}
	}
	st.fields.FocusFirst()
	return st
}

// value renders the rating as stars and defers to the form otherwise.
func (st *reviewFormState) value(field forms.Field) string {
	if field == forms.FieldRating {
		return stats.Stars(float64(st.form.Draft().Rating))
	}
	return st.form.Value(field)
}

// openDetail shows g and starts loading its reviews.
func (m Model) openDetail(g api.Game) (tea.Model, tea.Cmd) {
	m.detail = g
	m.reviews = reviews.NewPanel(g.ID)
	m.reviewRow = 0
	m.reviewForm = nil
	m.flash = ""
	m.currentView = ViewDetail
	req := m.reviews.BeginLoad()
	return m, m.reviewsCmd(req)
}

// loadReviews re-fetches the reviews of the open game.
func (m *Model) loadReviews() tea.Cmd {
	if m.reviews == nil {
		return nil
	}
	return m.reviewsCmd(m.reviews.BeginLoad())
}

// promptDeleteGame asks before deleting g and its reviews.
func (m Model) promptDeleteGame(g api.Game) (tea.Model, tea.Cmd) {
	m.modal = newConfirmModal(confirmDeleteGame, g.ID, msgDeleteGamePrompt)
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reviewForm != nil {
		return m.handleReviewFormKey(msg)
	}
	if m.detail.ID == "" {
		return m, nil
	}

	var list []api.Review
	if m.reviews != nil {
		list = m.reviews.Reviews()
	}

	switch {
	case key.Matches(msg, m.keys.ToggleCompleted):
		return m, m.toggleCompletedCmd(m.detail)

	case key.Matches(msg, m.keys.EditGame):
		g := m.detail
		return m.openGameForm(&g)

	case key.Matches(msg, m.keys.DeleteGame):
		return m.promptDeleteGame(m.detail)

	case key.Matches(msg, m.keys.WriteReview):
		m.reviewForm = newReviewFormState(m.detail.ID, nil)
		return m, nil

	case key.Matches(msg, m.keys.EditReview):
		if m.reviewRow < len(list) {
			seed := list[m.reviewRow]
			m.reviewForm = newReviewFormState(m.detail.ID, &seed)
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteReview):
		if m.reviewRow < len(list) && m.reviews != nil {
			r := list[m.reviewRow]
			m.reviews.RequestDelete(r.ID)
			m.modal = newConfirmModal(confirmDeleteReview, r.ID, reviews.ConfirmDeletePrompt)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.reviewRow < len(list)-1 {
			m.reviewRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.reviewRow > 0 {
			m.reviewRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.reviewRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.reviewRow = max(len(list)-1, 0)
	}
	return m, nil
}

// handleReviewFormKey edits the open review form.
func (m Model) handleReviewFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.reviewForm

	switch {
	case msg.Type == tea.KeyEsc:
		m.reviewForm = nil
		return m, nil

	case key.Matches(msg, m.keys.Submit), msg.Type == tea.KeyEnter && st.fields.focus == len(st.fields.rows)-1:
		return m.submitReviewForm()

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
	switch row.field {
	case forms.FieldRating:
		rating := st.form.Draft().Rating
		switch msg.String() {
		case "left", "-":
			if rating > forms.MinRating {
				st.form.SetRating(rating - 1)
			}
		case "right", "+", " ":
			if rating < forms.MaxRating {
				st.form.SetRating(rating + 1)
			} else if msg.String() == " " {
				st.form.SetRating(forms.MinRating)
			}
		default:
			// Digits jump straight to a rating
			if r := msg.Runes; len(r) == 1 && r[0] >= '1' && r[0] <= '5' {
				st.form.SetRating(int(r[0] - '0'))
			}
		}
		return m, nil
	case forms.FieldDifficulty:
		if key.Matches(msg, m.keys.Cycle) {
			st.form.CycleDifficulty()
		}
		return m, nil
	case forms.FieldRecommend:
		if key.Matches(msg, m.keys.Cycle) {
			st.form.ToggleRecommend()
		}
		return m, nil
	}

	cmd, changed := st.fields.Update(msg)
	if changed {
		if err := st.form.Set(row.field, row.input.Value()); err != nil {
			log.Debug().Err(err).Str("field", string(row.field)).Msg("review form set")
		}
		st.err = ""
	}
	return m, cmd
}

func (m Model) submitReviewForm() (tea.Model, tea.Cmd) {
	st := m.reviewForm
	if st.saving || m.reviews == nil {
		return m, nil
	}
	for _, row := range st.fields.rows {
		if row.kind == fieldText {
			if err := st.form.Set(row.field, row.input.Value()); err != nil {
				log.Debug().Err(err).Str("field", string(row.field)).Msg("review form set")
			}
		}
	}
	sub, err := st.form.Prepare()
	if err != nil {
		st.err = errorText(err, reviews.MsgCreateFailed)
		return m, nil
	}
	st.err = ""
	st.saving = true
	req := m.reviews.BeginSave(sub)
	return m, m.reviewsCmd(req)
}

// handleReviewsResult applies a reviews response. A successful mutation
// also refreshes the library so rating and hour aggregates follow.
func (m Model) handleReviewsResult(msg reviewsResultMsg) (tea.Model, tea.Cmd) {
	res := reviews.Result(msg)
	if m.reviews == nil || !m.reviews.Apply(res) {
		// The list is stale but the mutation happened
		if res.Changed {
			cmd := m.reloadLibrary()
			return m, cmd
		}
		return m, nil
	}

	if st := m.reviewForm; st != nil && st.saving {
		st.saving = false
		if res.Changed {
			m.reviewForm = nil
		} else {
			st.err = m.reviews.Err()
		}
	}

	count := len(m.reviews.Reviews())
	if m.reviewRow >= count {
		m.reviewRow = max(count-1, 0)
	}

	if !res.Changed {
		return m, nil
	}
	cmd := m.reloadLibrary()
	return m, cmd
}

// handleConfirm completes a confirmation prompt.
func (m Model) handleConfirm(msg confirmMsg) (tea.Model, tea.Cmd) {
	switch msg.action {
	case confirmDeleteGame:
		if !msg.confirmed {
			return m, nil
		}
		return m, m.deleteGameCmd(msg.id)

	case confirmDeleteReview:
		if m.reviews == nil {
			return m, nil
		}
		if !msg.confirmed {
			m.reviews.CancelDelete()
			return m, nil
		}
		req, ok := m.reviews.Confirm()
		if !ok {
			return m, nil
		}
		return m, m.reviewsCmd(req)
	}
	return m, nil
}

// handleGameCompleted applies a completion toggle.
func (m Model) handleGameCompleted(msg gameCompletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setFlash(errorText(msg.err, msgToggleFailed), true)
		return m, nil
	}
	if m.detail.ID == msg.id {
		if msg.game.ID != "" {
			m.detail = msg.game
		} else {
			m.detail.Completed = !m.detail.Completed
		}
	}
	cmd := m.reloadLibrary()
	return m, cmd
}

// handleGameDeleted leaves the deleted game and refreshes the library.
func (m Model) handleGameDeleted(msg gameDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setFlash(errorText(msg.err, msgDeleteFailed), true)
		return m, nil
	}
	if m.detail.ID == msg.id {
		m.detail = api.Game{}
		m.reviews = nil
		m.reviewForm = nil
	}
	next, cmd := m.setView(ViewLibrary)
	nm := next.(Model)
	nm.setFlash("Juego eliminado", false)
	return nm, cmd
}

// renderDetail renders the game pane and the reviews pane side by side.
func (m Model) renderDetail() string {
	height := m.contentHeight()
	g := m.detail
	if g.ID == "" {
		msg := m.theme.Styles().MutedText.Render(msgGameNotFound)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	gameWidth := m.width * 45 / 100
	if m.width < LayoutCompactWidth {
		gameWidth = m.width / 2
	}
	reviewsWidth := m.width - gameWidth

	gameContent := m.renderGameCard(g, gameWidth-4, m.theme.SurfaceAlt)
	if g.CoverURL != "" {
		styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
		bg := NewBgStyle(m.theme.SurfaceAlt)
		gameContent += "\n\n" + bg.Render("Portada ", styles.MutedText) +
			bg.Render(truncateMiddle(g.CoverURL, gameWidth-14), styles.FaintText)
	}
	gamePane := m.renderTitledBox(g.Title, gameContent, gameWidth, height, m.reviewForm == nil)

	var reviewsPane string
	if m.reviewForm != nil {
		title := "Nueva reseña"
		if m.reviewForm.form.IsEdit() {
			title = "Editar reseña"
		}
		reviewsPane = m.renderTitledBox(title, m.renderReviewForm(), reviewsWidth, height, true)
	} else {
		title := "Reseñas"
		if m.reviews != nil {
			title = fmt.Sprintf("Reseñas (%d)", len(m.reviews.Reviews()))
			if m.reviews.Status() == reviews.StatusLoading {
				title += " ↻"
			}
		}
		reviewsPane = m.renderTitledBox(title, m.renderReviewList(reviewsWidth-2, height-2), reviewsWidth, height, false)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, gamePane, reviewsPane)
}

// renderReviewList renders the loaded reviews, two lines each.
func (m Model) renderReviewList(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	if m.reviews == nil {
		return ""
	}

	var lines []string
	if msg := m.reviews.Err(); msg != "" {
		lines = append(lines, bg.Render(truncate(msg, width), styles.DangerText), "")
	}

	list := m.reviews.Reviews()
	if len(list) == 0 {
		if m.reviews.Status() == reviews.StatusLoading {
			lines = append(lines, bg.Render("Cargando reseñas...", styles.InfoText))
		} else {
			lines = append(lines, bg.Render("Aún no hay reseñas. Pulsa w para escribir una.", styles.MutedText))
		}
		return strings.Join(lines, "\n")
	}

	perReview := 3
	start := 0
	if visible := max(height/perReview, 1); m.reviewRow >= visible {
		start = m.reviewRow - visible + 1
	}
	for i := start; i < len(list); i++ {
		r := list[i]
		selected := i == m.reviewRow

		recommend := "No lo recomienda"
		if r.WouldRecommend {
			recommend = "Lo recomienda"
		}
		head := fmt.Sprintf("%s  %.1fh  %s  %s", stats.Stars(float64(r.Rating)), r.HoursPlayed, r.Difficulty, recommend)
		text := strings.TrimSpace(r.Text)
		if text == "" {
			text = "(sin texto)"
		}
		if selected {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width)
			lines = append(lines, sel.Bold(true).Render(truncate(head, width)), sel.Render(truncate(text, width)))
		} else {
			lines = append(lines,
				bg.Render(truncate(head, width), styles.WarningText),
				bg.Render(truncate(text, width), styles.Text))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderReviewForm() string {
	st := m.reviewForm
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(st.fields.View(styles, st.value))
	if st.saving {
		b.WriteString("\n\n")
		b.WriteString(styles.InfoText.Render("Guardando..."))
	}
	if st.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(st.err))
	}
	return b.String()
}
