package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plusultra/internal/forms"
)

// fieldKind is how a form row is edited.
type fieldKind int

const (
	fieldText   fieldKind = iota // free text through a textinput
	fieldChoice                  // cycles through a fixed catalog
	fieldToggle                  // boolean
)

// formRow is one row of an entity form. Text rows own a textinput; choice
// and toggle rows render the value held by the form itself.
type formRow struct {
	field    forms.Field
	label    string
	kind     fieldKind
	input    textinput.Model
	disabled bool
}

// fieldList is the rows of an entity form with one focused at a time.
// Disabled rows are skipped by focus movement.
type fieldList struct {
	rows  []formRow
	focus int
}

func textRow(field forms.Field, label, placeholder string, limit int) formRow {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = formModalWidth - 24
	return formRow{field: field, label: label, kind: fieldText, input: in}
}

func choiceRow(field forms.Field, label string) formRow {
	return formRow{field: field, label: label, kind: fieldChoice}
}

func toggleRow(field forms.Field, label string) formRow {
	return formRow{field: field, label: label, kind: fieldToggle}
}

// Current returns the focused row.
func (l *fieldList) Current() *formRow {
	if len(l.rows) == 0 {
		return nil
	}
	return &l.rows[l.focus]
}

// Index returns the position of field, or -1.
func (l *fieldList) Index(field forms.Field) int {
	for i := range l.rows {
		if l.rows[i].field == field {
			return i
		}
	}
	return -1
}

// FocusFirst focuses the first enabled row.
func (l *fieldList) FocusFirst() {
	l.setFocus(0)
	if row := l.Current(); row != nil && row.disabled {
		l.Move(1)
	}
}

// Move shifts focus by step, skipping disabled rows.
func (l *fieldList) Move(step int) {
	n := len(l.rows)
	if n == 0 {
		return
	}
	next := l.focus
	for range n {
		next = (next + step + n) % n
		if !l.rows[next].disabled {
			break
		}
	}
	l.setFocus(next)
}

func (l *fieldList) setFocus(i int) {
	if len(l.rows) == 0 {
		return
	}
	if row := l.Current(); row != nil && row.kind == fieldText {
		row.input.Blur()
	}
	l.focus = i
	if row := l.Current(); row != nil && row.kind == fieldText && !row.disabled {
		row.input.Focus()
	}
}

// Update feeds msg to the focused text row. It reports whether the row's
// value changed.
func (l *fieldList) Update(msg tea.Msg) (tea.Cmd, bool) {
	row := l.Current()
	if row == nil || row.kind != fieldText || row.disabled {
		return nil, false
	}
	before := row.input.Value()
	var cmd tea.Cmd
	row.input, cmd = row.input.Update(msg)
	return cmd, row.input.Value() != before
}

// SetText replaces the text of field's row without moving focus.
func (l *fieldList) SetText(field forms.Field, value string) {
	if i := l.Index(field); i >= 0 && l.rows[i].kind == fieldText {
		l.rows[i].input.SetValue(value)
	}
}

// View renders the rows. value supplies the text of choice and toggle rows.
func (l fieldList) View(styles Styles, value func(forms.Field) string) string {
	var b strings.Builder
	for i, row := range l.rows {
		focused := i == l.focus
		label := padRight(row.label, 20)
		switch {
		case row.disabled:
			b.WriteString(styles.FaintText.Render(label))
		case focused:
			b.WriteString(styles.AccentText.Render(label))
		default:
			b.WriteString(styles.MutedText.Render(label))
		}

		switch row.kind {
		case fieldText:
			if row.disabled {
				b.WriteString(styles.FaintText.Render(row.input.Value()))
			} else {
				b.WriteString(row.input.View())
			}
		case fieldChoice:
			text := "‹ " + value(row.field) + " ›"
			if focused {
				b.WriteString(styles.AccentText.Render(text))
			} else {
				b.WriteString(styles.Text.Render(text))
			}
		case fieldToggle:
			box := "[ ]"
			if value(row.field) == "true" {
				box = "[x]"
			}
			if focused {
				b.WriteString(styles.AccentText.Render(box))
			} else {
				b.WriteString(styles.Text.Render(box))
			}
		}
		if i < len(l.rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
