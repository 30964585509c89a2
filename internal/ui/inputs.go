package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputSpec describes one text field of an inputGroup.
type inputSpec struct {
	label       string
	placeholder string
	limit       int
	secret      bool
}

// inputGroup is a column of labelled text inputs with one focused at a time.
type inputGroup struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newInputGroup(width int, specs ...inputSpec) inputGroup {
	g := inputGroup{
		labels: make([]string, len(specs)),
		inputs: make([]textinput.Model, len(specs)),
	}
	for i, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.CharLimit = spec.limit
		in.Width = width
		if spec.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		g.labels[i] = spec.label
		g.inputs[i] = in
	}
	if len(g.inputs) > 0 {
		g.inputs[0].Focus()
	}
	return g
}

// Focused returns the index of the focused input.
func (g inputGroup) Focused() int { return g.focus }

// FocusIndex moves focus to input i.
func (g *inputGroup) FocusIndex(i int) {
	if len(g.inputs) == 0 {
		return
	}
	g.inputs[g.focus].Blur()
	g.focus = (i + len(g.inputs)) % len(g.inputs)
	g.inputs[g.focus].Focus()
}

func (g *inputGroup) Next() { g.FocusIndex(g.focus + 1) }
func (g *inputGroup) Prev() { g.FocusIndex(g.focus - 1) }

// Value returns the text of input i.
func (g inputGroup) Value(i int) string {
	if i < 0 || i >= len(g.inputs) {
		return ""
	}
	return g.inputs[i].Value()
}

// SetValue replaces the text of input i.
func (g *inputGroup) SetValue(i int, v string) {
	if i < 0 || i >= len(g.inputs) {
		return
	}
	g.inputs[i].SetValue(v)
}

// Reset clears every input and focuses the first.
func (g *inputGroup) Reset() {
	for i := range g.inputs {
		g.inputs[i].SetValue("")
	}
	g.FocusIndex(0)
}

// Update lets the focused input handle msg.
func (g *inputGroup) Update(msg tea.Msg) tea.Cmd {
	if len(g.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	g.inputs[g.focus], cmd = g.inputs[g.focus].Update(msg)
	return cmd
}

// View renders each input under its label. The focused label is accented.
func (g inputGroup) View(styles Styles) string {
	var b strings.Builder
	for i, in := range g.inputs {
		label := g.labels[i]
		if i == g.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		if i < len(g.inputs)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
