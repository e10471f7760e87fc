package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/ui/theme"
)

// Field wraps bubbles/textinput with a label.
type Field struct {
	Label string
	Model textinput.Model
}

// NewField creates an unfocused labelled text input.
func NewField(label, placeholder string, charLimit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return Field{Label: label, Model: ti}
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Focused reports whether the field has focus.
func (f Field) Focused() bool {
	return f.Model.Focused()
}

// SetValue replaces the field contents.
func (f *Field) SetValue(v string) {
	f.Model.SetValue(v)
}

// Update forwards messages to the text input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the label above the input.
func (f Field) View(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if f.Model.Focused() {
		labelStyle = theme.Selected
	}
	f.Model.SetWidth(max(width-4, 10))
	return labelStyle.Render(f.Label) + "\n" + f.Model.View()
}

// Value returns the current input value.
func (f Field) Value() string {
	return f.Model.Value()
}
