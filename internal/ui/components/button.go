package components

import (
	"github.com/abhisek/ethiq/internal/ui/theme"
)

// Button is a call to action that is either ready or still locked.
type Button struct {
	Label   string
	Enabled bool
	Hint    string // shown next to a locked button
}

// NewButton creates a button.
func NewButton(label string, enabled bool, hint string) Button {
	return Button{Label: label, Enabled: enabled, Hint: hint}
}

func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label + "  (Enter)")
	}
	v := theme.ButtonInactive.Render(b.Label)
	if b.Hint != "" {
		v += "  " + theme.Hint.Render(b.Hint)
	}
	return v
}
