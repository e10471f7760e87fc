package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/ui/theme"
)

// ChoiceList lets the respondent pick one option label for a question.
// Unlike a quiz there is no correct option; the chosen label is marked and
// may be changed until the questionnaire is submitted.
type ChoiceList struct {
	ID      int // echoed in ChoiceMadeMsg so the owner knows which list fired
	Prompt  string
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen yet
}

// NewChoiceList creates a list with chosen preselected when it names one
// of the options.
func NewChoiceList(id int, prompt string, options []string, chosen string) ChoiceList {
	c := ChoiceList{ID: id, Prompt: prompt, Options: options, Chosen: -1}
	for i, o := range options {
		if o == chosen {
			c.Chosen = i
			c.Cursor = i
			break
		}
	}
	return c
}

// ChoiceMadeMsg is emitted when an option is confirmed with Enter. It is
// delivered asynchronously, so ID identifies the list it came from.
type ChoiceMadeMsg struct {
	ID    int
	Label string
}

// Update moves the cursor and confirms a choice.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(kmsg.String()[0] - '1')
		if n < len(c.Options) {
			c.Cursor = n
		}
	case "enter", "space":
		if len(c.Options) == 0 {
			return c, nil
		}
		c.Chosen = c.Cursor
		made := ChoiceMadeMsg{ID: c.ID, Label: c.Options[c.Cursor]}
		return c, func() tea.Msg { return made }
	}
	return c, nil
}

// Selected returns the chosen label, if any.
func (c ChoiceList) Selected() (string, bool) {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return "", false
	}
	return c.Options[c.Chosen], true
}

// View renders the prompt and its options.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(c.Prompt))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == c.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		style := theme.Unselected
		switch {
		case i == c.Cursor:
			style = theme.Selected
		case i == c.Chosen:
			style = theme.Chosen
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
