// Package identity collects the respondent's name, email and role before
// the questionnaire starts.
package identity

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/screens/questionnaire"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/ui/components"
	"github.com/abhisek/ethiq/internal/ui/layout"
	"github.com/abhisek/ethiq/internal/ui/theme"
)

const (
	fieldName = iota
	fieldEmail
	fieldRole
)

// IdentityScreen is a three-field form.
type IdentityScreen struct {
	env     *screen.Env
	fields  []components.Field
	focus   int
	warning string
}

var _ screen.Screen = (*IdentityScreen)(nil)
var _ screen.KeyHintProvider = (*IdentityScreen)(nil)

// New creates the form with the first field focused.
func New(env *screen.Env) *IdentityScreen {
	s := &IdentityScreen{
		env: env,
		fields: []components.Field{
			components.NewField("Full Name", "Jane Doe", 120),
			components.NewField("Email", "jane@example.com", 254),
			components.NewField("Role Applied For", "Backend Engineer", 120),
		},
	}
	s.fields[fieldName].Focus()
	return s
}

func (s *IdentityScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *IdentityScreen) Title() string {
	return "Candidate Details"
}

func (s *IdentityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Begin"},
		{Key: "Esc", Description: "Back"},
	}
}

// Identity returns the values typed so far.
func (s *IdentityScreen) Identity() session.Identity {
	return session.Identity{
		Name:  s.fields[fieldName].Value(),
		Email: s.fields[fieldEmail].Value(),
		Role:  s.fields[fieldRole].Value(),
	}
}

func (s *IdentityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "enter":
			if s.focus < len(s.fields)-1 {
				return s, s.moveFocus(1)
			}
			return s, s.begin()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *IdentityScreen) moveFocus(delta int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].Focus()
}

// begin validates the form and replaces it with the questionnaire so that
// Esc from the questionnaire returns home.
func (s *IdentityScreen) begin() tea.Cmd {
	sess, err := session.New(s.env.Bank, s.Identity(), s.env.Clock())
	if err != nil {
		s.warning = err.Error()
		return nil
	}
	s.warning = ""
	next := questionnaire.New(s.env, sess)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *IdentityScreen) View(width, height int) string {
	formWidth := min(width-8, 60)

	var b strings.Builder
	b.WriteString(theme.Title.Width(formWidth).Render("Tell us about yourself"))
	b.WriteString("\n\n")
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.View(formWidth))
	}
	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(s.warning))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(b.String()))
}
