// Package questionnaire walks the respondent through the question bank one
// question at a time.
package questionnaire

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/screens/results"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/ui/components"
	"github.com/abhisek/ethiq/internal/ui/layout"
	"github.com/abhisek/ethiq/internal/ui/theme"
)

// QuestionnaireScreen shows one question per page followed by a submit page
// at index Len().
type QuestionnaireScreen struct {
	env     *screen.Env
	sess    *session.Session
	choices []components.ChoiceList
	index   int
	warning string
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)
var _ screen.StatusProvider = (*QuestionnaireScreen)(nil)

// New creates the questionnaire for an open session.
func New(env *screen.Env, sess *session.Session) *QuestionnaireScreen {
	bank := sess.Bank()
	choices := make([]components.ChoiceList, bank.Len())
	for i, q := range bank.Questions() {
		chosen, _ := sess.Selected(i)
		choices[i] = components.NewChoiceList(i,
			fmt.Sprintf("Q%d. %s", i+1, q.Prompt), q.Labels(), chosen)
	}
	return &QuestionnaireScreen{env: env, sess: sess, choices: choices}
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionnaireScreen) Title() string {
	return "Questionnaire"
}

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if s.onSubmitPage() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit Answers"},
			{Key: "←", Description: "Review"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "←→", Description: "Previous/Next"},
		{Key: "Esc", Description: "Abandon"},
	}
}

// Index returns the page on display; Len() of the bank is the submit page.
func (s *QuestionnaireScreen) Index() int { return s.index }

func (s *QuestionnaireScreen) onSubmitPage() bool {
	return s.index >= len(s.choices)
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ChoiceMadeMsg:
		// The respondent may have paged away before the message arrived.
		if err := s.sess.Answer(msg.ID, msg.Label); err != nil {
			s.warning = describe(err)
			return s, nil
		}
		s.warning = ""
		if s.index == msg.ID {
			s.index++
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "pgup":
			if s.index > 0 {
				s.index--
			}
			return s, nil
		case "right", "pgdown":
			if s.index < len(s.choices) {
				s.index++
			}
			return s, nil
		}
		if s.onSubmitPage() {
			if msg.String() == "enter" {
				return s, s.submit()
			}
			return s, nil
		}
	}

	if s.onSubmitPage() {
		return s, nil
	}
	var cmd tea.Cmd
	s.choices[s.index], cmd = s.choices[s.index].Update(msg)
	return s, cmd
}

// submit finalizes the session. An incomplete answer set sends the
// respondent back to the first unanswered question.
func (s *QuestionnaireScreen) submit() tea.Cmd {
	ev, err := s.sess.Finalize(s.env.Clock())
	if err != nil {
		s.warning = describe(err)
		if i := s.sess.FirstUnanswered(); i >= 0 {
			s.index = i
		}
		return nil
	}
	next := results.New(s.env, ev)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// describe turns scoring errors into respondent-facing text.
func describe(err error) string {
	var se *scoring.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case scoring.MissingAnswer:
			return fmt.Sprintf("Please answer question %d before submitting.", se.Index+1)
		case scoring.UnknownOption:
			return fmt.Sprintf("Question %d has an invalid choice. Please select one of the listed options.", se.Index+1)
		}
	}
	return err.Error()
}

func (s *QuestionnaireScreen) View(width, height int) string {
	p := s.sess.Progress()
	bodyWidth := min(width-8, 76)

	var b strings.Builder
	bar := components.NewAnswerProgress(p.Answered, p.Total, bodyWidth)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	if s.onSubmitPage() {
		b.WriteString(s.submitView(p, bodyWidth))
	} else {
		q, _ := s.sess.Bank().Question(s.index)
		b.WriteString(theme.Hint.Render(q.Dimension))
		b.WriteString("\n")
		b.WriteString(s.choices[s.index].View(bodyWidth))
	}

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.warning))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(b.String()))
}

func (s *QuestionnaireScreen) submitView(p session.Progress, width int) string {
	var b strings.Builder
	if p.Complete() {
		b.WriteString(theme.Body.Width(width).Render("Every question has an answer. Review with ← or submit now."))
	} else {
		b.WriteString(theme.Body.Width(width).Render(
			fmt.Sprintf("%d of %d questions still need an answer.", p.Total-p.Answered, p.Total)))
	}
	b.WriteString("\n\n")
	btn := components.NewButton("Submit Answers", p.Complete(), "answer every question first")
	b.WriteString(btn.View())
	return b.String()
}

func (s *QuestionnaireScreen) Status() string {
	if s.onSubmitPage() {
		return "Review"
	}
	return fmt.Sprintf("Q%d/%d", s.index+1, len(s.choices))
}
