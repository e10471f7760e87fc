package questionnaire

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/screens/results"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/ui/components"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newScreen(t *testing.T) *QuestionnaireScreen {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	env := &screen.Env{Bank: questionbank.Reference(), Now: func() time.Time { return now }}
	sess, err := session.New(env.Bank, session.Identity{Name: "Asha Rao", Email: "asha@example.com", Role: "SRE"}, now)
	require.NoError(t, err)
	return New(env, sess)
}

// choose moves the cursor down n times and confirms, delivering the
// resulting ChoiceMadeMsg back to the screen.
func choose(t *testing.T, s *QuestionnaireScreen, n int) {
	t.Helper()
	for range n {
		s.Update(specialKey(tea.KeyDown))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, components.ChoiceMadeMsg{}, msg)
	s.Update(msg)
}

func TestQuestionnaire_SelectAdvances(t *testing.T) {
	s := newScreen(t)

	choose(t, s, 2)

	assert.Equal(t, 1, s.Index())
	label, ok := s.sess.Selected(0)
	require.True(t, ok)
	q, _ := s.sess.Bank().Question(0)
	assert.Equal(t, q.Options[2].Label, label)
	assert.Equal(t, "Q2/10", s.Status())
}

func TestQuestionnaire_RevisitOverwrites(t *testing.T) {
	s := newScreen(t)
	choose(t, s, 0)

	s.Update(specialKey(tea.KeyLeft))
	require.Equal(t, 0, s.Index())
	choose(t, s, 3)

	label, _ := s.sess.Selected(0)
	q, _ := s.sess.Bank().Question(0)
	assert.Equal(t, q.Options[3].Label, label)
	assert.Equal(t, 1, s.sess.Progress().Answered)
}

func TestQuestionnaire_SubmitIncompleteJumpsToFirstUnanswered(t *testing.T) {
	s := newScreen(t)
	choose(t, s, 1)
	for range 9 {
		s.Update(specialKey(tea.KeyRight))
	}
	require.True(t, s.onSubmitPage())

	_, cmd := s.Update(specialKey(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, "Please answer question 2 before submitting.", s.warning)
	assert.Contains(t, s.View(100, 30), "Please answer question 2 before submitting.")
}

func TestQuestionnaire_SubmitComplete(t *testing.T) {
	s := newScreen(t)
	for range s.sess.Bank().Len() {
		choose(t, s, 2)
	}
	require.True(t, s.onSubmitPage())
	assert.Contains(t, s.View(100, 30), "Submit Answers")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	res, ok := msg.Screen.(*results.ResultsScreen)
	require.True(t, ok)
	assert.Contains(t, res.View(100, 40), "75.00")
	assert.Equal(t, session.PhaseFinalized, s.sess.Phase())
}

func TestDescribe(t *testing.T) {
	s := newScreen(t)
	err := s.sess.Answer(0, "not an option")
	require.Error(t, err)
	assert.Equal(t,
		"Question 1 has an invalid choice. Please select one of the listed options.",
		describe(err))
}

func TestQuestionnaire_ChoiceDeliveredAfterPaging(t *testing.T) {
	s := newScreen(t)
	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	s.Update(specialKey(tea.KeyRight))
	require.Equal(t, 1, s.Index())
	s.Update(cmd())

	label, ok := s.sess.Selected(0)
	require.True(t, ok)
	q, _ := s.sess.Bank().Question(0)
	assert.Equal(t, q.Options[1].Label, label)

	_, answered := s.sess.Selected(1)
	assert.False(t, answered)
	assert.Equal(t, 1, s.Index(), "a late choice must not move the page again")
	assert.Empty(t, s.warning)
}
