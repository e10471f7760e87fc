package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func text(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

type picked string

func items(disabled ...bool) []MenuItem {
	labels := []string{"one", "two", "three"}
	out := make([]MenuItem, len(labels))
	for i, l := range labels {
		out[i] = MenuItem{Label: l, Disabled: disabled[i], Action: func() tea.Cmd {
			return func() tea.Msg { return picked(l) }
		}}
	}
	return out
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu(items(true, false, false))
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key(tea.KeyUp))
	assert.Equal(t, 1, m.Selected, "cursor must not land on a disabled item")

	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 2, m.Selected)
	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 2, m.Selected)
}

func TestMenu_Activate(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want tea.Msg
	}{
		{"enter on cursor", key(tea.KeyEnter), picked("one")},
		{"number shortcut", text("3"), picked("three")},
		{"shortcut to disabled item", text("2"), nil},
		{"shortcut out of range", text("9"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMenu(items(false, true, false))
			_, cmd := m.Update(tt.msg)
			if tt.want == nil {
				assert.Nil(t, cmd)
				return
			}
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestChoiceList(t *testing.T) {
	c := NewChoiceList(4, "Pick one", []string{"a", "b", "c"}, "b")
	label, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", label)
	assert.Equal(t, 1, c.Cursor)

	c, _ = c.Update(key(tea.KeyDown))
	c, cmd := c.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceMadeMsg{ID: 4, Label: "c"}, cmd())

	c, cmd = c.Update(text("1"))
	assert.Nil(t, cmd, "a digit only moves the cursor")
	assert.Equal(t, 0, c.Cursor)

	view := c.View(60)
	assert.Contains(t, view, "Pick one")
	assert.Contains(t, view, "● 3. c")
}

func TestChoiceList_NoPreselection(t *testing.T) {
	c := NewChoiceList(0, "Pick one", []string{"a"}, "zzz")
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score, want int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{150, 20},
		{-10, 0},
	}
	for _, tt := range tests {
		bar := ScoreBar(tt.score, 20)
		assert.Equal(t, tt.want, strings.Count(bar, "█"), "score %d", tt.score)
		assert.Equal(t, 20-tt.want, strings.Count(bar, "░"), "score %d", tt.score)
	}
}

func TestAnswerProgress(t *testing.T) {
	v := NewAnswerProgress(3, 10, 60).View()
	assert.Contains(t, v, "3/10 answered")
	assert.Contains(t, v, "30%")

	assert.Contains(t, NewAnswerProgress(0, 0, 60).View(), "0%")
}

func TestButton(t *testing.T) {
	assert.Contains(t, NewButton("Submit Answers", true, "").View(), "▸ Submit Answers")

	locked := NewButton("Submit Answers", false, "answer every question first").View()
	assert.NotContains(t, locked, "▸")
	assert.Contains(t, locked, "answer every question first")
}
