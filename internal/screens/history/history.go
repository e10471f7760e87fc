// Package history lists stored evaluations, newest first.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/screens/results"
	"github.com/abhisek/ethiq/internal/store"
	"github.com/abhisek/ethiq/internal/ui/layout"
	"github.com/abhisek/ethiq/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Evaluations []store.EvaluationSummary
	Err         error
}

type evaluationLoadedMsg struct {
	Stored *store.StoredEvaluation
	Err    error
}

// HistoryScreen displays past evaluations.
type HistoryScreen struct {
	env         *screen.Env
	evaluations []store.EvaluationSummary
	selected    int
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. env.Evaluations must be set.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.env.Evaluations
	return func() tea.Msg {
		evs, err := repo.List(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Evaluations: evs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.evaluations = msg.Evaluations
		}
		s.loaded = true
		return s, nil

	case evaluationLoadedMsg:
		switch {
		case msg.Err != nil:
			s.errMsg = msg.Err.Error()
			return s, nil
		case msg.Stored == nil:
			s.errMsg = "evaluation no longer exists"
			return s, nil
		}
		next := results.FromHistory(s.env, msg.Stored.Evaluation, msg.Stored.Commentary)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.evaluations)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.evaluations) {
				return s, s.open(s.evaluations[s.selected].ID)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) open(id string) tea.Cmd {
	repo := s.env.Evaluations
	return func() tea.Msg {
		stored, err := repo.Get(context.Background(), id)
		return evaluationLoadedMsg{Stored: stored, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.evaluations) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No evaluations yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.evaluations {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-24s  %-20s  %6.2f  %s",
			prefix,
			ev.CompletedAt.Local().Format("Jan 02, 2006 15:04"),
			truncate(ev.Identity.Name, 24),
			truncate(ev.Identity.Role, 20),
			ev.Aggregate,
			ev.Recommendation.Text())

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case ev.Recommendation == scoring.Advance:
			style = style.Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
