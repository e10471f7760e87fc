// Package results shows a finalized evaluation, persists it, fetches
// optional assessor commentary and exports the PDF report.
package results

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/router"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/screen"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/ui/components"
	"github.com/abhisek/ethiq/internal/ui/layout"
	"github.com/abhisek/ethiq/internal/ui/theme"
)

// Confirmation is shown above a freshly submitted evaluation.
const Confirmation = "Thank you for submitting your responses."

const commentaryTimeout = 90 * time.Second

type savedMsg struct{ err error }

type commentaryMsg struct {
	commentary *report.Commentary
	err        error
}

type pdfSavedMsg struct {
	path string
	err  error
}

// ResultsScreen renders the score table, average and recommendation.
type ResultsScreen struct {
	env        *screen.Env
	ev         *session.Evaluation
	fresh      bool
	commentary *report.Commentary

	saving     bool
	commenting bool
	status     string
	errMsg     string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New shows a just-finalized evaluation. Init persists it once and then
// requests commentary.
func New(env *screen.Env, ev *session.Evaluation) *ResultsScreen {
	return &ResultsScreen{env: env, ev: ev, fresh: true}
}

// FromHistory shows a stored evaluation without saving it again.
func FromHistory(env *screen.Env, ev *session.Evaluation, commentary *report.Commentary) *ResultsScreen {
	return &ResultsScreen{env: env, ev: ev, commentary: commentary}
}

func (s *ResultsScreen) Init() tea.Cmd {
	if !s.fresh {
		return nil
	}
	if s.env.Evaluations != nil {
		s.saving = true
		return s.save()
	}
	return s.requestCommentary()
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "p", Description: "Save PDF"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) save() tea.Cmd {
	repo, ev := s.env.Evaluations, s.ev
	return func() tea.Msg {
		return savedMsg{err: repo.Save(context.Background(), ev, nil)}
	}
}

// requestCommentary asks the commentator for notes and attaches them to
// the stored evaluation. It returns nil when no commentator is configured.
func (s *ResultsScreen) requestCommentary() tea.Cmd {
	c := s.env.Commentator
	if c == nil {
		return nil
	}
	s.commenting = true
	repo, ev, stored := s.env.Evaluations, s.ev, s.env.Evaluations != nil && s.errMsg == ""
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commentaryTimeout)
		defer cancel()

		commentary, err := c.Comment(ctx, ev)
		if err != nil {
			return commentaryMsg{err: err}
		}
		if stored {
			if err := repo.SetCommentary(ctx, ev.ID, commentary); err != nil {
				return commentaryMsg{commentary: commentary, err: fmt.Errorf("store commentary: %w", err)}
			}
		}
		return commentaryMsg{commentary: commentary}
	}
}

func (s *ResultsScreen) savePDF() tea.Cmd {
	dir := s.env.ReportDir
	if dir == "" {
		dir = "."
	}
	ev, commentary := s.ev, s.commentary
	return func() tea.Msg {
		path, err := report.SavePDF(dir, ev, commentary)
		return pdfSavedMsg{path: path, err: err}
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		if msg.err != nil {
			s.errMsg = "Could not save evaluation: " + msg.err.Error()
		}
		return s, s.requestCommentary()

	case commentaryMsg:
		s.commenting = false
		if msg.commentary != nil {
			s.commentary = msg.commentary
		}
		if msg.err != nil {
			s.status = "Assessor notes unavailable: " + msg.err.Error()
		}
		return s, nil

	case pdfSavedMsg:
		if msg.err != nil {
			s.status = "PDF export failed: " + msg.err.Error()
		} else {
			s.status = "Report saved to " + msg.path
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			return s, s.savePDF()
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// Commentary returns the assessor notes received so far.
func (s *ResultsScreen) Commentary() *report.Commentary { return s.commentary }

func (s *ResultsScreen) View(width, height int) string {
	bodyWidth := min(width-8, 76)
	var b strings.Builder

	if s.fresh {
		b.WriteString(theme.Title.Width(bodyWidth).Render(Confirmation))
		b.WriteString("\n\n")
	}
	id := s.ev.Identity
	b.WriteString(theme.Subtitle.Width(bodyWidth).Render(
		fmt.Sprintf("%s · %s · %s", id.Name, id.Email, id.Role)))
	b.WriteString("\n\n")

	b.WriteString(scoreTable(report.Table(s.ev), bodyWidth))
	b.WriteString("\n")

	b.WriteString(theme.Body.Render("Average Score: " + report.FormatAggregate(s.ev)))
	b.WriteString("\n")
	rec := s.ev.Report.Recommendation
	style := theme.Reject
	if rec == scoring.Advance {
		style = theme.Proceed
	}
	b.WriteString(theme.Body.Render("Recommendation: ") + style.Render(rec.Text()))
	b.WriteString("\n")

	switch {
	case !s.commentary.Empty():
		b.WriteString("\n")
		b.WriteString(commentaryView(s.commentary, bodyWidth))
	case s.commenting:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Preparing assessor notes..."))
		b.WriteString("\n")
	}

	if s.saving {
		b.WriteString(theme.Hint.Render("Saving..."))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.Warning.Render(s.errMsg))
		b.WriteString("\n")
	}
	if s.status != "" {
		b.WriteString(theme.Hint.Render(s.status))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(strings.TrimRight(b.String(), "\n")))
}

// scoreTable renders one row per dimension with a bar proportional to the
// score out of 100.
func scoreTable(rows []report.Row, width int) string {
	nameWidth := len("Dimension")
	for _, r := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Dimension))
	}
	barWidth := max(width-nameWidth-10, 10)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%-*s  %5s", nameWidth, "Dimension", "Score")))
	b.WriteString("\n")
	for _, r := range rows {
		score := theme.ScoreStyle(r.Score, scoring.Threshold).Render(fmt.Sprintf("%5d", r.Score))
		b.WriteString(fmt.Sprintf("%-*s  %s  %s\n", nameWidth, r.Dimension, score, components.ScoreBar(r.Score, barWidth)))
	}
	return b.String()
}

func commentaryView(c *report.Commentary, width int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("Assessor Notes"))
	b.WriteString("\n")
	if c.Summary != "" {
		b.WriteString(theme.Body.Width(width).Render(c.Summary))
		b.WriteString("\n")
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(theme.Hint.Render(title))
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString(theme.Body.Width(width).Render("• " + it))
			b.WriteString("\n")
		}
	}
	list("Strengths", c.Strengths)
	list("Development areas", c.DevelopmentAreas)
	return b.String()
}
