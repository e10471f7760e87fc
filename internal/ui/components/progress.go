package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ethiq/internal/ui/theme"
)

// AnswerProgress shows how many questions have an answer.
type AnswerProgress struct {
	Answered int
	Total    int
	Width    int
}

// NewAnswerProgress creates a progress line for answered out of total.
func NewAnswerProgress(answered, total, width int) AnswerProgress {
	return AnswerProgress{Answered: answered, Total: total, Width: width}
}

// View renders "n/m answered", a block bar and the percentage.
func (p AnswerProgress) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("%d/%d answered", p.Answered, p.Total))

	pct := 0
	if p.Total > 0 {
		pct = p.Answered * 100 / p.Total
	}
	suffix := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%4d%%", pct))

	barWidth := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix)-4, 4)
	return label + "  " + blocks(pct, barWidth, true) + "  " + suffix
}

// ScoreBar renders a 0-100 score as a bar of the given width. Scores outside
// the range are clamped.
func ScoreBar(score, width int) string {
	return blocks(min(max(score, 0), 100), width, false)
}

func blocks(pct, width int, solid bool) string {
	filled := min(pct*width/100, width)
	if solid {
		return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
			lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", width-filled))
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled))
}
