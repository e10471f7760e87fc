// Package report renders a finalized evaluation as a chart, a score table,
// a plain-text summary and a downloadable PDF document.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abhisek/ethiq/internal/session"
)

const (
	// DocumentTitle heads the PDF report.
	DocumentTitle = "Candidate Behaviour & Work Ethics Report"

	// ChartTitle heads the score distribution chart.
	ChartTitle = "Behaviour & Work Ethics Score Distribution"
)

// Row is one line of the score table.
type Row struct {
	Dimension string `json:"dimension"`
	Score     int    `json:"score"`
}

// Commentary is optional narrative feedback attached to a report. It never
// changes the scores or the recommendation.
type Commentary struct {
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	DevelopmentAreas []string `json:"development_areas"`
}

// Empty reports whether there is nothing to render.
func (c *Commentary) Empty() bool {
	return c == nil || (c.Summary == "" && len(c.Strengths) == 0 && len(c.DevelopmentAreas) == 0)
}

// Table returns the per-dimension scores in bank order.
func Table(ev *session.Evaluation) []Row {
	rows := make([]Row, 0, len(ev.Report.Dimensions))
	for _, d := range ev.Report.Dimensions {
		rows = append(rows, Row{Dimension: d, Score: ev.Report.DimensionScores[d]})
	}
	return rows
}

// FormatAggregate renders the aggregate with two decimal places.
func FormatAggregate(ev *session.Evaluation) string {
	return fmt.Sprintf("%.2f", ev.Report.Aggregate)
}

// FileName returns "<name>_report.pdf" for the respondent. Characters that
// would escape the target directory are replaced.
func FileName(id session.Identity) string {
	name := strings.TrimSpace(id.Name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "candidate"
	}
	return filepath.Base(name) + "_report.pdf"
}

// WriteText prints a plain-text summary of the evaluation.
func WriteText(w io.Writer, ev *session.Evaluation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", DocumentTitle)
	fmt.Fprintln(&b, strings.Repeat("─", 60))
	fmt.Fprintf(&b, "Name:   %s\n", ev.Identity.Name)
	fmt.Fprintf(&b, "Email:  %s\n", ev.Identity.Email)
	fmt.Fprintf(&b, "Role:   %s\n\n", ev.Identity.Role)

	fmt.Fprintln(&b, "Scores:")
	width := len("Dimension")
	for _, r := range Table(ev) {
		width = max(width, len(r.Dimension))
	}
	for _, r := range Table(ev) {
		fmt.Fprintf(&b, "  %-*s  %4d\n", width, r.Dimension, r.Score)
	}
	fmt.Fprintf(&b, "\nAverage Score:   %s\n", FormatAggregate(ev))
	fmt.Fprintf(&b, "Recommendation:  %s\n", ev.Report.Recommendation.Text())

	_, err := io.WriteString(w, b.String())
	return err
}
