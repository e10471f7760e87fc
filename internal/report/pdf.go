package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/abhisek/ethiq/internal/session"
)

const chartImageName = "score-distribution"

// WritePDF renders the evaluation as an A4 document. Commentary may be nil.
func WritePDF(w io.Writer, ev *session.Evaluation, commentary *Commentary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(DocumentTitle, true)
	pdf.SetAuthor("ethiq", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(DocumentTitle), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	line := func(s string) {
		pdf.CellFormat(0, 8, tr(s), "", 1, "L", false, 0, "")
	}
	line("Name: " + ev.Identity.Name)
	line("Email: " + ev.Identity.Email)
	line("Role: " + ev.Identity.Role)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	line("Scores:")
	pdf.SetFont("Helvetica", "", 12)
	for _, r := range Table(ev) {
		line(fmt.Sprintf("%s: %d", r.Dimension, r.Score))
	}
	pdf.Ln(4)

	line("Average Score: " + FormatAggregate(ev))
	pdf.SetFont("Helvetica", "B", 12)
	line("Recommendation: " + ev.Report.Recommendation.Text())

	if !commentary.Empty() {
		writeCommentary(pdf, tr, commentary)
	}

	png, err := Chart(ev)
	switch {
	case errors.Is(err, ErrEmptyChart):
	case err != nil:
		return err
	default:
		pdf.Ln(6)
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(chartImageName, opts, bytes.NewReader(png))
		pdf.ImageOptions(chartImageName, pdf.GetX(), pdf.GetY(), 100, 0, true, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func writeCommentary(pdf *fpdf.Fpdf, tr func(string) string, c *Commentary) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Assessor Notes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if c.Summary != "" {
		pdf.MultiCell(0, 6, tr(c.Summary), "", "L", false)
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, it := range items {
			pdf.MultiCell(0, 6, tr("- "+it), "", "L", false)
		}
	}
	list("Strengths", c.Strengths)
	list("Development areas", c.DevelopmentAreas)
}

// SavePDF writes the report into dir using FileName and returns the path.
func SavePDF(dir string, ev *session.Evaluation, commentary *Commentary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(dir, FileName(ev.Identity))

	var buf bytes.Buffer
	if err := WritePDF(&buf, ev, commentary); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
