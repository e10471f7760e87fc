package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/abhisek/ethiq/internal/session"
)

// ErrEmptyChart is returned when no dimension has a positive score, since a
// pie chart cannot show a zero total.
var ErrEmptyChart = errors.New("no positive scores to chart")

const (
	chartWidth  = 640
	chartHeight = 640
)

// Slice is one segment of the score distribution.
type Slice struct {
	Dimension string
	Score     int
	Percent   float64
}

// Distribution computes each dimension's share of the summed dimension
// scores. Non-positive scores are left out.
func Distribution(ev *session.Evaluation) []Slice {
	total := 0
	for _, r := range Table(ev) {
		if r.Score > 0 {
			total += r.Score
		}
	}
	if total == 0 {
		return nil
	}
	var out []Slice
	for _, r := range Table(ev) {
		if r.Score <= 0 {
			continue
		}
		out = append(out, Slice{
			Dimension: r.Dimension,
			Score:     r.Score,
			Percent:   float64(r.Score) * 100 / float64(total),
		})
	}
	return out
}

// Chart renders the score distribution as a PNG pie chart held in memory.
func Chart(ev *session.Evaluation) ([]byte, error) {
	slices := Distribution(ev)
	if len(slices) == 0 {
		return nil, ErrEmptyChart
	}

	values := make([]chart.Value, len(slices))
	for i, s := range slices {
		values[i] = chart.Value{
			Value: float64(s.Score),
			Label: fmt.Sprintf("%s %.1f%%", s.Dimension, s.Percent),
		}
	}

	pie := chart.PieChart{
		Title:  ChartTitle,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
