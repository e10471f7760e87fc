// Package scoring turns a completed answer set into per-dimension scores,
// an aggregate and a recommendation.
package scoring

import (
	"fmt"
	"maps"
	"slices"

	"github.com/abhisek/ethiq/internal/questionbank"
)

// Threshold is the inclusive aggregate at or above which a candidate advances.
const Threshold = 70

// AnswerSet maps question index to the chosen option label.
type AnswerSet map[int]string

// Set records or replaces the answer for question i.
func (a AnswerSet) Set(i int, label string) { a[i] = label }

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet { return maps.Clone(a) }

// Recommendation is the hiring outcome derived from the aggregate.
type Recommendation int

const (
	Reject Recommendation = iota
	Advance
)

func (r Recommendation) String() string {
	if r == Advance {
		return "ADVANCE"
	}
	return "REJECT"
}

func (r Recommendation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Recommendation) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ADVANCE":
		*r = Advance
	case "REJECT":
		*r = Reject
	default:
		return fmt.Errorf("unknown recommendation %q", b)
	}
	return nil
}

// Text is the respondent-facing wording of the recommendation.
func (r Recommendation) Text() string {
	if r == Advance {
		return "Proceed to Next Round"
	}
	return "Do Not Proceed"
}

// QuestionScore is the value one answered question contributed.
type QuestionScore struct {
	Index     int    `json:"index"`
	Dimension string `json:"dimension"`
	Label     string `json:"label"`
	Value     int    `json:"value"`
}

// Report is the outcome of scoring one answer set.
type Report struct {
	// DimensionScores holds the value of the last question answered for
	// each dimension.
	DimensionScores map[string]int `json:"dimension_scores"`

	// Dimensions lists the keys of DimensionScores in bank order.
	Dimensions []string `json:"dimensions"`

	// Questions is the per-question trace in bank order. Unlike
	// DimensionScores it keeps every contribution.
	Questions []QuestionScore `json:"questions"`

	Total          int            `json:"total"`
	Count          int            `json:"count"`
	Aggregate      float64        `json:"aggregate"`
	Recommendation Recommendation `json:"recommendation"`
}

// Score evaluates answers against the bank. It never returns a partial
// report: the first problem in bank order is returned as *Error.
func Score(bank *questionbank.Bank, answers AnswerSet) (*Report, error) {
	n := bank.Len()
	for _, i := range slices.Sorted(maps.Keys(answers)) {
		if i < 0 || i >= n {
			return nil, &Error{Kind: UnexpectedAnswer, Index: i, Label: answers[i]}
		}
	}

	r := &Report{
		DimensionScores: make(map[string]int),
		Questions:       make([]QuestionScore, 0, n),
		Count:           n,
	}

	for i, q := range bank.Questions() {
		label, ok := answers[i]
		if !ok {
			return nil, &Error{Kind: MissingAnswer, Index: i}
		}
		opt, ok := q.Option(label)
		if !ok {
			return nil, &Error{Kind: UnknownOption, Index: i, Label: label}
		}

		if _, seen := r.DimensionScores[q.Dimension]; !seen {
			r.Dimensions = append(r.Dimensions, q.Dimension)
		}
		r.DimensionScores[q.Dimension] = opt.Value
		r.Questions = append(r.Questions, QuestionScore{
			Index:     i,
			Dimension: q.Dimension,
			Label:     label,
			Value:     opt.Value,
		})
		r.Total += opt.Value
	}

	r.Aggregate = float64(r.Total) / float64(n)
	r.Recommendation = Recommend(r.Total, n)
	return r, nil
}

// Recommend applies the threshold to a total over n questions. The
// comparison is done on integers so an aggregate of exactly 70 advances.
// For total >= 0, total/n >= Threshold holds exactly when total >= Threshold*n,
// without forming the product.
func Recommend(total, n int) Recommendation {
	if n > 0 && total >= 0 && total/n >= Threshold {
		return Advance
	}
	return Reject
}
