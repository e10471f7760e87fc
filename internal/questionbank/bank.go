package questionbank

import "slices"

// Option is one selectable answer of a question.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// Question is a prompt tied to a behavioural dimension.
type Question struct {
	Dimension string   `json:"dimension" yaml:"dimension"`
	Prompt    string   `json:"question" yaml:"question"`
	Options   []Option `json:"options" yaml:"options"`
}

// Option returns the option with the given label. Labels match exactly,
// case and whitespace included.
func (q Question) Option(label string) (Option, bool) {
	for _, o := range q.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Labels returns the option labels in display order.
func (q Question) Labels() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Label
	}
	return out
}

// Bank is an ordered, immutable set of questions. The zero value is not
// usable; build one with New or Reference.
type Bank struct {
	questions []Question
}

// New validates the questions and returns a Bank holding a private copy.
func New(questions []Question) (*Bank, error) {
	if err := validate(questions); err != nil {
		return nil, err
	}
	return &Bank{questions: cloneQuestions(questions)}, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Question returns the question at index i.
func (b *Bank) Question(i int) (Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

// Questions returns a copy of all questions in declaration order.
func (b *Bank) Questions() []Question {
	return cloneQuestions(b.questions)
}

// Dimensions returns the distinct dimension labels in first-appearance order.
func (b *Bank) Dimensions() []string {
	seen := make(map[string]bool, len(b.questions))
	var dims []string
	for _, q := range b.questions {
		if !seen[q.Dimension] {
			seen[q.Dimension] = true
			dims = append(dims, q.Dimension)
		}
	}
	return dims
}

// SharedDimensions returns dimension labels used by more than one question.
// Only the last of those questions contributes to the per-dimension score.
func (b *Bank) SharedDimensions() []string {
	count := make(map[string]int, len(b.questions))
	for _, q := range b.questions {
		count[q.Dimension]++
	}
	var shared []string
	for _, d := range b.Dimensions() {
		if count[d] > 1 {
			shared = append(shared, d)
		}
	}
	return shared
}

func cloneQuestion(q Question) Question {
	q.Options = slices.Clone(q.Options)
	return q
}

func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = cloneQuestion(q)
	}
	return out
}
