package assessor

import (
	"fmt"
	"strings"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/session"
)

const systemPrompt = `You are an experienced hiring assessor reviewing a candidate's answers to a behaviour and work ethics questionnaire. Each dimension is scored from 0 to 100. You write short, balanced, professional feedback for the interview panel.`

func buildUserMessage(bank *questionbank.Bank, ev *session.Evaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Role applied for: %s\n\n", ev.Identity.Role)

	b.WriteString("Answers:\n")
	for _, qs := range ev.Report.Questions {
		prompt := ""
		if q, ok := bank.Question(qs.Index); ok {
			prompt = q.Prompt
		}
		fmt.Fprintf(&b, "- [%s] %s\n  Chose: %s (%d)\n", qs.Dimension, prompt, qs.Label, qs.Value)
	}

	b.WriteString("\nDimension scores:\n")
	for _, d := range ev.Report.Dimensions {
		fmt.Fprintf(&b, "- %s: %d\n", d, ev.Report.DimensionScores[d])
	}
	fmt.Fprintf(&b, "\nAverage: %.2f\nRecommendation: %s\n", ev.Report.Aggregate, ev.Report.Recommendation.Text())

	b.WriteString(`
Instructions:
1. Summarise the candidate's behavioural profile in 2-4 sentences.
2. List concrete strengths drawn from the highest scoring dimensions.
3. List development areas the panel should explore, drawn from the lowest scoring dimensions.
4. Do not restate numbers verbatim and do not contradict the recommendation.
5. Do not speculate about the candidate's identity, background or personal characteristics.`)

	return b.String()
}
