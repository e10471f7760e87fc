package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/store"
)

// QuestionsTool handles the list_questions MCP tool.
type QuestionsTool struct {
	bank *questionbank.Bank
}

// NewQuestionsTool creates a QuestionsTool for bank.
func NewQuestionsTool(bank *questionbank.Bank) *QuestionsTool {
	return &QuestionsTool{bank: bank}
}

// Definition returns the MCP tool definition for list_questions.
func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_questions",
		mcp.WithDescription(
			"List the behaviour and work ethics questions in order, with their dimension and the exact option labels to answer with.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handle processes the list_questions tool call.
func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for i, q := range t.bank.Questions() {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, q.Dimension, q.Prompt)
		for _, o := range q.Options {
			fmt.Fprintf(&sb, "   - %s\n", o.Label)
		}
	}
	return mcp.NewToolResultStructured(questionbank.File{Questions: t.bank.Questions()}, sb.String()), nil
}

// ScoreTool handles the score_answers MCP tool.
type ScoreTool struct {
	bank        *questionbank.Bank
	evaluations store.EvaluationRepo
	now         func() time.Time
}

// NewScoreTool creates a ScoreTool. A nil repo skips persistence.
func NewScoreTool(bank *questionbank.Bank, evaluations store.EvaluationRepo) *ScoreTool {
	return &ScoreTool{bank: bank, evaluations: evaluations, now: time.Now}
}

// Definition returns the MCP tool definition for score_answers.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_answers",
		mcp.WithDescription(
			"Score one candidate's answers. Pass one option label per question, in question order, exactly as list_questions shows them. "+
				"Returns per-dimension scores, the average and the recommendation.",
		),
		mcp.WithString("name", mcp.Required(), mcp.Description("Candidate full name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Candidate email")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role applied for")),
		mcp.WithArray("answers",
			mcp.Required(),
			mcp.Description("Chosen option label for each question, in question order"),
			mcp.WithStringItems(),
		),
	)
}

// scoreResult is the structured payload of score_answers.
type scoreResult struct {
	EvaluationID   string                 `json:"evaluation_id"`
	Scores         []report.Row           `json:"scores"`
	Average        float64                `json:"average"`
	Recommendation string                 `json:"recommendation"`
	Outcome        scoring.Recommendation `json:"outcome"`
}

// Handle processes the score_answers tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity := session.Identity{
		Name:  req.GetString("name", ""),
		Email: req.GetString("email", ""),
		Role:  req.GetString("role", ""),
	}.Normalize()
	if err := identity.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	labels, err := req.RequireStringSlice("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answers := scoring.AnswerSet{}
	for i, l := range labels {
		if l != "" {
			answers.Set(i, l)
		}
	}

	now := t.now()
	ev, err := session.Evaluate(t.bank, identity, answers, now, now)
	if err != nil {
		var se *scoring.Error
		if errors.As(err, &se) {
			return mcp.NewToolResultError(fmt.Sprintf("cannot score: %v", se)), nil
		}
		return nil, err
	}

	if t.evaluations != nil {
		if err := t.evaluations.Save(ctx, ev, nil); err != nil {
			log.Printf("mcp: save evaluation %s: %v", ev.ID, err)
		}
	}

	var text strings.Builder
	if err := report.WriteText(&text, ev); err != nil {
		return nil, err
	}
	return mcp.NewToolResultStructured(scoreResult{
		EvaluationID:   ev.ID,
		Scores:         report.Table(ev),
		Average:        ev.Report.Aggregate,
		Recommendation: ev.Report.Recommendation.Text(),
		Outcome:        ev.Report.Recommendation,
	}, text.String()), nil
}
