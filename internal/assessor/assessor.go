// Package assessor asks an LLM for narrative commentary on a finalized
// evaluation. Commentary is advisory: it never alters scores or the
// recommendation, and callers treat failures as "no commentary".
package assessor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/ethiq/internal/llm"
	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/session"
)

// Commentator generates assessor commentary.
type Commentator struct {
	provider llm.Provider
	bank     *questionbank.Bank
	cfg      Config
}

// New creates a Commentator for evaluations scored against bank. A nil
// bank means the reference bank.
func New(provider llm.Provider, bank *questionbank.Bank, cfg Config) *Commentator {
	if bank == nil {
		bank = questionbank.Reference()
	}
	return &Commentator{provider: provider, bank: bank, cfg: cfg}
}

// Comment returns commentary for ev.
func (c *Commentator) Comment(ctx context.Context, ev *session.Evaluation) (*report.Commentary, error) {
	if ev == nil || ev.Report == nil {
		return nil, errors.New("assessor: evaluation has no report")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCommentary)

	req := llm.UserRequest(systemPrompt, buildUserMessage(c.bank, ev), CommentarySchema, c.cfg.MaxTokens)
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("commentary: %w", err)
	}

	var out report.Commentary
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse commentary response: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	out.Strengths = compact(out.Strengths)
	out.DevelopmentAreas = compact(out.DevelopmentAreas)
	return &out, nil
}

// ModelID reports the model behind the commentator.
func (c *Commentator) ModelID() string { return c.provider.ModelID() }

func compact(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
