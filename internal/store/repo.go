package store

import (
	"context"
	"time"

	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
	Role  string    // exact role match (evaluations only)
}

// EvaluationSummary is a history list entry.
type EvaluationSummary struct {
	ID             string
	Identity       session.Identity
	Aggregate      float64
	Recommendation scoring.Recommendation
	CompletedAt    time.Time
}

// StoredEvaluation is a full history record.
type StoredEvaluation struct {
	Evaluation *session.Evaluation
	Commentary *report.Commentary
}

// EvaluationRepo keeps finalized evaluations.
type EvaluationRepo interface {
	// Save stores a finalized evaluation. Commentary may be nil.
	Save(ctx context.Context, ev *session.Evaluation, commentary *report.Commentary) error

	// SetCommentary attaches commentary produced after the evaluation was saved.
	SetCommentary(ctx context.Context, id string, commentary *report.Commentary) error

	// Get returns the evaluation with the given ID, or nil if none exists.
	Get(ctx context.Context, id string) (*StoredEvaluation, error)

	// List returns evaluations newest first.
	List(ctx context.Context, opts QueryOpts) ([]EvaluationSummary, error)

	// Prune deletes all but the keep most recent evaluations and returns
	// how many were removed.
	Prune(ctx context.Context, keep int) (int, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)
}
