package screen

import (
	"context"
	"time"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/store"
)

// Commentator produces optional assessor commentary for an evaluation.
type Commentator interface {
	Comment(ctx context.Context, ev *session.Evaluation) (*report.Commentary, error)
}

// Env carries the collaborators screens share. Only Bank is required.
type Env struct {
	Bank        *questionbank.Bank
	Evaluations store.EvaluationRepo
	Commentator Commentator
	ReportDir   string
	Now         func() time.Time
}

// Clock returns the current time from Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
