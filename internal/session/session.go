// Package session holds the state of one respondent working through a
// question bank, from identity capture to the finalized evaluation.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/scoring"
)

var (
	// ErrFinalized is returned when a finalized session is modified.
	ErrFinalized = errors.New("session already finalized")

	// ErrQuestionOutOfRange is returned for an index outside the bank.
	ErrQuestionOutOfRange = errors.New("question index out of range")
)

// Evaluation is the consistent bundle handed to reporting and storage.
type Evaluation struct {
	ID          string            `json:"id"`
	Identity    Identity          `json:"identity"`
	Answers     scoring.AnswerSet `json:"answers"`
	Report      *scoring.Report   `json:"report"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Session is caller-owned state for a single respondent. It is not safe
// for concurrent use.
type Session struct {
	bank      *questionbank.Bank
	identity  Identity
	answers   scoring.AnswerSet
	startedAt time.Time
	phase     Phase
}

// New starts a session. The identity must be complete.
func New(bank *questionbank.Bank, identity Identity, now time.Time) (*Session, error) {
	if bank == nil {
		return nil, errors.New("session: nil question bank")
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		bank:      bank,
		identity:  identity.Normalize(),
		answers:   scoring.AnswerSet{},
		startedAt: now,
	}, nil
}

// Bank returns the question bank this session draws from.
func (s *Session) Bank() *questionbank.Bank { return s.bank }

// Identity returns the respondent identity.
func (s *Session) Identity() Identity { return s.identity }

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Answer records or replaces the chosen label for question i. The label is
// checked against the question's options so an invalid choice never reaches
// scoring.
func (s *Session) Answer(i int, label string) error {
	if s.phase == PhaseFinalized {
		return ErrFinalized
	}
	q, ok := s.bank.Question(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrQuestionOutOfRange, i)
	}
	if _, ok := q.Option(label); !ok {
		return &scoring.Error{Kind: scoring.UnknownOption, Index: i, Label: label}
	}
	s.answers.Set(i, label)
	return nil
}

// Selected returns the current answer for question i.
func (s *Session) Selected(i int) (string, bool) {
	l, ok := s.answers[i]
	return l, ok
}

// Answers returns a copy of the answers given so far.
func (s *Session) Answers() scoring.AnswerSet { return s.answers.Clone() }

// Progress reports answered versus total questions.
func (s *Session) Progress() Progress {
	return Progress{Answered: len(s.answers), Total: s.bank.Len()}
}

// FirstUnanswered returns the lowest unanswered index, or -1 when complete.
func (s *Session) FirstUnanswered() int {
	for i := range s.bank.Len() {
		if _, ok := s.answers[i]; !ok {
			return i
		}
	}
	return -1
}

// Finalize scores the answers and closes the session. On failure the
// session stays open so the respondent can complete it.
func (s *Session) Finalize(now time.Time) (*Evaluation, error) {
	if s.phase == PhaseFinalized {
		return nil, ErrFinalized
	}
	report, err := scoring.Score(s.bank, s.answers)
	if err != nil {
		return nil, err
	}
	s.phase = PhaseFinalized
	return &Evaluation{
		ID:          uuid.NewString(),
		Identity:    s.identity,
		Answers:     s.answers.Clone(),
		Report:      report,
		StartedAt:   s.startedAt,
		CompletedAt: now,
	}, nil
}

// Evaluate scores a complete answer set in one step. It is used by
// surfaces that collect all answers before scoring.
func Evaluate(bank *questionbank.Bank, identity Identity, answers scoring.AnswerSet, startedAt, now time.Time) (*Evaluation, error) {
	s, err := New(bank, identity, startedAt)
	if err != nil {
		return nil, err
	}
	if answers != nil {
		s.answers = answers.Clone()
	}
	return s.Finalize(now)
}
