package questionbank

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxOptionValue bounds the magnitude of an option value so that the sum
// over a bank, and the threshold product in scoring, stay within int.
const MaxOptionValue = 1_000_000_000

// ValidationErrorKind identifies which bank invariant was violated.
type ValidationErrorKind int

const (
	// EmptyOptions means a question has no options.
	EmptyOptions ValidationErrorKind = iota
	// DuplicateOptionLabel means two options of one question share a label.
	DuplicateOptionLabel
	// EmptyDimension means a question has a blank dimension label.
	EmptyDimension
	// EmptyBank means the bank has no questions at all.
	EmptyBank
	// ValueOutOfRange means an option value could overflow the bank total.
	ValueOutOfRange
)

func (k ValidationErrorKind) String() string {
	switch k {
	case EmptyOptions:
		return "empty options"
	case DuplicateOptionLabel:
		return "duplicate option label"
	case EmptyDimension:
		return "empty dimension"
	case EmptyBank:
		return "empty bank"
	case ValueOutOfRange:
		return "value out of range"
	default:
		return "unknown"
	}
}

// ValidationError reports a malformed question. Index is -1 for bank-wide
// problems.
type ValidationError struct {
	Kind  ValidationErrorKind
	Index int
	Label string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case DuplicateOptionLabel:
		return fmt.Sprintf("question %d: duplicate option label %q", e.Index, e.Label)
	case EmptyBank:
		return "question bank has no questions"
	case ValueOutOfRange:
		return fmt.Sprintf("question %d: option %q value out of range (limit ±%d)", e.Index, e.Label, MaxOptionValue)
	default:
		return fmt.Sprintf("question %d: %s", e.Index, e.Kind)
	}
}

// validate checks every question and returns all problems joined, in bank
// order. errors.As on the result yields the first *ValidationError.
func validate(questions []Question) error {
	if len(questions) == 0 {
		return &ValidationError{Kind: EmptyBank, Index: -1}
	}

	// Both bounds keep |sum| <= limit*n within int for any bank size.
	limit := min(MaxOptionValue, math.MaxInt/len(questions))

	var errs []error
	for i, q := range questions {
		if strings.TrimSpace(q.Dimension) == "" {
			errs = append(errs, &ValidationError{Kind: EmptyDimension, Index: i})
		}
		if len(q.Options) == 0 {
			errs = append(errs, &ValidationError{Kind: EmptyOptions, Index: i})
			continue
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value > limit || o.Value < -limit {
				errs = append(errs, &ValidationError{Kind: ValueOutOfRange, Index: i, Label: o.Label})
			}
			if seen[o.Label] {
				errs = append(errs, &ValidationError{Kind: DuplicateOptionLabel, Index: i, Label: o.Label})
				continue
			}
			seen[o.Label] = true
		}
	}
	return errors.Join(errs...)
}
