package scoring

import "fmt"

// ErrorKind identifies why an answer set could not be scored.
type ErrorKind int

const (
	// MissingAnswer means a question has no chosen label.
	MissingAnswer ErrorKind = iota
	// UnknownOption means the chosen label is not an option of the question.
	UnknownOption
	// UnexpectedAnswer means an answer refers to an index outside the bank.
	UnexpectedAnswer
)

func (k ErrorKind) String() string {
	switch k {
	case MissingAnswer:
		return "missing answer"
	case UnknownOption:
		return "unknown option"
	case UnexpectedAnswer:
		return "unexpected answer"
	default:
		return "unknown"
	}
}

// Error reports the first offending question of an answer set.
type Error struct {
	Kind  ErrorKind
	Index int
	Label string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownOption:
		return fmt.Sprintf("question %d: unknown option %q", e.Index, e.Label)
	case UnexpectedAnswer:
		return fmt.Sprintf("answer for question %d does not exist in the bank", e.Index)
	default:
		return fmt.Sprintf("question %d: %s", e.Index, e.Kind)
	}
}
