package session

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	PhaseAnswering Phase = iota // Accepting and revising answers
	PhaseFinalized              // Scored; no further changes
)

func (p Phase) String() string {
	if p == PhaseFinalized {
		return "finalized"
	}
	return "answering"
}
