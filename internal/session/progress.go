package session

// Progress summarises how much of the questionnaire has been answered.
type Progress struct {
	Answered int
	Total    int
}

// Complete reports whether every question has an answer.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Answered == p.Total
}

// Fraction returns the answered share in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}
