package llm

import "context"

// Purpose names the feature that issued a request. It is stored with every
// logged LLM event and drives the per-purpose usage totals.
type Purpose string

const (
	PurposeCommentary Purpose = "commentary"
	PurposeUnknown    Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose label, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
