package model

import "context"

// Completer is a text-completion call into a hosted model. Treated as
// unreliable and possibly slow; callers must tolerate total failure.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
