package llm

import (
	"context"
	"errors"
)

// Completer sends a single-turn prompt to a language model and returns the
// generated text with surrounding whitespace removed.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	ErrEmptyCompletion = errors.New("llm returned no content")
	ErrNotConfigured   = errors.New("llm client not configured")
)

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
