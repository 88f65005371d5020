// Package inference wraps the hosted text-generation endpoints.
package inference

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the provider answers without any text
// candidates. Callers substitute their own default text.
var ErrEmptyCompletion = errors.New("empty completion")

// Generator produces text for a prompt within a token budget.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
