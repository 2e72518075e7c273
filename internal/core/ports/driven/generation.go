package driven

import (
	"context"
)

// GenerationService produces completions from a language model
type GenerationService interface {
	// Complete runs a single blocking completion for a fully
	// constructed prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generation service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the generation service
	Close() error
}
