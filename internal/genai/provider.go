// Package genai abstracts over interchangeable text-generation providers.
package genai

import (
	"context"
)

// Provider is a single text-generation backend. Implementations are plain
// REST clients; provider errors never escape the Service boundary.
type Provider interface {
	// Name returns the provider identifier used in logs.
	Name() string
	// Generate produces text for a prompt. The caller-supplied context
	// bounds the call.
	Generate(ctx context.Context, prompt string) (string, error)
}
