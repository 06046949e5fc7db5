package llm

import "context"

// Generator produces a free-text completion from a single user prompt.
// The pipeline takes the returned text verbatim; no structure is parsed
// or validated.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
