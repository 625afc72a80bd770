// Package ai provides the generative text boundary. Everything above it
// depends only on TextGenerator so tests and the enrichment pipeline never
// need a live model.
package ai

import "context"

// TextGenerator submits one prompt and returns the model's textual response.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
