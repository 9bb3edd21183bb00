package llm

import (
	"context"

	"actionizer/internal/movie"
)

// Client is the single point of contact with the generation service.
type Client interface {
	// TextComplete sends a system and user message and returns the first
	// choice's text.
	TextComplete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// LookupStructured asks for a movie's summary and details. Unparseable
	// responses are returned as movie.Unstructured, never as an error.
	LookupStructured(ctx context.Context, title string) (movie.Data, error)
	// GenerateImage returns a reference to one generated image: a remote URL
	// or a data: URL holding the image inline.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
