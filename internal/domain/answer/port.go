package answer

import "context"

// Client is the model port. An empty response with a nil error is the
// defined "unavailable" signal; callers treat it like a failed call and
// fall back, never as a user-facing error.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
