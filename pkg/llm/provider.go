// Package llm abstracts the generative-model capability behind a streaming
// provider interface.
package llm

import "context"

// Provider streams a model response for a prompt. The returned channel is
// closed when the response is complete; a failed stream is reported through
// the error return, never by panicking mid-stream.
type Provider interface {
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}
