package llm

import (
	"context"
	"strings"
)

const mockPromptPreview = 50

// MockProvider streams a canned response word by word. It keeps the whole
// system runnable without a model backend.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	preview := prompt
	if runes := []rune(preview); len(runes) > mockPromptPreview {
		preview = string(runes[:mockPromptPreview]) + "..."
	}

	response := "This is a mock response to your query: '" + preview + "'. " +
		"The workflow is working correctly with the mock model provider."

	out := make(chan string)

	go func() {
		defer close(out)

		for _, word := range strings.Fields(response) {
			select {
			case <-ctx.Done():
				return
			case out <- word + " ":
			}
		}
	}()

	return out, nil
}
