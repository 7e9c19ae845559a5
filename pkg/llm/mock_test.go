package llm

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderStream(t *testing.T) {
	provider := NewMockProvider()

	stream, err := provider.Stream(context.Background(), "what is the answer?")
	require.NoError(t, err)

	var builder strings.Builder
	for token := range stream {
		builder.WriteString(token)
	}

	response := builder.String()
	assert.Contains(t, response, "what is the answer?")
	assert.Contains(t, response, "mock response")
}

func TestMockProviderTruncatesLongPrompt(t *testing.T) {
	provider := NewMockProvider()

	prompt := strings.Repeat("x", 200)

	stream, err := provider.Stream(context.Background(), prompt)
	require.NoError(t, err)

	var builder strings.Builder
	for token := range stream {
		builder.WriteString(token)
	}

	assert.Contains(t, builder.String(), strings.Repeat("x", 50)+"...")
	assert.NotContains(t, builder.String(), strings.Repeat("x", 51))
}

func TestMockProviderTruncatesOnRuneBoundary(t *testing.T) {
	provider := NewMockProvider()

	prompt := strings.Repeat("é", 200)

	stream, err := provider.Stream(context.Background(), prompt)
	require.NoError(t, err)

	var builder strings.Builder
	for token := range stream {
		builder.WriteString(token)
	}

	response := builder.String()
	assert.True(t, utf8.ValidString(response))
	assert.Contains(t, response, strings.Repeat("é", 50)+"...")
}

func TestMockProviderStopsOnCancel(t *testing.T) {
	provider := NewMockProvider()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream, err := provider.Stream(ctx, "hello")
	require.NoError(t, err)

	count := 0
	for range stream {
		count++
	}

	// The producer observes cancellation and closes early.
	assert.LessOrEqual(t, count, 1)
}
