package cmd

import (
	"context"
	"fmt"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/embedding"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/llm"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/vectorstore"
)

// NewVectorStore selects the vector store backend from the vector URL scheme.
// An empty URL selects the in-memory store.
func NewVectorStore(ctx context.Context, logger *slog.Logger, vectorURL string) (vectorstore.VectorStore, error) {
	switch parseScheme(vectorURL) {
	case "postgres", "postgresql":
		return vectorstore.NewPgVectorStore(ctx, logger, vectorURL, embedding.Dimensions)
	case "":
		return vectorstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store URL: %q", vectorURL)
	}
}

// NewEmbedder creates the embedding provider, wrapped in a Redis read-through
// cache when a Redis URL is configured.
func NewEmbedder(provider, apiKey, redisURL string, logger *slog.Logger) (embedding.Embedder, error) {
	var embedder embedding.Embedder

	switch provider {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("the openai embedding provider requires an API key")
		}

		embedder = embedding.NewOpenAIEmbedder(apiKey)
	case "", "hash":
		embedder = embedding.NewHashEmbedder()
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", provider)
	}

	if redisURL == "" {
		return embedder, nil
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return embedding.NewCachedEmbedder(embedder, redis.NewClient(options), logger), nil
}

// NewLLMProvider creates the generation model provider.
func NewLLMProvider(provider, apiKey string) (llm.Provider, error) {
	switch provider {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("the openai llm provider requires an API key")
		}

		return llm.NewOpenAIProvider(apiKey), nil
	case "", "mock":
		return llm.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", provider)
	}
}
