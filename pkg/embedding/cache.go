package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const cacheTTL = 24 * time.Hour

// CachedEmbedder is a read-through Redis cache in front of another embedder.
// Cache failures never fail the embedding call, they only cost the round trip.
type CachedEmbedder struct {
	inner  Embedder
	client redis.UniversalClient
	logger *slog.Logger
}

func NewCachedEmbedder(inner Embedder, client redis.UniversalClient, logger *slog.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		client: client,
		logger: logger.With("module", "embedding_cache"),
	}
}

func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.cacheKey(text)

	cached, err := e.client.Get(ctx, key).Result()
	if err == nil {
		var vector []float32
		if err := json.Unmarshal([]byte(cached), &vector); err == nil && len(vector) == e.inner.Dimensions() {
			return vector, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		e.logger.WarnContext(ctx, "Embedding cache read failed", "error", err)
	}

	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.store(ctx, key, vector)

	return vector, nil
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		vectors[i] = vector
	}

	return vectors, nil
}

func (e *CachedEmbedder) store(ctx context.Context, key string, vector []float32) {
	encoded, err := json.Marshal(vector)
	if err != nil {
		return
	}

	if err := e.client.Set(ctx, key, encoded, cacheTTL).Err(); err != nil {
		e.logger.WarnContext(ctx, "Embedding cache write failed", "error", err)
	}
}

func (e *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))

	return "embedding:" + hex.EncodeToString(sum[:])
}
