package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedderDeterminism(t *testing.T) {
	embedder := NewHashEmbedder()

	first, err := embedder.Embed(context.Background(), "the same text")
	require.NoError(t, err)

	second, err := embedder.Embed(context.Background(), "the same text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHashEmbedderDimensions(t *testing.T) {
	embedder := NewHashEmbedder()

	vector, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vector, Dimensions)
	assert.Equal(t, Dimensions, embedder.Dimensions())
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	embedder := NewHashEmbedder()

	vector, err := embedder.Embed(context.Background(), "normalize me")
	require.NoError(t, err)

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}

	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestHashEmbedderDistinctTexts(t *testing.T) {
	embedder := NewHashEmbedder()

	first, err := embedder.Embed(context.Background(), "alpha")
	require.NoError(t, err)

	second, err := embedder.Embed(context.Background(), "beta")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashEmbedderBatch(t *testing.T) {
	embedder := NewHashEmbedder()

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	single, err := embedder.Embed(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[1])
}
