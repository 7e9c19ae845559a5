// Package embedding turns text into fixed-dimension vectors, either through an
// external embedding model or a deterministic local fallback.
package embedding

import "context"

// Dimensions is the fixed output dimensionality every embedder must produce.
const Dimensions = 1536

// Embedder produces fixed-length vectors for text. Implementations must be
// safe for concurrent use and must not share mutable state across calls.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
