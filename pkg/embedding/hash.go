package embedding

import (
	"context"
	"crypto/md5" //nolint:gosec // not used for security, only as a stable hash
	"math"
	"math/big"
)

// HashEmbedder derives vectors from an MD5 digest of the input text. Identical
// text always yields bit-identical, unit-normalized vectors, which lets the
// system run without an external embedding backend.
type HashEmbedder struct{}

func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

func (e *HashEmbedder) Dimensions() int {
	return Dimensions
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	sum := md5.Sum([]byte(text)) //nolint:gosec
	hashInt := new(big.Int).SetBytes(sum[:])

	vector := make([]float64, Dimensions)

	var norm float64

	shifted := new(big.Int)
	masked := new(big.Int)
	mask := big.NewInt(0xFF)

	for i := range Dimensions {
		shifted.Rsh(hashInt, uint(i%32))
		masked.And(shifted, mask)

		value := float64(masked.Int64())/127.5 - 1.0
		vector[i] = value
		norm += value * value
	}

	norm = math.Sqrt(norm)

	result := make([]float32, Dimensions)

	for i, value := range vector {
		if norm > 0 {
			result[i] = float32(value / norm)
		}
	}

	return result, nil
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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
