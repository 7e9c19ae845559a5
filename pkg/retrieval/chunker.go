// Package retrieval implements the document ingestion and semantic search
// pipeline: chunking, embedding and nearest-neighbor lookup.
package retrieval

import (
	"errors"
	"strings"
)

const (
	// DefaultChunkSize is the sliding window width in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 200
)

// ErrInvalidChunking indicates the overlap is not smaller than the chunk size,
// which would make the sliding window degenerate.
var ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

// Chunk splits text into overlapping windows of at most size characters, with
// overlap characters shared between consecutive chunks. Whitespace-only chunks
// are dropped.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunking
	}

	// Window over runes, not bytes, so multi-byte text never splits mid-rune.
	runes := []rune(text)
	chunks := make([]string, 0)
	step := size - overlap

	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
