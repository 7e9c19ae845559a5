// Package vectorstore provides collection-scoped storage and nearest-neighbor
// search over embedded document chunks.
package vectorstore

import (
	"context"
	"errors"
)

// ErrCollectionNotFound indicates the named collection has never been written.
var ErrCollectionNotFound = errors.New("collection not found")

// Item is a single embedded chunk to be stored in a collection.
type Item struct {
	ID       string
	Content  string
	Metadata map[string]any
	Vector   []float32
}

// Match is a single nearest-neighbor hit. Distance is the raw metric from the
// index; smaller means closer.
type Match struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float64
}

// VectorStore is the capability interface over a vector index backend.
// Collections partition the index per document, so concurrent writes to
// different collections never contend.
type VectorStore interface {
	Upsert(ctx context.Context, collection string, items []Item) error
	Query(ctx context.Context, collection string, vector []float32, topK int) ([]Match, error)

	// DeleteCollection removes the collection as a unit and reports whether
	// it existed.
	DeleteCollection(ctx context.Context, collection string) (bool, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsCollectionNotFound reports whether err indicates a missing collection.
func IsCollectionNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}
