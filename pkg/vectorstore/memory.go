package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-memory vector store with cosine distance. It backs
// local development and tests, where an external index is not available.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Item),
	}
}

func (s *MemoryStore) Upsert(_ context.Context, collection string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.collections[collection]

	for _, item := range items {
		replaced := false

		for i := range existing {
			if existing[i].ID == item.ID {
				existing[i] = item
				replaced = true

				break
			}
		}

		if !replaced {
			existing = append(existing, item)
		}
	}

	s.collections[collection] = existing

	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, vector []float32, topK int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.collections[collection]
	if !ok {
		return nil, ErrCollectionNotFound
	}

	matches := make([]Match, 0, len(items))

	for _, item := range items {
		matches = append(matches, Match{
			ID:       item.ID,
			Content:  item.Content,
			Metadata: item.Metadata,
			Distance: cosineDistance(vector, item.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

func (s *MemoryStore) DeleteCollection(_ context.Context, collection string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.collections[collection]
	delete(s.collections, collection)

	return existed, nil
}

func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
