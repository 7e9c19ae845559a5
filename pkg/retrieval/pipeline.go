package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/embedding"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/vectorstore"
)

// Pipeline couples the chunker, an embedder and a vector store into the
// ingestion and search operations the workflow engine depends on.
type Pipeline struct {
	embedder     embedding.Embedder
	store        vectorstore.VectorStore
	logger       *slog.Logger
	chunkSize    int
	chunkOverlap int
}

func NewPipeline(embedder embedding.Embedder, store vectorstore.VectorStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		embedder:     embedder,
		store:        store,
		logger:       logger.With("module", "retrieval_pipeline"),
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
}

// CollectionName derives the vector collection for a document.
func CollectionName(documentID string) string {
	return "doc_" + strings.ReplaceAll(documentID, "-", "_")
}

// WorkflowCollectionName derives the shared vector collection for a workflow.
func WorkflowCollectionName(workflowID string) string {
	return "wf_" + strings.ReplaceAll(workflowID, "-", "_")
}

// Ingest chunks and embeds the document text and upserts every chunk into the
// document's collection, returning the number of chunks indexed. Ingestion is
// all-or-nothing: if embedding or the index call fails, no part of the
// document counts as ingested.
func (p *Pipeline) Ingest(ctx context.Context, documentID, text string) (int, error) {
	chunks, err := Chunk(text, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk document %s: %w", documentID, err)
	}

	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s produced no chunks", documentID)
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed document %s: %w", documentID, err)
	}

	collection := CollectionName(documentID)
	items := make([]vectorstore.Item, len(chunks))

	for i, chunk := range chunks {
		items[i] = vectorstore.Item{
			ID:      documentID + "_" + strconv.Itoa(i),
			Content: chunk,
			Metadata: map[string]any{
				"document_id": documentID,
				"chunk_index": i,
			},
			Vector: vectors[i],
		}
	}

	if err := p.store.Upsert(ctx, collection, items); err != nil {
		return 0, fmt.Errorf("failed to index document %s: %w", documentID, err)
	}

	p.logger.InfoContext(ctx, "Document ingested",
		"document_id", documentID, "collection", collection, "chunks", len(chunks))

	return len(chunks), nil
}

// Search embeds the query and returns up to topK results from the named
// collection, ordered by descending similarity (score = 1 - distance). An
// unavailable backend yields an empty result set, never an error.
func (p *Pipeline) Search(ctx context.Context, collection, query string, topK int) []models.SearchResult {
	if topK <= 0 {
		topK = 5
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		p.logger.WarnContext(ctx, "Query embedding failed, returning no results",
			"collection", collection, "error", err)

		return []models.SearchResult{}
	}

	matches, err := p.store.Query(ctx, collection, vector, topK)
	if err != nil {
		if vectorstore.IsCollectionNotFound(err) {
			p.logger.DebugContext(ctx, "Collection does not exist", "collection", collection)
		} else {
			p.logger.WarnContext(ctx, "Vector search failed, returning no results",
				"collection", collection, "error", err)
		}

		return []models.SearchResult{}
	}

	results := make([]models.SearchResult, len(matches))

	for i, match := range matches {
		results[i] = models.SearchResult{
			ID:       match.ID,
			Content:  match.Content,
			Metadata: match.Metadata,
			Score:    1.0 - match.Distance,
		}
	}

	return results
}

// Delete removes the document's collection as a unit and reports whether it
// existed. Callers treat failures as best-effort and must not block document
// removal on them.
func (p *Pipeline) Delete(ctx context.Context, documentID string) (bool, error) {
	collection := CollectionName(documentID)

	existed, err := p.store.DeleteCollection(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}

	if !existed {
		p.logger.InfoContext(ctx, "Collection did not exist, nothing to delete", "collection", collection)
	}

	return existed, nil
}
