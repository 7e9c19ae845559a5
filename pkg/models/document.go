package models

import "time"

// Document is a piece of ingested source text. Its chunks live in a dedicated
// vector collection and are deleted as a unit together with the document.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"     validate:"required"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	Ingested    bool      `json:"ingested"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chunk is a bounded text span produced by splitting a document for embedding.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Content    string `json:"content"`
}

// SearchResult is a single ranked hit from a knowledge search.
type SearchResult struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}
