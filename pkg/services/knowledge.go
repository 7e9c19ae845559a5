package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/eventbus"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
)

// ErrDocumentNotFound is returned when a document is not found.
var ErrDocumentNotFound = persistence.ErrDocumentNotFound

// allowedExtensions restricts uploads to formats the text chunker can handle.
var allowedExtensions = []string{".txt", ".md", ".markdown", ".csv", ".json"}

// Knowledge manages uploaded documents: disk storage, record keeping and the
// retrieval index lifecycle.
type Knowledge struct {
	persistence persistence.Persistence
	pipeline    *retrieval.Pipeline
	eventBus    eventbus.EventBus
	logger      *slog.Logger
	uploadDir   string
}

// NewKnowledge creates a new knowledge service storing uploads under uploadDir.
func NewKnowledge(
	persistence persistence.Persistence,
	pipeline *retrieval.Pipeline,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	uploadDir string,
) *Knowledge {
	return &Knowledge{
		persistence: persistence,
		pipeline:    pipeline,
		eventBus:    eventBus,
		logger:      logger.With("module", "knowledge_service"),
		uploadDir:   uploadDir,
	}
}

// List returns all document records.
func (k *Knowledge) List(ctx context.Context) ([]*models.Document, error) {
	documents, err := k.persistence.DocumentRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return documents, nil
}

// Upload stores the file content on disk and creates the document record. The
// document is not searchable until Ingest is called.
func (k *Knowledge) Upload(ctx context.Context, filename, contentType string, content []byte) (*models.Document, error) {
	extension := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowedExtensions, extension) {
		return nil, NewValidationError("Upload", "UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("unsupported file type %q, allowed: %s", extension, strings.Join(allowedExtensions, ", ")),
			ErrUnsupportedFileType)
	}

	if len(content) == 0 {
		return nil, NewValidationError("Upload", "EMPTY_DOCUMENT", "document has no content", ErrEmptyDocument)
	}

	err := os.MkdirAll(k.uploadDir, 0750)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	documentID := uuid.NewString()
	filePath := path.Join(k.uploadDir, documentID+extension)

	err = os.WriteFile(filePath, content, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	document := &models.Document{
		ID:          documentID,
		Filename:    filename,
		FilePath:    filePath,
		ContentType: contentType,
	}

	err = k.persistence.DocumentRepository().Save(ctx, document)
	if err != nil {
		// The record is the source of truth; without it the stored file is
		// unreachable, so remove it again.
		_ = os.Remove(filePath)

		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	k.logger.InfoContext(ctx, "Document uploaded", "document_id", documentID, "filename", filename)

	return document, nil
}

// Ingest chunks, embeds and indexes the stored document and marks the record
// as ingested. Re-ingesting replaces the document's chunks.
func (k *Knowledge) Ingest(ctx context.Context, documentID string) (*models.Document, error) {
	document, err := k.persistence.DocumentRepository().GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	content, err := os.ReadFile(document.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", documentID, err)
	}

	chunks, err := k.pipeline.Ingest(ctx, documentID, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to ingest document %s: %w", documentID, err)
	}

	document.Ingested = true

	err = k.persistence.DocumentRepository().Save(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("failed to update document record: %w", err)
	}

	k.publish(ctx, events.NewDocumentIngested(documentID, chunks))

	return document, nil
}

// Search queries the document's chunks. The document must have been ingested.
func (k *Knowledge) Search(ctx context.Context, documentID, query string, topK int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, NewValidationError("Search", "EMPTY_QUERY", "search query cannot be empty", ErrEmptyQuery)
	}

	document, err := k.persistence.DocumentRepository().GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if !document.Ingested {
		return nil, NewValidationError("Search", "NOT_INGESTED",
			fmt.Sprintf("document %s has not been ingested", documentID), ErrDocumentNotIngested)
	}

	return k.pipeline.Search(ctx, retrieval.CollectionName(documentID), query, topK), nil
}

// Delete removes the document's file and record. The vector index delete is
// best-effort and never blocks record removal.
func (k *Knowledge) Delete(ctx context.Context, documentID string) error {
	document, err := k.persistence.DocumentRepository().GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	err = os.Remove(document.FilePath)
	if err != nil && !os.IsNotExist(err) {
		k.logger.WarnContext(ctx, "Failed to remove document file",
			"document_id", documentID, "path", document.FilePath, "error", err)
	}

	err = k.persistence.DocumentRepository().Delete(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	_, err = k.pipeline.Delete(ctx, documentID)
	if err != nil {
		k.logger.WarnContext(ctx, "Failed to delete document vectors",
			"document_id", documentID, "error", err)
	}

	k.publish(ctx, events.NewDocumentDeleted(documentID))

	return nil
}

func (k *Knowledge) publish(ctx context.Context, event eventbus.Event) {
	if k.eventBus == nil {
		return
	}

	if err := k.eventBus.Publish(ctx, event.Key(), event); err != nil {
		k.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
