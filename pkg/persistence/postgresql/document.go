package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
)

// DocumentRepository handles document-related database operations.
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *sql.DB, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// GetAll returns all document records, newest first.
func (r *DocumentRepository) GetAll(ctx context.Context) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, file_path, content_type, ingested, created_at
		FROM documents
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	documents := make([]*models.Document, 0)

	for rows.Next() {
		document := &models.Document{}

		err := rows.Scan(&document.ID, &document.Filename, &document.FilePath,
			&document.ContentType, &document.Ingested, &document.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		documents = append(documents, document)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}

// GetByID returns a document record by its ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	document := &models.Document{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, file_path, content_type, ingested, created_at
		FROM documents
		WHERE id = $1
	`, id).Scan(&document.ID, &document.Filename, &document.FilePath,
		&document.ContentType, &document.Ingested, &document.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewOpError("GetByID", id, persistence.ErrDocumentNotFound)
		}

		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	return document, nil
}

// Save upserts a document record.
func (r *DocumentRepository) Save(ctx context.Context, document *models.Document) error {
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, file_path, content_type, ingested, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			file_path = EXCLUDED.file_path,
			content_type = EXCLUDED.content_type,
			ingested = EXCLUDED.ingested
	`, document.ID, document.Filename, document.FilePath,
		document.ContentType, document.Ingested, document.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", document.ID, err)
	}

	return nil
}

// Delete removes a document record by its ID.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}
