package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
)

// DocumentRepository handles document-related file operations.
type DocumentRepository struct {
	root string
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(root string) *DocumentRepository {
	return &DocumentRepository{root: root}
}

// GetAll returns every stored document record, newest first.
func (dr *DocumentRepository) GetAll(ctx context.Context) ([]*models.Document, error) {
	root := os.DirFS(path.Join(dr.root, "documents"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list document files: %w", err)
	}

	documents := make([]*models.Document, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		documentID := file[:len(file)-5]

		document, err := dr.GetByID(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
		}

		documents = append(documents, document)
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].CreatedAt.After(documents[j].CreatedAt)
	})

	return documents, nil
}

// GetByID retrieves a document record by its ID from the file system.
func (dr *DocumentRepository) GetByID(_ context.Context, documentID string) (*models.Document, error) {
	filePath := filepath.Clean(path.Join(dr.root, "documents", documentID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewOpError("GetByID", documentID, persistence.ErrDocumentNotFound)
		}

		return nil, fmt.Errorf("failed to fetch document %s: %w", documentID, err)
	}

	var document models.Document

	err = json.Unmarshal(body, &document)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", documentID, err)
	}

	return &document, nil
}

// Save saves a document record to the file system.
func (dr *DocumentRepository) Save(_ context.Context, document *models.Document) error {
	err := os.MkdirAll(path.Join(dr.root, "documents"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create documents directory: %w", err)
	}

	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", document.ID, err)
	}

	filePath := path.Join(dr.root, "documents", document.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// Delete removes a document record by its ID.
func (dr *DocumentRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(dr.root, "documents", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}
