// Package persistence provides the data storage abstraction layer for
// workflows, documents and chats.
package persistence

import (
	"context"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
)

// Persistence aggregates the repositories a running service needs. Both the
// file-based and the PostgreSQL implementations satisfy it.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	DocumentRepository() DocumentRepository
	ChatRepository() ChatRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions. GetByID returns
// ErrWorkflowNotFound when no workflow exists for the identifier.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository stores uploaded document records. The document content
// itself lives on disk and in the vector index, not here.
type DocumentRepository interface {
	GetAll(ctx context.Context) ([]*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Save(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id string) error
}

// ChatRepository stores chat sessions and their message transcripts.
type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	GetByWorkflow(ctx context.Context, workflowID string) ([]*models.Chat, error)
	Save(ctx context.Context, chat *models.Chat) error
	Messages(ctx context.Context, chatID string) ([]*models.Message, error)
	SaveMessage(ctx context.Context, message *models.Message) error
}
