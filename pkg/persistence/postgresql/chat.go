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

// ChatRepository handles chat and message database operations.
type ChatRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *sql.DB, logger *slog.Logger) *ChatRepository {
	return &ChatRepository{db: db, logger: logger}
}

// GetByID returns a chat by its ID.
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	chat := &models.Chat{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, workflow_id, created_at
		FROM chats
		WHERE id = $1
	`, id).Scan(&chat.ID, &chat.WorkflowID, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewOpError("GetByID", id, persistence.ErrChatNotFound)
		}

		return nil, fmt.Errorf("failed to scan chat: %w", err)
	}

	return chat, nil
}

// GetByWorkflow returns every chat attached to the workflow, newest first.
func (r *ChatRepository) GetByWorkflow(ctx context.Context, workflowID string) ([]*models.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, workflow_id, created_at
		FROM chats
		WHERE workflow_id = $1
		ORDER BY created_at DESC
	`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	chats := make([]*models.Chat, 0)

	for rows.Next() {
		chat := &models.Chat{}

		err := rows.Scan(&chat.ID, &chat.WorkflowID, &chat.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}

		chats = append(chats, chat)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating chats: %w", err)
	}

	return chats, nil
}

// Save upserts a chat.
func (r *ChatRepository) Save(ctx context.Context, chat *models.Chat) error {
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chats (id, workflow_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET workflow_id = EXCLUDED.workflow_id
	`, chat.ID, chat.WorkflowID, chat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat %s: %w", chat.ID, err)
	}

	return nil
}

// Messages returns the chat's transcript in insertion order.
func (r *ChatRepository) Messages(ctx context.Context, chatID string) ([]*models.Message, error) {
	// Verify the chat exists so a missing chat and an empty transcript are
	// distinguishable.
	_, err := r.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at, id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	messages := make([]*models.Message, 0)

	for rows.Next() {
		message := &models.Message{}

		err := rows.Scan(&message.ID, &message.ChatID, &message.Role, &message.Content, &message.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		messages = append(messages, message)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// SaveMessage appends a message to the chat's transcript.
func (r *ChatRepository) SaveMessage(ctx context.Context, message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, message.ID, message.ChatID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save message %s: %w", message.ID, err)
	}

	return nil
}
