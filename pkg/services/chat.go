package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

// ErrChatNotFound is returned when a chat is not found.
var ErrChatNotFound = persistence.ErrChatNotFound

// Chat manages chat sessions against a workflow and their persisted
// transcripts.
type Chat struct {
	persistence  persistence.Persistence
	orchestrator *workflow.Orchestrator
	logger       *slog.Logger
}

// NewChat creates a new chat service.
func NewChat(persistence persistence.Persistence, orchestrator *workflow.Orchestrator, logger *slog.Logger) *Chat {
	return &Chat{
		persistence:  persistence,
		orchestrator: orchestrator,
		logger:       logger.With("module", "chat_service"),
	}
}

// Create opens a new chat session against the workflow.
func (c *Chat) Create(ctx context.Context, workflowID string) (*models.Chat, error) {
	_, err := c.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	chat := &models.Chat{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
	}

	err = c.persistence.ChatRepository().Save(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}

	return chat, nil
}

// List returns every chat attached to the workflow.
func (c *Chat) List(ctx context.Context, workflowID string) ([]*models.Chat, error) {
	chats, err := c.persistence.ChatRepository().GetByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	return chats, nil
}

// Messages returns the chat's persisted transcript.
func (c *Chat) Messages(ctx context.Context, chatID string) ([]*models.Message, error) {
	messages, err := c.persistence.ChatRepository().Messages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return messages, nil
}

// SendMessage persists the user message, runs the chat's workflow and returns
// the live token stream. The assistant transcript is persisted only after the
// stream's final token, so a consumer that reads to the end observes the same
// text in the transcript.
func (c *Chat) SendMessage(ctx context.Context, chatID, content string) (<-chan workflow.Token, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("SendMessage", "EMPTY_MESSAGE", "message content cannot be empty", ErrEmptyMessage)
	}

	chat, err := c.persistence.ChatRepository().GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	wf, err := c.persistence.WorkflowRepository().GetByID(ctx, chat.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	userMessage := &models.Message{
		ID:      uuid.NewString(),
		ChatID:  chat.ID,
		Role:    models.MessageRoleUser,
		Content: content,
	}

	err = c.persistence.ChatRepository().SaveMessage(ctx, userMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	tokens := c.orchestrator.Run(ctx, wf, content)
	out := make(chan workflow.Token)

	go func() {
		defer close(out)

		var transcript strings.Builder

		for token := range tokens {
			if token.Done {
				c.saveAssistantMessage(ctx, chat.ID, transcript.String())
			} else {
				transcript.WriteString(token.Text)
			}

			select {
			case <-ctx.Done():
				return
			case out <- token:
			}
		}
	}()

	return out, nil
}

func (c *Chat) saveAssistantMessage(ctx context.Context, chatID, content string) {
	message := &models.Message{
		ID:      uuid.NewString(),
		ChatID:  chatID,
		Role:    models.MessageRoleAssistant,
		Content: content,
	}

	err := c.persistence.ChatRepository().SaveMessage(ctx, message)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to save assistant message", "chat_id", chatID, "error", err)
	}
}
