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

// ChatRepository handles chat-related file operations. A chat and its message
// transcript are stored together in a single JSON file.
type ChatRepository struct {
	root string
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(root string) *ChatRepository {
	return &ChatRepository{root: root}
}

type chatRecord struct {
	Chat     *models.Chat      `json:"chat"`
	Messages []*models.Message `json:"messages"`
}

// GetByID retrieves a chat by its ID from the file system.
func (cr *ChatRepository) GetByID(ctx context.Context, chatID string) (*models.Chat, error) {
	record, err := cr.load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return record.Chat, nil
}

// GetByWorkflow returns every chat attached to the workflow, newest first.
func (cr *ChatRepository) GetByWorkflow(ctx context.Context, workflowID string) ([]*models.Chat, error) {
	root := os.DirFS(path.Join(cr.root, "chats"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list chat files: %w", err)
	}

	chats := make([]*models.Chat, 0)

	for _, file := range jsonFiles {
		chatID := file[:len(file)-5]

		record, err := cr.load(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chat %s: %w", chatID, err)
		}

		if record.Chat.WorkflowID == workflowID {
			chats = append(chats, record.Chat)
		}
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})

	return chats, nil
}

// Save saves a chat to the file system, preserving any existing transcript.
func (cr *ChatRepository) Save(ctx context.Context, chat *models.Chat) error {
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}

	record, err := cr.load(ctx, chat.ID)
	if err != nil {
		if !persistence.IsChatNotFound(err) {
			return err
		}

		record = &chatRecord{Messages: make([]*models.Message, 0)}
	}

	record.Chat = chat

	return cr.store(record)
}

// Messages returns the chat's transcript in insertion order.
func (cr *ChatRepository) Messages(ctx context.Context, chatID string) ([]*models.Message, error) {
	record, err := cr.load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return record.Messages, nil
}

// SaveMessage appends a message to the chat's transcript.
func (cr *ChatRepository) SaveMessage(ctx context.Context, message *models.Message) error {
	record, err := cr.load(ctx, message.ChatID)
	if err != nil {
		return err
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	record.Messages = append(record.Messages, message)

	return cr.store(record)
}

func (cr *ChatRepository) load(_ context.Context, chatID string) (*chatRecord, error) {
	filePath := filepath.Clean(path.Join(cr.root, "chats", chatID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewOpError("GetByID", chatID, persistence.ErrChatNotFound)
		}

		return nil, fmt.Errorf("failed to fetch chat %s: %w", chatID, err)
	}

	var record chatRecord

	err = json.Unmarshal(body, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
	}

	return &record, nil
}

func (cr *ChatRepository) store(record *chatRecord) error {
	err := os.MkdirAll(path.Join(cr.root, "chats"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create chats directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chat %s: %w", record.Chat.ID, err)
	}

	filePath := path.Join(cr.root, "chats", record.Chat.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}
