package models

import "time"

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Chat is a conversation bound to one workflow definition.
type Chat struct {
	ID         string    `json:"id"`
	WorkflowID string    `json:"workflow_id" validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message is a single transcript entry within a chat.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chat_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
