package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/embedding"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/llm"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence/file"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/vectorstore"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

func newChatService(t *testing.T) (*Chat, persistence.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	logger := slog.Default()
	pipeline := retrieval.NewPipeline(embedding.NewHashEmbedder(), vectorstore.NewMemoryStore(), logger)
	executor := workflow.NewNodeExecutor(llm.NewMockProvider(), pipeline, logger)
	orchestrator := workflow.NewOrchestrator(executor, nil, logger)

	return NewChat(p, orchestrator, logger), p
}

func seedWorkflow(t *testing.T, p persistence.Persistence) *models.Workflow {
	t.Helper()

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "assistant",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "out", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", Target: "out", Type: models.EdgeTypeDefault},
		},
	}

	require.NoError(t, p.WorkflowRepository().Save(context.Background(), wf))

	return wf
}

func collect(t *testing.T, tokens <-chan workflow.Token) string {
	t.Helper()

	var builder strings.Builder

	deadline := time.After(5 * time.Second)

	for {
		select {
		case token, open := <-tokens:
			if !open {
				return builder.String()
			}

			if !token.Done {
				builder.WriteString(token.Text)
			}
		case <-deadline:
			t.Fatal("timed out reading token stream")
		}
	}
}

func TestChatCreate(t *testing.T) {
	service, p := newChatService(t)
	ctx := context.Background()

	wf := seedWorkflow(t, p)

	chat, err := service.Create(ctx, wf.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, wf.ID, chat.WorkflowID)

	chats, err := service.List(ctx, wf.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestChatCreateUnknownWorkflow(t *testing.T) {
	service, _ := newChatService(t)

	_, err := service.Create(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestChatSendMessagePersistsTranscript(t *testing.T) {
	service, p := newChatService(t)
	ctx := context.Background()

	wf := seedWorkflow(t, p)

	chat, err := service.Create(ctx, wf.ID)
	require.NoError(t, err)

	tokens, err := service.SendMessage(ctx, chat.ID, "hello")
	require.NoError(t, err)

	response := collect(t, tokens)
	assert.Equal(t, "hello", response)

	messages, err := service.Messages(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.MessageRoleUser, messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, models.MessageRoleAssistant, messages[1].Role)
	assert.Equal(t, response, messages[1].Content)
}

func TestChatSendMessageEmptyContent(t *testing.T) {
	service, p := newChatService(t)
	ctx := context.Background()

	wf := seedWorkflow(t, p)

	chat, err := service.Create(ctx, wf.ID)
	require.NoError(t, err)

	_, err = service.SendMessage(ctx, chat.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatSendMessageUnknownChat(t *testing.T) {
	service, _ := newChatService(t)

	_, err := service.SendMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestChatMessagesUnknownChat(t *testing.T) {
	service, _ := newChatService(t)

	_, err := service.Messages(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrChatNotFound)
}
