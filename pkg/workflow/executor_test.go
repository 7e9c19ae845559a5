package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/embedding"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/vectorstore"
)

type scriptedProvider struct {
	tokens []string
	err    error
}

func (p *scriptedProvider) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	if p.err != nil {
		return nil, p.err
	}

	out := make(chan string)

	go func() {
		defer close(out)

		for _, token := range p.tokens {
			select {
			case <-ctx.Done():
				return
			case out <- token:
			}
		}
	}()

	return out, nil
}

func testExecutor(t *testing.T, provider *scriptedProvider) (*NodeExecutor, *retrieval.Pipeline) {
	t.Helper()

	pipeline := retrieval.NewPipeline(embedding.NewHashEmbedder(), vectorstore.NewMemoryStore(), slog.Default())

	return NewNodeExecutor(provider, pipeline, slog.Default()), pipeline
}

func TestExecuteQueryIntakePassesThrough(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "hello"}

	result := executor.Execute(context.Background(), &models.Node{ID: "1", Type: models.NodeTypeQueryIntake}, ec)

	assert.Equal(t, "hello", result.UserInput)
	assert.Empty(t, result.GeneratedText)
}

func TestExecuteRetrievalPopulatesContext(t *testing.T) {
	executor, pipeline := testExecutor(t, &scriptedProvider{})

	_, err := pipeline.Ingest(context.Background(), "doc-1", "workflows are directed graphs of nodes")
	require.NoError(t, err)

	node := &models.Node{
		ID:     "r",
		Type:   models.NodeTypeKnowledgeRetrieval,
		Config: map[string]any{"collection": retrieval.CollectionName("doc-1")},
	}
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "what is a workflow?"}

	result := executor.Execute(context.Background(), node, ec)

	require.NotEmpty(t, result.RetrievedItems)
	assert.Contains(t, result.RetrievedContext, "directed graphs")
}

func TestExecuteRetrievalDocumentIDScopesCollection(t *testing.T) {
	executor, pipeline := testExecutor(t, &scriptedProvider{})

	_, err := pipeline.Ingest(context.Background(), "doc-2", "the vacation policy grants twenty days")
	require.NoError(t, err)

	node := &models.Node{
		ID:     "r",
		Type:   models.NodeTypeKnowledgeRetrieval,
		Config: map[string]any{"document_id": "doc-2"},
	}
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "how many vacation days?"}

	result := executor.Execute(context.Background(), node, ec)

	require.NotEmpty(t, result.RetrievedItems)
	assert.Contains(t, result.RetrievedContext, "vacation policy")
}

func TestExecuteRetrievalSkipsEmptyInput(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1"}

	result := executor.Execute(context.Background(), &models.Node{ID: "r", Type: models.NodeTypeKnowledgeRetrieval}, ec)

	assert.Empty(t, result.RetrievedItems)
	assert.Empty(t, result.RetrievedContext)
}

func TestExecuteRetrievalUnknownCollectionDegrades(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "anything", Collection: "wf_missing"}

	result := executor.Execute(context.Background(), &models.Node{ID: "r", Type: models.NodeTypeKnowledgeRetrieval}, ec)

	assert.Empty(t, result.RetrievedItems)
	assert.Empty(t, result.RetrievedContext)
}

func TestExecuteGenerationAccumulatesTokens(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{tokens: []string{"hel", "lo"}})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "greet me"}

	result := executor.Execute(context.Background(), &models.Node{ID: "g", Type: models.NodeTypeGeneration}, ec)

	assert.Equal(t, "hello", result.GeneratedText)
}

func TestExecuteGenerationProviderErrorDegrades(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{err: errors.New("model unavailable")})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "greet me"}

	result := executor.Execute(context.Background(), &models.Node{ID: "g", Type: models.NodeTypeGeneration}, ec)

	assert.Equal(t, "Error generating response: model unavailable", result.GeneratedText)
}

func TestExecuteGenerationEmptyStreamDegrades(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "greet me"}

	result := executor.Execute(context.Background(), &models.Node{ID: "g", Type: models.NodeTypeGeneration}, ec)

	assert.Equal(t, "Error generating response: model returned no output", result.GeneratedText)
}

func TestExecuteOutputDefaultsToUserInput(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "hello"}

	result := executor.Execute(context.Background(), &models.Node{ID: "o", Type: models.NodeTypeOutput}, ec)

	assert.True(t, result.HasFinalOutput)
	assert.Equal(t, "hello", result.FinalOutput)
}

func TestExecuteOutputJSONFormat(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	node := &models.Node{ID: "o", Type: models.NodeTypeOutput, Config: map[string]any{"format": "json"}}

	ec := &models.ExecutionContext{ID: "exec-1", GeneratedText: "plain answer"}
	result := executor.Execute(context.Background(), node, ec)

	require.True(t, json.Valid([]byte(result.FinalOutput)))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(result.FinalOutput), &decoded))
	assert.Equal(t, "plain answer", decoded["response"])
}

func TestExecuteOutputJSONFormatKeepsValidJSON(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	node := &models.Node{ID: "o", Type: models.NodeTypeOutput, Config: map[string]any{"format": "json"}}

	ec := &models.ExecutionContext{ID: "exec-1", GeneratedText: `{"already":"json"}`}
	result := executor.Execute(context.Background(), node, ec)

	assert.Equal(t, `{"already":"json"}`, result.FinalOutput)
}

func TestExecuteOutputMarkdownFormat(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	node := &models.Node{ID: "o", Type: models.NodeTypeOutput, Config: map[string]any{"format": "markdown"}}

	ec := &models.ExecutionContext{ID: "exec-1", GeneratedText: "an answer"}
	result := executor.Execute(context.Background(), node, ec)

	assert.True(t, strings.HasPrefix(result.FinalOutput, "# Response\n\n"))

	ec = &models.ExecutionContext{ID: "exec-2", GeneratedText: "# Already titled"}
	result = executor.Execute(context.Background(), node, ec)

	assert.Equal(t, "# Already titled", result.FinalOutput)
}

func TestExecuteUnknownNodeTypePassesThrough(t *testing.T) {
	executor, _ := testExecutor(t, &scriptedProvider{})
	ec := &models.ExecutionContext{ID: "exec-1", UserInput: "hello"}

	result := executor.Execute(context.Background(), &models.Node{ID: "x", Type: models.NodeType("mystery")}, ec)

	assert.Equal(t, ec, result)
	assert.False(t, result.HasFinalOutput)
}
