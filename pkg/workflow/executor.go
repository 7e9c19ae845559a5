package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/llm"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
)

// DefaultNodeTimeout bounds every external call a node makes. A hung model or
// index backend degrades the node instead of blocking the run forever.
const DefaultNodeTimeout = 60 * time.Second

// NodeExecutor runs a single node against the execution context. Execute
// never fails the run: any dependency failure is absorbed into a degraded
// context value so downstream nodes still receive a well-typed context.
type NodeExecutor struct {
	provider    llm.Provider
	pipeline    *retrieval.Pipeline
	logger      *slog.Logger
	nodeTimeout time.Duration
}

func NewNodeExecutor(provider llm.Provider, pipeline *retrieval.Pipeline, logger *slog.Logger) *NodeExecutor {
	return &NodeExecutor{
		provider:    provider,
		pipeline:    pipeline,
		logger:      logger.With("module", "node_executor"),
		nodeTimeout: DefaultNodeTimeout,
	}
}

// WithNodeTimeout overrides the per-node external call timeout.
func (e *NodeExecutor) WithNodeTimeout(timeout time.Duration) *NodeExecutor {
	if timeout > 0 {
		e.nodeTimeout = timeout
	}

	return e
}

// Execute performs the node's side effect and returns the updated context.
func (e *NodeExecutor) Execute(ctx context.Context, node *models.Node, ec *models.ExecutionContext) *models.ExecutionContext {
	logger := e.logger.With("execution_id", ec.ID, "node_id", node.ID, "node_type", node.Type)
	logger.InfoContext(ctx, "Executing node")

	switch node.Type {
	case models.NodeTypeQueryIntake:
		// Pass-through, the user input is already in the context.
		return ec
	case models.NodeTypeKnowledgeRetrieval:
		return e.executeRetrieval(ctx, logger, node, ec)
	case models.NodeTypeGeneration:
		return e.executeGeneration(ctx, logger, node, ec)
	case models.NodeTypeOutput:
		return e.executeOutput(ctx, logger, node, ec)
	default:
		logger.WarnContext(ctx, "Unknown node type, passing context through unchanged")

		return ec
	}
}

func (e *NodeExecutor) executeRetrieval(ctx context.Context, logger *slog.Logger, node *models.Node, ec *models.ExecutionContext) *models.ExecutionContext {
	if ec.UserInput == "" {
		return ec
	}

	collection := node.Collection()
	if collection == "" && node.DocumentID() != "" {
		collection = retrieval.CollectionName(node.DocumentID())
	}

	if collection == "" {
		collection = ec.Collection
	}

	callCtx, cancel := context.WithTimeout(ctx, e.nodeTimeout)
	defer cancel()

	results := e.pipeline.Search(callCtx, collection, ec.UserInput, node.TopK())

	contents := make([]string, len(results))
	for i, result := range results {
		contents[i] = result.Content
	}

	ec.RetrievedItems = results
	ec.RetrievedContext = strings.Join(contents, "\n\n")

	logger.InfoContext(ctx, "Retrieved knowledge", "collection", collection, "results", len(results))

	return ec
}

func (e *NodeExecutor) executeGeneration(ctx context.Context, logger *slog.Logger, node *models.Node, ec *models.ExecutionContext) *models.ExecutionContext {
	prompt := BuildPrompt(ec.UserInput, ec.RetrievedContext, node.CustomPrompt())

	callCtx, cancel := context.WithTimeout(ctx, e.nodeTimeout)
	defer cancel()

	stream, err := e.provider.Stream(callCtx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "Generation failed", "error", err)
		ec.GeneratedText = "Error generating response: " + err.Error()

		return ec
	}

	var builder strings.Builder

accumulate:
	for {
		select {
		case <-callCtx.Done():
			logger.ErrorContext(ctx, "Generation timed out", "timeout", e.nodeTimeout)

			break accumulate
		case token, open := <-stream:
			if !open {
				break accumulate
			}

			builder.WriteString(token)
		}
	}

	ec.GeneratedText = builder.String()
	if ec.GeneratedText == "" {
		ec.GeneratedText = "Error generating response: model returned no output"
	}

	return ec
}

func (e *NodeExecutor) executeOutput(ctx context.Context, logger *slog.Logger, node *models.Node, ec *models.ExecutionContext) *models.ExecutionContext {
	response := ec.GeneratedText
	if response == "" {
		response = ec.UserInput
	}

	switch node.OutputFormat() {
	case models.OutputFormatJSON:
		if !json.Valid([]byte(response)) {
			encoded, err := json.Marshal(map[string]string{"response": response})
			if err != nil {
				logger.WarnContext(ctx, "Output formatting failed", "error", err)
			} else {
				response = string(encoded)
			}
		}
	case models.OutputFormatMarkdown:
		if !strings.HasPrefix(response, "#") {
			response = "# Response\n\n" + response
		}
	case models.OutputFormatText:
		// No transformation.
	}

	ec.FinalOutput = response
	ec.HasFinalOutput = true

	return ec
}
