package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/eventbus"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/otelhelper"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
)

// Token is one element of the streamed run output. The final token of every
// stream has Done set, regardless of success or failure; callers use it to
// know when to persist the accumulated output.
type Token struct {
	Text string `json:"text,omitempty"`
	Done bool   `json:"done,omitempty"`
}

// Orchestrator drives a workflow run end to end: path construction, node
// execution and token streaming. Validation is the caller's responsibility
// and is deliberately not repeated here.
type Orchestrator struct {
	executor *NodeExecutor
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewOrchestrator(executor *NodeExecutor, eventBus eventbus.EventBus, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		executor: executor,
		eventBus: eventBus,
		logger:   logger.With("module", "workflow_orchestrator"),
	}
}

// Run executes the workflow against the user message and returns a lazy token
// stream. Production is cooperative: it suspends between tokens until the
// caller drains them. The stream always terminates with a Done token.
func (o *Orchestrator) Run(ctx context.Context, workflow *models.Workflow, userMessage string) <-chan Token {
	out := make(chan Token)

	go func() {
		defer close(out)

		executionID := uuid.NewString()
		logger := o.logger.With("workflow_id", workflow.ID, "execution_id", executionID)
		startedAt := time.Now().UTC()

		tracer := otel.Tracer("workflow-engine")
		ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.run",
			attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
			attribute.String(otelhelper.ExecutionIDKey, executionID),
		)
		defer span.End()

		o.publish(ctx, events.NewWorkflowExecutionStarted(workflow.ID, executionID))

		response, err := o.executePath(ctx, logger, workflow, executionID, userMessage)
		if err != nil {
			logger.ErrorContext(ctx, "Error executing workflow", "error", err)
			otelhelper.SetError(span, err)
			o.publish(ctx, events.NewWorkflowExecutionFailed(workflow.ID, executionID, err))

			o.emit(ctx, out, Token{Text: "Error executing workflow: " + err.Error()})
			o.emit(ctx, out, Token{Done: true})

			return
		}

		for _, r := range response {
			if !o.emit(ctx, out, Token{Text: string(r)}) {
				return
			}
		}

		o.publish(ctx, events.NewWorkflowExecutionCompleted(workflow.ID, executionID, time.Since(startedAt)))
		o.emit(ctx, out, Token{Done: true})
	}()

	return out
}

// executePath runs every node in path order, each node's completion gating
// the next. A panic inside a node is converted into an error so the stream
// can terminate cleanly.
func (o *Orchestrator) executePath(ctx context.Context, logger *slog.Logger, workflow *models.Workflow, executionID, userMessage string) (response string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("workflow execution panicked: %v", recovered)
		}
	}()

	path := BuildPath(workflow, logger)
	logger.InfoContext(ctx, "Built execution path", "nodes", len(path))

	ec := &models.ExecutionContext{
		ID:         executionID,
		WorkflowID: workflow.ID,
		Collection: retrieval.WorkflowCollectionName(workflow.ID),
		UserInput:  userMessage,
	}

	tracer := otel.Tracer("workflow-engine")

	for _, node := range path {
		nodeCtx, nodeSpan := otelhelper.StartSpan(ctx, tracer, "workflow.node",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
		)

		ec = o.executor.Execute(nodeCtx, node, ec)

		nodeSpan.End()
	}

	logger.InfoContext(ctx, "Completed execution path")

	return ec.ResponseText(), nil
}

func (o *Orchestrator) emit(ctx context.Context, out chan<- Token, token Token) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- token:
		return true
	}
}

func (o *Orchestrator) publish(ctx context.Context, event eventbus.Event) {
	if o.eventBus == nil {
		return
	}

	if err := o.eventBus.Publish(ctx, event.Key(), event); err != nil {
		o.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
