package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/eventbus"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
)

// auditSubscriber is the bus's in-process consumer: it records every lifecycle
// event published during workflow runs and document ingestion to the log, so
// degraded runs are visible to operators even though the API never fails them.
type auditSubscriber struct {
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func newAuditSubscriber(eventBus eventbus.EventBus, logger *slog.Logger) *auditSubscriber {
	return &auditSubscriber{
		eventBus: eventBus,
		logger:   logger.With("module", "audit"),
	}
}

// Start registers the lifecycle handlers and begins consuming the bus.
func (s *auditSubscriber) Start(ctx context.Context) error {
	s.eventBus.Handle(events.WorkflowExecutionStartedEvent, s.handleExecutionStarted)
	s.eventBus.Handle(events.WorkflowExecutionCompletedEvent, s.handleExecutionCompleted)
	s.eventBus.Handle(events.WorkflowExecutionFailedEvent, s.handleExecutionFailed)
	s.eventBus.Handle(events.DocumentIngestedEvent, s.handleDocumentIngested)
	s.eventBus.Handle(events.DocumentDeletedEvent, s.handleDocumentDeleted)

	return s.eventBus.Subscribe(ctx)
}

func (s *auditSubscriber) handleExecutionStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.WorkflowExecutionStarted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.logger.InfoContext(ctx, "Workflow execution started",
		"workflow_id", started.WorkflowID, "execution_id", started.ExecutionID)

	return nil
}

func (s *auditSubscriber) handleExecutionCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.WorkflowExecutionCompleted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.logger.InfoContext(ctx, "Workflow execution completed",
		"workflow_id", completed.WorkflowID, "execution_id", completed.ExecutionID,
		"duration", completed.Duration)

	return nil
}

func (s *auditSubscriber) handleExecutionFailed(ctx context.Context, event any) error {
	failed, ok := event.(*events.WorkflowExecutionFailed)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.logger.WarnContext(ctx, "Workflow execution failed",
		"workflow_id", failed.WorkflowID, "execution_id", failed.ExecutionID,
		"error", failed.Error)

	return nil
}

func (s *auditSubscriber) handleDocumentIngested(ctx context.Context, event any) error {
	ingested, ok := event.(*events.DocumentIngested)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.logger.InfoContext(ctx, "Document ingested",
		"document_id", ingested.DocumentID, "chunks", ingested.Chunks)

	return nil
}

func (s *auditSubscriber) handleDocumentDeleted(ctx context.Context, event any) error {
	deleted, ok := event.(*events.DocumentDeleted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	s.logger.InfoContext(ctx, "Document deleted", "document_id", deleted.DocumentID)

	return nil
}
