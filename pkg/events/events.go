// Package events defines the lifecycle notifications published on the event
// bus for workflow runs and document ingestion.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the single bus topic all lifecycle events are published on.
const Topic = "workflow-builder.events"

const (
	EventMetadataKey     = "key"
	EventTypeMetadataKey = "event_type"
)

const (
	WorkflowExecutionStartedEvent   EventType = "workflow.execution.started"
	WorkflowExecutionCompletedEvent EventType = "workflow.execution.completed"
	WorkflowExecutionFailedEvent    EventType = "workflow.execution.failed"

	DocumentIngestedEvent EventType = "document.ingested"
	DocumentDeletedEvent  EventType = "document.deleted"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func newBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

type WorkflowExecutionStarted struct {
	BaseEvent

	WorkflowID  string `json:"workflow_id"`
	ExecutionID string `json:"execution_id"`
}

func NewWorkflowExecutionStarted(workflowID, executionID string) WorkflowExecutionStarted {
	return WorkflowExecutionStarted{
		BaseEvent:   newBaseEvent(WorkflowExecutionStartedEvent),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}
}

func (e WorkflowExecutionStarted) GetType() EventType { return WorkflowExecutionStartedEvent }
func (e WorkflowExecutionStarted) Key() string        { return e.WorkflowID }

type WorkflowExecutionCompleted struct {
	BaseEvent

	WorkflowID  string        `json:"workflow_id"`
	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
}

func NewWorkflowExecutionCompleted(workflowID, executionID string, duration time.Duration) WorkflowExecutionCompleted {
	return WorkflowExecutionCompleted{
		BaseEvent:   newBaseEvent(WorkflowExecutionCompletedEvent),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
		Duration:    duration,
	}
}

func (e WorkflowExecutionCompleted) GetType() EventType { return WorkflowExecutionCompletedEvent }
func (e WorkflowExecutionCompleted) Key() string        { return e.WorkflowID }

type WorkflowExecutionFailed struct {
	BaseEvent

	WorkflowID  string `json:"workflow_id"`
	ExecutionID string `json:"execution_id"`
	Error       string `json:"error"`
}

func NewWorkflowExecutionFailed(workflowID, executionID string, err error) WorkflowExecutionFailed {
	event := WorkflowExecutionFailed{
		BaseEvent:   newBaseEvent(WorkflowExecutionFailedEvent),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}

	if err != nil {
		event.Error = err.Error()
	}

	return event
}

func (e WorkflowExecutionFailed) GetType() EventType { return WorkflowExecutionFailedEvent }
func (e WorkflowExecutionFailed) Key() string        { return e.WorkflowID }

type DocumentIngested struct {
	BaseEvent

	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

func NewDocumentIngested(documentID string, chunks int) DocumentIngested {
	return DocumentIngested{
		BaseEvent:  newBaseEvent(DocumentIngestedEvent),
		DocumentID: documentID,
		Chunks:     chunks,
	}
}

func (e DocumentIngested) GetType() EventType { return DocumentIngestedEvent }
func (e DocumentIngested) Key() string        { return e.DocumentID }

type DocumentDeleted struct {
	BaseEvent

	DocumentID string `json:"document_id"`
}

func NewDocumentDeleted(documentID string) DocumentDeleted {
	return DocumentDeleted{
		BaseEvent:  newBaseEvent(DocumentDeletedEvent),
		DocumentID: documentID,
	}
}

func (e DocumentDeleted) GetType() EventType { return DocumentDeletedEvent }
func (e DocumentDeleted) Key() string        { return e.DocumentID }
