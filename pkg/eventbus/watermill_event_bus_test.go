package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/channels/gochannel"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
)

func newTestBus(t *testing.T) *WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBusDeliversToHandler(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	received := make(chan any, 1)

	bus.Handle(events.DocumentIngestedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	})

	require.NoError(t, bus.Subscribe(ctx))
	require.NoError(t, bus.Publish(ctx, "doc-1", events.NewDocumentIngested("doc-1", 3)))

	select {
	case event := <-received:
		ingested, ok := event.(*events.DocumentIngested)
		require.True(t, ok)
		assert.Equal(t, "doc-1", ingested.DocumentID)
		assert.Equal(t, 3, ingested.Chunks)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBusSkipsUnhandledEventTypes(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	received := make(chan any, 1)

	bus.Handle(events.WorkflowExecutionStartedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	})

	require.NoError(t, bus.Subscribe(ctx))

	// No handler is registered for document deletions; the message is acked
	// and skipped, and the next event still reaches its handler.
	require.NoError(t, bus.Publish(ctx, "doc-1", events.NewDocumentDeleted("doc-1")))
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NewWorkflowExecutionStarted("wf-1", "exec-1")))

	select {
	case event := <-received:
		started, ok := event.(*events.WorkflowExecutionStarted)
		require.True(t, ok)
		assert.Equal(t, "wf-1", started.WorkflowID)
		assert.Equal(t, "exec-1", started.ExecutionID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBusDecodesAllLifecycleEvents(t *testing.T) {
	tests := []struct {
		name      string
		eventType events.EventType
		event     Event
	}{
		{
			name:      "execution started",
			eventType: events.WorkflowExecutionStartedEvent,
			event:     events.NewWorkflowExecutionStarted("wf-1", "exec-1"),
		},
		{
			name:      "execution completed",
			eventType: events.WorkflowExecutionCompletedEvent,
			event:     events.NewWorkflowExecutionCompleted("wf-1", "exec-1", time.Second),
		},
		{
			name:      "execution failed",
			eventType: events.WorkflowExecutionFailedEvent,
			event:     events.NewWorkflowExecutionFailed("wf-1", "exec-1", context.DeadlineExceeded),
		},
		{
			name:      "document ingested",
			eventType: events.DocumentIngestedEvent,
			event:     events.NewDocumentIngested("doc-1", 2),
		},
		{
			name:      "document deleted",
			eventType: events.DocumentDeletedEvent,
			event:     events.NewDocumentDeleted("doc-1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newTestBus(t)
			ctx := context.Background()

			received := make(chan any, 1)

			bus.Handle(tt.eventType, func(_ context.Context, event any) error {
				received <- event

				return nil
			})

			require.NoError(t, bus.Subscribe(ctx))
			require.NoError(t, bus.Publish(ctx, tt.event.Key(), tt.event))

			select {
			case event := <-received:
				require.NotNil(t, event)
			case <-time.After(5 * time.Second):
				t.Fatal("timed out waiting for event delivery")
			}
		})
	}
}
