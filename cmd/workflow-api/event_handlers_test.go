package main

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/channels/gochannel"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/eventbus"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
)

func TestAuditSubscriberConsumesLifecycleEvents(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	ctx := context.Background()
	require.NoError(t, newAuditSubscriber(bus, slog.Default()).Start(ctx))

	// The test channel blocks each publish until the subscriber acks, so a
	// returning publish proves the handler consumed the event.
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NewWorkflowExecutionStarted("wf-1", "exec-1")))
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NewWorkflowExecutionCompleted("wf-1", "exec-1", time.Second)))
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NewWorkflowExecutionFailed("wf-1", "exec-1", errors.New("node timeout"))))
	require.NoError(t, bus.Publish(ctx, "doc-1", events.NewDocumentIngested("doc-1", 4)))
	require.NoError(t, bus.Publish(ctx, "doc-1", events.NewDocumentDeleted("doc-1")))
}
