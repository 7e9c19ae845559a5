package workflow

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
)

func pathIDs(nodes []*models.Node) []string {
	ids := make([]string, len(nodes))
	for i, node := range nodes {
		ids[i] = node.ID
	}

	return ids
}

func TestBuildPathLinearGraph(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "out", Type: models.NodeTypeOutput},
			{ID: "gen", Type: models.NodeTypeGeneration},
			{ID: "in", Type: models.NodeTypeQueryIntake},
		},
		Edges: []*models.Edge{
			{ID: "e2", Source: "gen", Target: "out"},
			{ID: "e1", Source: "in", Target: "gen"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Equal(t, []string{"in", "gen", "out"}, pathIDs(path))
}

func TestBuildPathTwoNodes(t *testing.T) {
	path := BuildPath(twoNodeWorkflow(), slog.Default())

	assert.Equal(t, []string{"1", "2"}, pathIDs(path))
}

func TestBuildPathStopsOnCycle(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "gen", Type: models.NodeTypeGeneration},
			{ID: "out", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", Target: "gen"},
			{ID: "e2", Source: "gen", Target: "in"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Equal(t, []string{"in", "gen"}, pathIDs(path))
}

func TestBuildPathSelfLoop(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "out", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", Target: "in"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Equal(t, []string{"in"}, pathIDs(path))
}

func TestBuildPathMultipleOutgoingEdges(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "a", Type: models.NodeTypeGeneration},
			{ID: "b", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e9", Source: "in", Target: "b"},
			{ID: "e1", Source: "in", Target: "a"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	// The lexicographically smallest edge ID wins.
	require.NotEmpty(t, path)
	assert.Equal(t, []string{"in", "a"}, pathIDs(path))
}

func TestBuildPathMissingEdgeTarget(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "out", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", Target: "ghost"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Equal(t, []string{"in"}, pathIDs(path))
}

func TestBuildPathNoEntryNodeFallsBack(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "c", Type: models.NodeTypeOutput},
			{ID: "a", Type: models.NodeTypeGeneration},
			{ID: "b", Type: models.NodeTypeKnowledgeRetrieval},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Equal(t, []string{"a", "b", "c"}, pathIDs(path))
}

func TestBuildPathBoundedByNodeCount(t *testing.T) {
	workflow := &models.Workflow{
		ID: "wf-1",
		Nodes: []*models.Node{
			{ID: "in", Type: models.NodeTypeQueryIntake},
			{ID: "out", Type: models.NodeTypeOutput},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", Target: "out"},
			{ID: "e2", Source: "out", Target: "in"},
		},
	}

	path := BuildPath(workflow, slog.Default())

	assert.Len(t, path, len(workflow.Nodes))
}
