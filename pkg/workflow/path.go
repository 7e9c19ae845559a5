package workflow

import (
	"log/slog"
	"sort"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
)

// BuildPath reduces a workflow graph into the ordered node sequence to
// execute. Traversal starts at the query-intake node and follows outgoing
// edges until a node has no successor, the successor was already visited
// (cycle), or the path reaches the total node count.
//
// When a node has multiple outgoing edges, the edge with the
// lexicographically smallest ID is followed. When no query-intake node exists
// the nodes are returned sorted by ID; callers are expected to have rejected
// that graph through Validate already.
func BuildPath(workflow *models.Workflow, logger *slog.Logger) []*models.Node {
	edgesBySource := make(map[string][]*models.Edge, len(workflow.Edges))
	for _, edge := range workflow.Edges {
		edgesBySource[edge.Source] = append(edgesBySource[edge.Source], edge)
	}

	for _, edges := range edgesBySource {
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].ID < edges[j].ID
		})
	}

	entryNodes := workflow.NodesOfType(models.NodeTypeQueryIntake)
	if len(entryNodes) == 0 {
		logger.Warn("No query-intake node found, falling back to stable node order",
			"workflow_id", workflow.ID)

		return nodesSortedByID(workflow.Nodes)
	}

	current := entryNodes[0]
	path := []*models.Node{current}
	visited := map[string]struct{}{current.ID: {}}

	for len(path) < len(workflow.Nodes) {
		edges, ok := edgesBySource[current.ID]
		if !ok || len(edges) == 0 {
			break
		}

		next := edges[0]

		if _, seen := visited[next.Target]; seen {
			logger.Warn("Cycle detected, stopping path construction",
				"workflow_id", workflow.ID, "node_id", next.Target)

			break
		}

		target, found := workflow.NodeByID(next.Target)
		if !found {
			logger.Warn("Edge references a non-existent node, stopping path construction",
				"workflow_id", workflow.ID, "node_id", next.Target)

			break
		}

		current = target
		path = append(path, current)
		visited[current.ID] = struct{}{}
	}

	return path
}

func nodesSortedByID(nodes []*models.Node) []*models.Node {
	sorted := make([]*models.Node, len(nodes))
	copy(sorted, nodes)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}
