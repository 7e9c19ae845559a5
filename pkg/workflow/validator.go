// Package workflow implements the execution engine: structural validation,
// linear-path derivation, per-node execution and token streaming.
package workflow

import (
	"errors"
	"fmt"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
)

// Structural validation errors, one per failure reason, checked in order.
var (
	ErrNoNodes            = errors.New("workflow must have at least one node")
	ErrNoEntryNode        = errors.New("workflow must contain a query-intake node")
	ErrMultipleEntryNodes = errors.New("workflow must contain exactly one query-intake node")
	ErrNoOutputNode       = errors.New("workflow must contain an output node")
	ErrNoEdges            = errors.New("workflow with multiple nodes must have connecting edges")
	ErrDanglingEdge       = errors.New("edge references a non-existent node")
	ErrInvalidNodeConfig  = errors.New("invalid node configuration")
)

// Validate checks a workflow for structural soundness. It is a pure predicate
// with no side effects and must pass before any execution attempt.
func Validate(workflow *models.Workflow) error {
	if workflow == nil || len(workflow.Nodes) == 0 {
		return ErrNoNodes
	}

	entryNodes := workflow.NodesOfType(models.NodeTypeQueryIntake)
	if len(entryNodes) == 0 {
		return ErrNoEntryNode
	}

	if len(entryNodes) > 1 {
		return ErrMultipleEntryNodes
	}

	if len(workflow.NodesOfType(models.NodeTypeOutput)) == 0 {
		return ErrNoOutputNode
	}

	if len(workflow.Nodes) > 1 && len(workflow.Edges) == 0 {
		return ErrNoEdges
	}

	nodeIDs := make(map[string]struct{}, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		nodeIDs[node.ID] = struct{}{}
	}

	for _, edge := range workflow.Edges {
		if _, ok := nodeIDs[edge.Source]; !ok {
			return fmt.Errorf("%w: source %s", ErrDanglingEdge, edge.Source)
		}

		if _, ok := nodeIDs[edge.Target]; !ok {
			return fmt.Errorf("%w: target %s", ErrDanglingEdge, edge.Target)
		}
	}

	return nil
}

// IsValidationError reports whether err is one of the structural validation
// failures produced by Validate or ValidateConfigs.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoNodes) ||
		errors.Is(err, ErrNoEntryNode) ||
		errors.Is(err, ErrMultipleEntryNodes) ||
		errors.Is(err, ErrNoOutputNode) ||
		errors.Is(err, ErrNoEdges) ||
		errors.Is(err, ErrDanglingEdge) ||
		errors.Is(err, ErrInvalidNodeConfig)
}
