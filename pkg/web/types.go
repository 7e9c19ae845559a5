// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"

// NodeRequest is one node of a workflow graph as drawn by the client.
type NodeRequest struct {
	ID        string         `json:"id"         validate:"required"`
	Type      string         `json:"type"       validate:"required,oneof=query-intake knowledge-retrieval generation output"`
	Config    map[string]any `json:"config"`
	PositionX float64        `json:"position_x"`
	PositionY float64        `json:"position_y"`
}

// EdgeRequest is one directed edge of a workflow graph.
type EdgeRequest struct {
	ID     string `json:"id"     validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Type   string `json:"type"`
}

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name  string        `json:"name"  validate:"required,min=1"`
	Nodes []NodeRequest `json:"nodes" validate:"dive"`
	Edges []EdgeRequest `json:"edges" validate:"dive"`
}

// UpdateWorkflowRequest represents the request body for replacing a workflow's
// definition. An empty name keeps the stored one.
type UpdateWorkflowRequest struct {
	Name  string        `json:"name,omitempty"`
	Nodes []NodeRequest `json:"nodes" validate:"dive"`
	Edges []EdgeRequest `json:"edges" validate:"dive"`
}

// SendMessageRequest represents the request body for sending a chat message.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// BuildResponse reports the outcome of a workflow build check.
type BuildResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func toWorkflow(name string, nodes []NodeRequest, edges []EdgeRequest) *models.Workflow {
	workflow := &models.Workflow{
		Name:  name,
		Nodes: make([]*models.Node, len(nodes)),
		Edges: make([]*models.Edge, len(edges)),
	}

	for i, node := range nodes {
		workflow.Nodes[i] = &models.Node{
			ID:        node.ID,
			Type:      models.NodeType(node.Type),
			Config:    node.Config,
			PositionX: node.PositionX,
			PositionY: node.PositionY,
		}
	}

	for i, edge := range edges {
		edgeType := models.EdgeType(edge.Type)
		if edge.Type == "" {
			edgeType = models.EdgeTypeDefault
		}

		workflow.Edges[i] = &models.Edge{
			ID:     edge.ID,
			Source: edge.Source,
			Target: edge.Target,
			Type:   edgeType,
		}
	}

	return workflow
}
