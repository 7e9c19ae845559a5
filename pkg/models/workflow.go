// Package models defines the core domain models for node-based AI workflows.
package models

import "time"

// NodeType identifies the execution semantics of a workflow node.
type NodeType string

const (
	NodeTypeQueryIntake        NodeType = "query-intake"        // Entry point, passes the user message through
	NodeTypeKnowledgeRetrieval NodeType = "knowledge-retrieval" // Semantic search over ingested documents
	NodeTypeGeneration         NodeType = "generation"          // Generative model call
	NodeTypeOutput             NodeType = "output"              // Final response formatting
)

// EdgeType tags the semantics of a connection between two nodes.
// Only the sequential default is defined today.
type EdgeType string

const EdgeTypeDefault EdgeType = "default"

// OutputFormat is the target format of an output node.
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// Workflow represents a user-authored graph of typed processing nodes.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"       validate:"required,min=1"`
	Nodes     []*Node   `json:"nodes"`
	Edges     []*Edge   `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodeByID returns the node with the given identifier, if present.
func (w *Workflow) NodeByID(id string) (*Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// NodesOfType returns every node carrying the given type.
func (w *Workflow) NodesOfType(nodeType NodeType) []*Node {
	nodes := make([]*Node, 0)

	for _, node := range w.Nodes {
		if node.Type == nodeType {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

// Node is a single typed processing step inside a workflow. Position is
// canvas metadata only and carries no execution meaning.
type Node struct {
	ID        string         `json:"id"         validate:"required"`
	Type      NodeType       `json:"type"       validate:"required"`
	PositionX float64        `json:"position_x"`
	PositionY float64        `json:"position_y"`
	Config    map[string]any `json:"config"`
}

const defaultTopK = 5

// TopK returns the configured result limit for a knowledge-retrieval node.
func (n *Node) TopK() int {
	switch v := n.Config["top_k"].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}

	return defaultTopK
}

// Collection returns the configured vector collection override, empty when unset.
func (n *Node) Collection() string {
	collection, _ := n.Config["collection"].(string)

	return collection
}

// DocumentID returns the ingested document a retrieval node is pinned to,
// empty when the node searches the run's collection.
func (n *Node) DocumentID() string {
	documentID, _ := n.Config["document_id"].(string)

	return documentID
}

// CustomPrompt returns the configured prompt template for a generation node,
// empty when the default template should be used.
func (n *Node) CustomPrompt() string {
	prompt, _ := n.Config["custom_prompt"].(string)

	return prompt
}

// OutputFormat returns the configured target format for an output node.
func (n *Node) OutputFormat() OutputFormat {
	format, _ := n.Config["format"].(string)

	switch OutputFormat(format) {
	case OutputFormatJSON:
		return OutputFormatJSON
	case OutputFormatMarkdown:
		return OutputFormatMarkdown
	default:
		return OutputFormatText
	}
}

// Edge connects a source node to a target node.
type Edge struct {
	ID     string   `json:"id"     validate:"required"`
	Source string   `json:"source" validate:"required"`
	Target string   `json:"target" validate:"required"`
	Type   EdgeType `json:"type"`
}
