package workflow

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/models"
)

// nodeConfigSchemas holds the JSON schema for each node type's configuration
// mapping. Node types without a schema accept any configuration.
var nodeConfigSchemas = map[models.NodeType]map[string]any{
	models.NodeTypeKnowledgeRetrieval: {
		"type": "object",
		"properties": map[string]any{
			"top_k": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 50,
			},
			"collection": map[string]any{
				"type": "string",
			},
			"document_id": map[string]any{
				"type": "string",
			},
		},
	},
	models.NodeTypeGeneration: {
		"type": "object",
		"properties": map[string]any{
			"custom_prompt": map[string]any{
				"type": "string",
			},
		},
	},
	models.NodeTypeOutput: {
		"type": "object",
		"properties": map[string]any{
			"format": map[string]any{
				"type": "string",
				"enum": []string{"text", "json", "markdown"},
			},
		},
	},
}

// ValidateConfigs checks every node's configuration against the schema for its
// type. It complements the structural checks in Validate and is part of the
// standalone build check.
func ValidateConfigs(workflow *models.Workflow) error {
	for _, node := range workflow.Nodes {
		schema, ok := nodeConfigSchemas[node.Type]
		if !ok {
			continue
		}

		config := node.Config
		if config == nil {
			config = map[string]any{}
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(schema),
			gojsonschema.NewGoLoader(config),
		)
		if err != nil {
			return fmt.Errorf("%w: node %s: %w", ErrInvalidNodeConfig, node.ID, err)
		}

		if !result.Valid() {
			details := make([]string, 0, len(result.Errors()))
			for _, resultError := range result.Errors() {
				details = append(details, resultError.String())
			}

			return fmt.Errorf("%w: node %s: %s", ErrInvalidNodeConfig, node.ID, strings.Join(details, "; "))
		}
	}

	return nil
}
