package registry

import (
	"github.com/dukex/flowbuilder/pkg/models"
)

func objectSchema(properties map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

// RegisterDefaultNodes registers the built-in node kinds.
func (r *Registry) RegisterDefaultNodes() {
	conditionTypes := make([]any, 0, len(models.ConditionTypes))
	for _, t := range models.ConditionTypes {
		conditionTypes = append(conditionTypes, string(t))
	}

	defaults := []NodeType{
		{
			Kind:         models.NodeKindStartTrigger,
			Description:  "Entry point of the sequence",
			Unique:       true,
			ConfigSchema: objectSchema(map[string]any{}),
		},
		{
			Kind:        models.NodeKindCondition,
			Description: "Branch on a single comparison",
			ConfigSchema: objectSchema(map[string]any{
				"condition_type":  map[string]any{"type": "string", "enum": conditionTypes},
				"condition_value": map[string]any{"type": "string"},
			}),
		},
		{
			Kind:        models.NodeKindSendMessage,
			Description: "Send a direct message to a user",
			ConfigSchema: objectSchema(map[string]any{
				"username": map[string]any{"type": "string"},
				"message":  map[string]any{"type": "string"},
			}),
		},
		{
			Kind:         models.NodeKindFollowUser,
			Description:  "Follow the user who entered the sequence",
			ConfigSchema: objectSchema(map[string]any{}),
		},
		{
			Kind:        models.NodeKindWaitTimer,
			Description: "Pause before the next step",
			ConfigSchema: objectSchema(map[string]any{
				"hours":   map[string]any{"type": "integer", "minimum": 0},
				"minutes": map[string]any{"type": "integer", "minimum": 0, "maximum": 59},
			}),
		},
	}

	for _, nodeType := range defaults {
		// built-in kinds are always valid
		_ = r.RegisterNode(nodeType)
	}
}
