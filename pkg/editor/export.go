package editor

import (
	"strings"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/validation"
)

// Export builds the portable document of the graph. It is refused with the blocking issues of the
// graph when there are any. A blank name falls back to models.DefaultWorkflowName.
func Export(state State, name string) (*models.ExportDocument, models.Issues) {
	issues := validation.Validate(state.Nodes, state.Edges).Blocking()
	if len(issues) > 0 {
		return nil, issues
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultWorkflowName
	}

	return &models.ExportDocument{
		Name:  name,
		Nodes: models.CloneNodes(state.Nodes),
		Edges: models.CloneEdges(state.Edges),
	}, nil
}
