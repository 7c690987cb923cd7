package models

import "time"

// DefaultWorkflowName is used for exports of a graph that was never named.
const DefaultWorkflowName = "Untitled Workflow"

// Workflow is a saved sequence: a named snapshot of nodes and edges.
type Workflow struct {
	ID        string    `json:"id"         validate:"required"`
	Name      string    `json:"name"       validate:"required"`
	Nodes     []*Node   `json:"nodes"`
	Edges     []*Edge   `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	clone := *w
	clone.Nodes = CloneNodes(w.Nodes)
	clone.Edges = CloneEdges(w.Edges)

	return &clone
}

// FindWorkflow returns the workflow with the given id, or nil.
func FindWorkflow(workflows []*Workflow, id string) *Workflow {
	for _, workflow := range workflows {
		if workflow != nil && workflow.ID == id {
			return workflow
		}
	}

	return nil
}

// ExportDocument is the canonical serializable form of a graph.
type ExportDocument struct {
	Name  string  `json:"name"  validate:"required"`
	Nodes []*Node `json:"nodes" validate:"required,dive"`
	Edges []*Edge `json:"edges" validate:"dive"`
}
