// Package editor implements the workflow editing state machine.
//
// A State is transformed by applying discrete actions with Machine.Apply. States are treated as
// immutable values: Apply never modifies the state it receives, nodes and edges are never changed
// in place, and slices are copied before they are extended. Problems are reported through
// State.Issues, never as errors.
package editor

import (
	"github.com/dukex/flowbuilder/pkg/models"
)

// State is the live editing state: the working graph, the selection, the staged deletion and the
// catalog of saved workflows.
type State struct {
	Nodes []*models.Node `json:"nodes"`
	Edges []*models.Edge `json:"edges"`
	// SelectedNode is a display snapshot of the selected node. It is refreshed by UpdateNodeConfig
	// but not by other edits; use Selection for the live node.
	SelectedNode *models.Node `json:"selected_node"`
	// PendingDeletion is the node waiting for delete confirmation.
	PendingDeletion   *models.Node       `json:"pending_deletion"`
	Workflows         []*models.Workflow `json:"workflows"`
	CurrentWorkflowID string             `json:"current_workflow_id,omitempty"`
	Issues            models.Issues      `json:"issues"`
}

// NewState returns the blank editing state.
func NewState() State {
	return State{
		Nodes:     []*models.Node{},
		Edges:     []*models.Edge{},
		Workflows: []*models.Workflow{},
		Issues:    models.Issues{},
	}
}

// SelectedNodeID returns the id of the selected node, or "" when nothing is selected.
func (s State) SelectedNodeID() string {
	if s.SelectedNode == nil {
		return ""
	}

	return s.SelectedNode.ID
}

// Selection looks the selected node up in the live node list. It returns nil when nothing is
// selected or the node no longer exists.
func (s State) Selection() *models.Node {
	id := s.SelectedNodeID()
	if id == "" {
		return nil
	}

	return models.FindNode(s.Nodes, id)
}

// CurrentWorkflow returns the catalog entry being edited, or nil.
func (s State) CurrentWorkflow() *models.Workflow {
	if s.CurrentWorkflowID == "" {
		return nil
	}

	return models.FindWorkflow(s.Workflows, s.CurrentWorkflowID)
}

// HasStartTrigger reports whether the graph already contains a start node.
func (s State) HasStartTrigger() bool {
	for _, node := range s.Nodes {
		if node.IsStartTrigger() {
			return true
		}
	}

	return false
}

func (s State) hasNode(id string) bool {
	return models.FindNode(s.Nodes, id) != nil
}

// dropDanglingReferences clears the selection and the pending deletion when their node is gone.
func (s State) dropDanglingReferences() State {
	if s.SelectedNode != nil && !s.hasNode(s.SelectedNode.ID) {
		s.SelectedNode = nil
	}

	if s.PendingDeletion != nil && !s.hasNode(s.PendingDeletion.ID) {
		s.PendingDeletion = nil
	}

	return s
}
