// Package web provides HTTP request and response types for the builder API.
package web

import (
	"encoding/json"
	"time"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/models"
)

// CreateNodeRequest represents the request body for adding a node to the graph.
type CreateNodeRequest struct {
	Kind     string          `json:"kind"     validate:"required,oneof=startTrigger condition sendMessage followUser waitTimer"`
	Label    string          `json:"label"    validate:"omitempty,max=120"`
	Position models.Position `json:"position"`
	Config   json.RawMessage `json:"config"`
}

// MoveNodeRequest represents the request body for repositioning a node.
type MoveNodeRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// ReplaceNodesRequest represents the request body for syncing the whole node list from the canvas.
type ReplaceNodesRequest struct {
	Nodes []*models.Node `json:"nodes" validate:"required"`
}

// ReplaceEdgesRequest represents the request body for syncing the whole edge list from the canvas.
type ReplaceEdgesRequest struct {
	Edges []*models.Edge `json:"edges" validate:"required,dive"`
}

// ConnectRequest represents the request body for proposing an edge.
type ConnectRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// SelectRequest represents the request body for selecting a node. An empty id clears the selection.
type SelectRequest struct {
	NodeID string `json:"node_id"`
}

// SaveRequest represents the request body for saving the graph to the catalog.
type SaveRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// StateResponse is the editing state as returned by every editor endpoint.
type StateResponse struct {
	Nodes             []*models.Node    `json:"nodes"`
	Edges             []*models.Edge    `json:"edges"`
	SelectedNode      *models.Node      `json:"selected_node"`
	PendingDeletion   *models.Node      `json:"pending_deletion"`
	Workflows         []WorkflowSummary `json:"workflows"`
	CurrentWorkflowID string            `json:"current_workflow_id,omitempty"`
	Issues            models.Issues     `json:"issues"`
}

// WorkflowSummary is a catalog entry without its graph.
type WorkflowSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodeResponse wraps a node together with the state it produced.
type NodeResponse struct {
	Node  *models.Node  `json:"node"`
	State StateResponse `json:"state"`
}

// EdgeResponse wraps an edge together with the state it produced.
type EdgeResponse struct {
	Edge  *models.Edge  `json:"edge"`
	State StateResponse `json:"state"`
}

// SaveResponse wraps the saved workflow together with the state it produced.
type SaveResponse struct {
	Workflow *models.Workflow `json:"workflow"`
	State    StateResponse    `json:"state"`
}

// TransformState transforms an editing state into its API representation.
func TransformState(state editor.State) StateResponse {
	issues := state.Issues
	if issues == nil {
		issues = models.Issues{}
	}

	response := StateResponse{
		Nodes:             state.Nodes,
		Edges:             state.Edges,
		SelectedNode:      state.SelectedNode,
		PendingDeletion:   state.PendingDeletion,
		Workflows:         make([]WorkflowSummary, 0, len(state.Workflows)),
		CurrentWorkflowID: state.CurrentWorkflowID,
		Issues:            issues,
	}

	if response.Nodes == nil {
		response.Nodes = []*models.Node{}
	}

	if response.Edges == nil {
		response.Edges = []*models.Edge{}
	}

	for _, workflow := range state.Workflows {
		if workflow == nil {
			continue
		}

		response.Workflows = append(response.Workflows, TransformWorkflowSummary(workflow))
	}

	return response
}

// TransformWorkflowSummary drops the graph of a catalog entry.
func TransformWorkflowSummary(workflow *models.Workflow) WorkflowSummary {
	return WorkflowSummary{
		ID:        workflow.ID,
		Name:      workflow.Name,
		NodeCount: len(workflow.Nodes),
		EdgeCount: len(workflow.Edges),
		CreatedAt: workflow.CreatedAt,
		UpdatedAt: workflow.UpdatedAt,
	}
}
