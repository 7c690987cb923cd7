package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/otelhelper"
)

// CreateNodeRequest represents the request to add a node to the graph.
type CreateNodeRequest struct {
	Kind     models.NodeKind
	Label    string
	Position models.Position
	Config   json.RawMessage
}

// Node handles node and edge edits of the graph.
type Node struct {
	workspace *Workspace
}

// NewNode creates a new node service.
func NewNode(workspace *Workspace) *Node {
	return &Node{
		workspace: workspace,
	}
}

// CreateNode adds a node built from the kind template.
func (n *Node) CreateNode(ctx context.Context, req *CreateNodeRequest) (*models.Node, editor.State, error) {
	var node *models.Node

	_, after, err := n.workspace.apply(ctx, "create_node", func(editor.State) (editor.Action, error) {
		if !req.Kind.Valid() {
			return nil, NewValidationError("CreateNode", "UNKNOWN_NODE_KIND", fmt.Sprintf("unknown node kind '%s'", req.Kind), ErrUnknownNodeKind)
		}

		config, err := models.DecodeConfig(req.Kind, req.Config)
		if err != nil {
			return nil, NewValidationError("CreateNode", "INVALID_CONFIG", err.Error(), ErrInvalidRequest)
		}

		node = models.NewNode(req.Kind, req.Position)
		node.Config = config

		if req.Label != "" {
			node.Label = req.Label
		}

		return editor.AddNode{Node: node}, nil
	}, attribute.String(otelhelper.NodeKindKey, string(req.Kind)))
	if err != nil {
		return nil, after, err
	}

	created := models.FindNode(after.Nodes, node.ID)
	if created == nil {
		return nil, after, newRejectedError("CreateNode", after.Issues)
	}

	return created, after, nil
}

// GetNode returns a node of the graph.
func (n *Node) GetNode(_ context.Context, nodeID string) (*models.Node, error) {
	node := models.FindNode(n.workspace.State().Nodes, nodeID)
	if node == nil {
		return nil, ErrNodeNotFound
	}

	return node, nil
}

// UpdateNodeConfig replaces the config of a node. The raw config is decoded for the node kind.
func (n *Node) UpdateNodeConfig(ctx context.Context, nodeID string, raw json.RawMessage) (*models.Node, editor.State, error) {
	before, after, err := n.workspace.apply(ctx, "update_node_config", func(state editor.State) (editor.Action, error) {
		node := models.FindNode(state.Nodes, nodeID)
		if node == nil {
			return nil, ErrNodeNotFound
		}

		config, err := models.DecodeConfig(node.Kind, raw)
		if err != nil {
			return nil, NewValidationError("UpdateNodeConfig", "INVALID_CONFIG", err.Error(), ErrInvalidRequest)
		}

		return editor.UpdateNodeConfig{ID: nodeID, Config: config}, nil
	}, attribute.String(otelhelper.NodeIDKey, nodeID))
	if err != nil {
		return nil, after, err
	}

	// Nodes are replaced on every change, so an unchanged pointer means the edit was refused.
	updated := models.FindNode(after.Nodes, nodeID)
	if updated == nil || updated == models.FindNode(before.Nodes, nodeID) {
		return nil, after, newRejectedError("UpdateNodeConfig", after.Issues)
	}

	return updated, after, nil
}

// MoveNode changes the canvas position of a node.
func (n *Node) MoveNode(ctx context.Context, nodeID string, position models.Position) (*models.Node, editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "move_node", func(state editor.State) (editor.Action, error) {
		if models.FindNode(state.Nodes, nodeID) == nil {
			return nil, ErrNodeNotFound
		}

		return editor.MoveNode{ID: nodeID, Position: position}, nil
	}, attribute.String(otelhelper.NodeIDKey, nodeID))
	if err != nil {
		return nil, after, err
	}

	return models.FindNode(after.Nodes, nodeID), after, nil
}

// DeleteNode removes a node and its edges right away.
func (n *Node) DeleteNode(ctx context.Context, nodeID string) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "delete_node", func(state editor.State) (editor.Action, error) {
		if models.FindNode(state.Nodes, nodeID) == nil {
			return nil, ErrNodeNotFound
		}

		return editor.DeleteNode{ID: nodeID}, nil
	}, attribute.String(otelhelper.NodeIDKey, nodeID))

	return after, err
}

// RequestDeleteNode stages a node for deletion.
func (n *Node) RequestDeleteNode(ctx context.Context, nodeID string) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "request_delete_node", func(state editor.State) (editor.Action, error) {
		if models.FindNode(state.Nodes, nodeID) == nil {
			return nil, ErrNodeNotFound
		}

		return editor.RequestDeleteNode{ID: nodeID}, nil
	}, attribute.String(otelhelper.NodeIDKey, nodeID))

	return after, err
}

// ConfirmDeleteNode deletes the staged node.
func (n *Node) ConfirmDeleteNode(ctx context.Context) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "confirm_delete_node", func(state editor.State) (editor.Action, error) {
		if state.PendingDeletion == nil {
			return nil, ErrNoPendingDeletion
		}

		return editor.ConfirmDeleteNode{}, nil
	})

	return after, err
}

// CancelDeleteNode clears the staged deletion.
func (n *Node) CancelDeleteNode(ctx context.Context) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "cancel_delete_node", always(editor.CancelDeleteNode{}))

	return after, err
}

// SelectNode selects a node. An empty id clears the selection.
func (n *Node) SelectNode(ctx context.Context, nodeID string) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "select_node", func(state editor.State) (editor.Action, error) {
		if nodeID != "" && models.FindNode(state.Nodes, nodeID) == nil {
			return nil, ErrNodeNotFound
		}

		return editor.SelectNode{ID: nodeID}, nil
	}, attribute.String(otelhelper.NodeIDKey, nodeID))

	return after, err
}

// Connect proposes an edge. It is refused when the graph with the edge has blocking issues.
func (n *Node) Connect(ctx context.Context, source, target string) (*models.Edge, editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "connect", func(state editor.State) (editor.Action, error) {
		for _, id := range []string{source, target} {
			if models.FindNode(state.Nodes, id) == nil {
				return nil, &ServiceError{Op: "Connect", Code: "NODE_NOT_FOUND", Message: fmt.Sprintf("node '%s' not found", id), Err: ErrNodeNotFound}
			}
		}

		return editor.Connect{Source: source, Target: target}, nil
	})
	if err != nil {
		return nil, after, err
	}

	for _, edge := range after.Edges {
		if edge != nil && edge.Source == source && edge.Target == target {
			return edge, after, nil
		}
	}

	return nil, after, newRejectedError("Connect", after.Issues)
}

// Disconnect removes an edge.
func (n *Node) Disconnect(ctx context.Context, edgeID string) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "disconnect", func(state editor.State) (editor.Action, error) {
		for _, edge := range state.Edges {
			if edge != nil && edge.ID == edgeID {
				return editor.Disconnect{EdgeID: edgeID}, nil
			}
		}

		return nil, ErrEdgeNotFound
	})

	return after, err
}

// ReplaceNodes swaps the whole node list, as the canvas does after a bulk edit.
// Node ids must be present and unique.
func (n *Node) ReplaceNodes(ctx context.Context, nodes []*models.Node) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "replace_nodes", func(editor.State) (editor.Action, error) {
		seen := make(map[string]struct{}, len(nodes))

		for _, node := range nodes {
			if node == nil || node.ID == "" {
				return nil, NewValidationError("ReplaceNodes", "MISSING_NODE_ID", "every node needs an id", ErrInvalidRequest)
			}

			if _, dup := seen[node.ID]; dup {
				return nil, NewValidationError("ReplaceNodes", "DUPLICATE_NODE_ID", fmt.Sprintf("duplicate node id '%s'", node.ID), ErrInvalidRequest)
			}

			seen[node.ID] = struct{}{}
		}

		return editor.SetNodes{Nodes: nodes}, nil
	}, attribute.Int(otelhelper.NodeCountKey, len(nodes)))

	return after, err
}

// ReplaceEdges swaps the whole edge list. Every edge must join two nodes of the graph.
func (n *Node) ReplaceEdges(ctx context.Context, edges []*models.Edge) (editor.State, error) {
	_, after, err := n.workspace.apply(ctx, "replace_edges", func(state editor.State) (editor.Action, error) {
		seen := make(map[string]struct{}, len(edges))

		for _, edge := range edges {
			if edge == nil || edge.ID == "" {
				return nil, NewValidationError("ReplaceEdges", "MISSING_EDGE_ID", "every edge needs an id", ErrInvalidRequest)
			}

			if _, dup := seen[edge.ID]; dup {
				return nil, NewValidationError("ReplaceEdges", "DUPLICATE_EDGE_ID", fmt.Sprintf("duplicate edge id '%s'", edge.ID), ErrInvalidRequest)
			}

			seen[edge.ID] = struct{}{}

			for _, id := range []string{edge.Source, edge.Target} {
				if models.FindNode(state.Nodes, id) == nil {
					return nil, &ServiceError{Op: "ReplaceEdges", Code: "NODE_NOT_FOUND", Message: fmt.Sprintf("edge '%s' references unknown node '%s'", edge.ID, id), Err: ErrNodeNotFound}
				}
			}
		}

		return editor.SetEdges{Edges: edges}, nil
	}, attribute.Int(otelhelper.EdgeCountKey, len(edges)))

	return after, err
}
