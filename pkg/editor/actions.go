package editor

import "github.com/dukex/flowbuilder/pkg/models"

// Action is a discrete edit applied to a State. Actions the machine does not know are no-ops.
type Action interface {
	ActionName() string
}

// AddNode appends a node. A second start trigger is rejected.
type AddNode struct {
	Node *models.Node
}

// UpdateNodeConfig replaces the config of a node.
type UpdateNodeConfig struct {
	ID     string
	Config models.NodeConfig
}

// MoveNode changes the canvas position of a node.
type MoveNode struct {
	ID       string
	Position models.Position
}

// DeleteNode removes a node and every edge touching it.
type DeleteNode struct {
	ID string
}

// RequestDeleteNode stages a node for deletion without changing the graph.
type RequestDeleteNode struct {
	ID string
}

// CancelDeleteNode clears the staged deletion.
type CancelDeleteNode struct{}

// ConfirmDeleteNode deletes the staged node.
type ConfirmDeleteNode struct{}

// Connect proposes an edge from Source to Target. The edge is only committed when the graph with
// the edge added has no blocking issue.
type Connect struct {
	Source string
	Target string
}

// Disconnect removes an edge.
type Disconnect struct {
	EdgeID string
}

// SelectNode selects a node by id. An empty id clears the selection.
type SelectNode struct {
	ID string
}

// SetNodes replaces the whole node list.
type SetNodes struct {
	Nodes []*models.Node
}

// SetEdges replaces the whole edge list.
type SetEdges struct {
	Edges []*models.Edge
}

// SetIssues replaces the issue list.
type SetIssues struct {
	Issues models.Issues
}

// ExpireNotices drops the warning-severity notices.
type ExpireNotices struct{}

// ValidateGraph runs the validator over the live graph and publishes the result as issues.
type ValidateGraph struct{}

// LoadWorkflow replaces the graph with a workflow snapshot and makes it the current workflow.
type LoadWorkflow struct {
	Workflow *models.Workflow
}

// OpenWorkflow loads a workflow of the catalog by id.
type OpenWorkflow struct {
	ID string
}

// ImportWorkflow replaces the graph with an export document. The result is not tied to any
// catalog entry until it is saved.
type ImportWorkflow struct {
	Document models.ExportDocument
}

// SaveWorkflow validates the graph and writes it to the catalog under Name.
type SaveWorkflow struct {
	Name string
}

// LoadAllWorkflows refreshes the catalog from persistence.
type LoadAllWorkflows struct{}

// DeleteWorkflow removes a workflow from the catalog.
type DeleteWorkflow struct {
	ID string
}

// ResetWorkflow returns to a blank graph. The catalog is kept.
type ResetWorkflow struct{}

func (AddNode) ActionName() string           { return "add_node" }
func (UpdateNodeConfig) ActionName() string  { return "update_node_config" }
func (MoveNode) ActionName() string          { return "move_node" }
func (DeleteNode) ActionName() string        { return "delete_node" }
func (RequestDeleteNode) ActionName() string { return "request_delete_node" }
func (CancelDeleteNode) ActionName() string  { return "cancel_delete_node" }
func (ConfirmDeleteNode) ActionName() string { return "confirm_delete_node" }
func (Connect) ActionName() string           { return "connect" }
func (Disconnect) ActionName() string        { return "disconnect" }
func (SelectNode) ActionName() string        { return "select_node" }
func (SetNodes) ActionName() string          { return "set_nodes" }
func (SetEdges) ActionName() string          { return "set_edges" }
func (SetIssues) ActionName() string         { return "set_issues" }
func (ExpireNotices) ActionName() string     { return "expire_notices" }
func (ValidateGraph) ActionName() string     { return "validate_graph" }
func (LoadWorkflow) ActionName() string      { return "load_workflow" }
func (OpenWorkflow) ActionName() string      { return "open_workflow" }
func (ImportWorkflow) ActionName() string    { return "import_workflow" }
func (SaveWorkflow) ActionName() string      { return "save_workflow" }
func (LoadAllWorkflows) ActionName() string  { return "load_all_workflows" }
func (DeleteWorkflow) ActionName() string    { return "delete_workflow" }
func (ResetWorkflow) ActionName() string     { return "reset_workflow" }
