package editor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/validation"
)

const (
	MsgDuplicateStart = "Only one Start Trigger is allowed"
	MsgNameRequired   = "Workflow name is required"
	MsgSaved          = "Workflow saved successfully!"
)

// Machine applies actions to editing states. It holds no state of its own besides its
// collaborators, so one machine can serve any number of sessions.
type Machine struct {
	persistence persistence.Persistence
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the clock used for workflow timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithIDGenerator overrides the generator of workflow ids.
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) {
		m.newID = newID
	}
}

// NewMachine creates a machine persisting the catalog through the given gateway.
func NewMachine(gateway persistence.Persistence, logger *slog.Logger, opts ...Option) *Machine {
	machine := &Machine{
		persistence: gateway,
		logger:      logger.With("module", "editor"),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       newWorkflowID,
	}

	for _, opt := range opts {
		opt(machine)
	}

	return machine
}

func newWorkflowID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}

// Apply returns the state that results from applying action to state. The input state is never
// modified. Actions that do not apply, such as edits of unknown nodes, return the state unchanged.
func (m *Machine) Apply(ctx context.Context, state State, action Action) State {
	if action == nil {
		return state
	}

	m.logger.DebugContext(ctx, "Applying action", "action", action.ActionName())

	switch a := action.(type) {
	case AddNode:
		return m.addNode(state, a)
	case UpdateNodeConfig:
		return m.updateNodeConfig(state, a)
	case MoveNode:
		return m.moveNode(state, a)
	case DeleteNode:
		return deleteNode(state, a.ID)
	case RequestDeleteNode:
		node := models.FindNode(state.Nodes, a.ID)
		if node == nil {
			return state
		}

		state.PendingDeletion = node.Clone()

		return state
	case CancelDeleteNode:
		state.PendingDeletion = nil

		return state
	case ConfirmDeleteNode:
		if state.PendingDeletion == nil {
			return state
		}

		state = deleteNode(state, state.PendingDeletion.ID)
		state.PendingDeletion = nil

		return state
	case Connect:
		return m.connect(ctx, state, a)
	case Disconnect:
		return disconnect(state, a.EdgeID)
	case SelectNode:
		state.SelectedNode = models.FindNode(state.Nodes, a.ID).Clone()

		return state
	case SetNodes:
		return setNodes(state, a.Nodes)
	case SetEdges:
		state.Edges = models.CloneEdges(a.Edges)

		return state
	case SetIssues:
		state.Issues = slices.Clone(a.Issues)
		if state.Issues == nil {
			state.Issues = models.Issues{}
		}

		return state
	case ExpireNotices:
		state.Issues = state.Issues.WithoutWarnings()

		return state
	case ValidateGraph:
		state.Issues = validation.Validate(state.Nodes, state.Edges)

		return state
	case LoadWorkflow:
		return loadWorkflow(state, a.Workflow)
	case OpenWorkflow:
		workflow := models.FindWorkflow(state.Workflows, a.ID)
		if workflow == nil {
			state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Workflow %q not found", a.ID))}

			return state
		}

		return loadWorkflow(state, workflow)
	case ImportWorkflow:
		return importWorkflow(state, a.Document)
	case SaveWorkflow:
		return m.saveWorkflow(ctx, state, a)
	case LoadAllWorkflows:
		return m.loadAllWorkflows(ctx, state)
	case DeleteWorkflow:
		return m.deleteWorkflow(ctx, state, a.ID)
	case ResetWorkflow:
		workflows := state.Workflows

		state = NewState()
		if workflows != nil {
			state.Workflows = workflows
		}

		return state
	default:
		m.logger.DebugContext(ctx, "Ignoring unknown action", "action", action.ActionName())

		return state
	}
}

// setNodes replaces the node list. Nodes of unknown kind are left out and reported.
func setNodes(state State, nodes []*models.Node) State {
	kept := make([]*models.Node, 0, len(nodes))
	issues := models.Issues{}

	for _, node := range nodes {
		if node == nil {
			continue
		}

		if !node.Kind.Valid() {
			issues = append(issues, models.ErrorIssue(fmt.Sprintf("Unknown node type %q", node.Kind)))

			continue
		}

		kept = append(kept, node)
	}

	state.Nodes = models.CloneNodes(kept)
	if len(issues) > 0 {
		state.Issues = issues
	}

	return state.dropDanglingReferences()
}

func (m *Machine) addNode(state State, a AddNode) State {
	if a.Node == nil {
		return state
	}

	node := a.Node.Clone()

	if !node.Kind.Valid() {
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Unknown node type %q", node.Kind))}

		return state
	}

	if node.IsStartTrigger() && state.HasStartTrigger() {
		state.Issues = models.Issues{models.ErrorIssue(MsgDuplicateStart)}

		return state
	}

	if node.ID == "" {
		node.ID = models.NewNode(node.Kind, node.Position).ID
	}

	if state.hasNode(node.ID) {
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("A node with id %q already exists", node.ID))}

		return state
	}

	if node.Label == "" {
		node.Label = node.Kind.DefaultLabel()
	}

	if node.Config == nil {
		node.Config = models.DefaultConfig(node.Kind)
	} else if node.Config.Kind() != node.Kind {
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Configuration does not match the type of node %q", node.ID))}

		return state
	}

	state.Nodes = append(slices.Clip(state.Nodes), node)

	return state
}

func (m *Machine) updateNodeConfig(state State, a UpdateNodeConfig) State {
	index := slices.IndexFunc(state.Nodes, func(n *models.Node) bool { return n != nil && n.ID == a.ID })
	if index < 0 {
		return state
	}

	current := state.Nodes[index]

	config := a.Config
	if config == nil {
		config = models.DefaultConfig(current.Kind)
	}

	if config == nil {
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Unknown node type %q", current.Kind))}

		return state
	}

	config = models.ConfigValue(config)
	if config.Kind() != current.Kind {
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Configuration does not match the type of node %q", current.ID))}

		return state
	}

	updated := current.Clone()
	updated.Config = config

	state.Nodes = slices.Clone(state.Nodes)
	state.Nodes[index] = updated

	// Only the config of the snapshot is refreshed.
	if state.SelectedNode != nil && state.SelectedNode.ID == a.ID {
		selected := state.SelectedNode.Clone()
		selected.Config = config
		state.SelectedNode = selected
	}

	return state
}

func (m *Machine) moveNode(state State, a MoveNode) State {
	index := slices.IndexFunc(state.Nodes, func(n *models.Node) bool { return n != nil && n.ID == a.ID })
	if index < 0 {
		return state
	}

	moved := state.Nodes[index].Clone()
	moved.Position = a.Position

	state.Nodes = slices.Clone(state.Nodes)
	state.Nodes[index] = moved

	return state
}

func deleteNode(state State, id string) State {
	if !state.hasNode(id) {
		return state
	}

	state.Nodes = slices.DeleteFunc(slices.Clone(state.Nodes), func(n *models.Node) bool {
		return n == nil || n.ID == id
	})
	state.Edges = slices.DeleteFunc(slices.Clone(state.Edges), func(e *models.Edge) bool {
		return e == nil || e.Touches(id)
	})

	return state.dropDanglingReferences()
}

func (m *Machine) connect(ctx context.Context, state State, a Connect) State {
	for _, endpoint := range []string{a.Source, a.Target} {
		if !state.hasNode(endpoint) {
			state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Cannot connect: node %q does not exist", endpoint))}

			return state
		}
	}

	for _, edge := range state.Edges {
		if edge != nil && edge.Source == a.Source && edge.Target == a.Target {
			return state
		}
	}

	edge := models.NewEdge(a.Source, a.Target)
	proposed := append(slices.Clip(state.Edges), edge)

	issues := validation.Validate(state.Nodes, proposed)
	if issues.HasBlocking() {
		m.logger.DebugContext(ctx, "Connection rejected", "source", a.Source, "target", a.Target, "issues", len(issues))
		state.Issues = issues

		return state
	}

	state.Edges = proposed
	state.Issues = models.Issues{}

	return state
}

func disconnect(state State, edgeID string) State {
	if !slices.ContainsFunc(state.Edges, func(e *models.Edge) bool { return e != nil && e.ID == edgeID }) {
		return state
	}

	state.Edges = slices.DeleteFunc(slices.Clone(state.Edges), func(e *models.Edge) bool {
		return e == nil || e.ID == edgeID
	})

	return state
}

func loadWorkflow(state State, workflow *models.Workflow) State {
	if workflow == nil {
		return state
	}

	state.Nodes = models.CloneNodes(workflow.Nodes)
	state.Edges = models.CloneEdges(workflow.Edges)
	state.CurrentWorkflowID = workflow.ID
	state.SelectedNode = nil
	state.PendingDeletion = nil
	state.Issues = models.Issues{}

	return state
}

func importWorkflow(state State, document models.ExportDocument) State {
	state.Nodes = models.CloneNodes(document.Nodes)
	state.Edges = models.CloneEdges(document.Edges)
	state.CurrentWorkflowID = ""
	state.SelectedNode = nil
	state.PendingDeletion = nil
	state.Issues = validation.Validate(state.Nodes, state.Edges)

	return state
}

func (m *Machine) saveWorkflow(ctx context.Context, state State, a SaveWorkflow) State {
	issues := validation.Validate(state.Nodes, state.Edges).Blocking()

	name := strings.TrimSpace(a.Name)
	if name == "" {
		issues = append(issues, models.ErrorIssue(MsgNameRequired))
	}

	if len(issues) > 0 {
		state.Issues = issues

		return state
	}

	now := m.now()
	workflow := &models.Workflow{
		ID:        state.CurrentWorkflowID,
		Name:      name,
		Nodes:     models.CloneNodes(state.Nodes),
		Edges:     models.CloneEdges(state.Edges),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if workflow.ID == "" {
		workflow.ID = m.newID()
	}

	catalog, err := m.freshCatalog(ctx, state)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to read catalog before save", "workflow_id", workflow.ID, "error", err)
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Failed to save workflow: %v", err))}

		return state
	}

	index := slices.IndexFunc(catalog, func(w *models.Workflow) bool { return w != nil && w.ID == workflow.ID })
	if index >= 0 {
		workflow.CreatedAt = catalog[index].CreatedAt
		catalog[index] = workflow
	} else {
		catalog = append(catalog, workflow)
	}

	err = m.persistence.SaveAll(ctx, catalog)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to save workflow", "workflow_id", workflow.ID, "error", err)
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Failed to save workflow: %v", err))}

		return state
	}

	m.logger.InfoContext(ctx, "Workflow saved", "workflow_id", workflow.ID, "name", workflow.Name)

	state.Workflows = catalog
	state.CurrentWorkflowID = workflow.ID
	state.Issues = models.Issues{models.WarningIssue(MsgSaved)}

	return state
}

// freshCatalog re-reads the stored catalog and adds the entries only this state knows about,
// so a write never drops workflows stored since the last load.
func (m *Machine) freshCatalog(ctx context.Context, state State) ([]*models.Workflow, error) {
	stored, err := m.persistence.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	catalog := slices.Clone(stored)

	for _, workflow := range state.Workflows {
		if workflow != nil && models.FindWorkflow(catalog, workflow.ID) == nil {
			catalog = append(catalog, workflow)
		}
	}

	return catalog, nil
}

func (m *Machine) loadAllWorkflows(ctx context.Context, state State) State {
	workflows, err := m.persistence.LoadAll(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to load workflows", "error", err)
		state.Workflows = []*models.Workflow{}
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Failed to load workflows: %v", err))}

		return state
	}

	if workflows == nil {
		workflows = []*models.Workflow{}
	}

	state.Workflows = workflows

	return state
}

func (m *Machine) deleteWorkflow(ctx context.Context, state State, id string) State {
	if models.FindWorkflow(state.Workflows, id) == nil {
		return state
	}

	catalog, err := m.freshCatalog(ctx, state)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to read catalog before delete", "workflow_id", id, "error", err)
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Failed to delete workflow: %v", err))}

		return state
	}

	catalog = slices.DeleteFunc(catalog, func(w *models.Workflow) bool {
		return w == nil || w.ID == id
	})

	err = m.persistence.SaveAll(ctx, catalog)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to delete workflow", "workflow_id", id, "error", err)
		state.Issues = models.Issues{models.ErrorIssue(fmt.Sprintf("Failed to delete workflow: %v", err))}

		return state
	}

	m.logger.InfoContext(ctx, "Workflow deleted", "workflow_id", id)

	state.Workflows = catalog
	if state.CurrentWorkflowID == id {
		state.CurrentWorkflowID = ""
	}

	return state
}
