// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/dukex/flowbuilder/pkg/models"
)

// CreateTestNode creates a node of the given kind with a valid config that can be overridden.
func CreateTestNode(kind models.NodeKind, overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:       string(kind) + "-test",
		Kind:     kind,
		Label:    kind.DefaultLabel(),
		Position: models.Position{X: 100, Y: 200},
		Config:   validConfig(kind),
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

func validConfig(kind models.NodeKind) models.NodeConfig {
	switch kind {
	case models.NodeKindCondition:
		return models.ConditionConfig{ConditionType: models.ConditionEquals, ConditionValue: "yes"}
	case models.NodeKindWaitTimer:
		return models.WaitTimerConfig{Hours: 1}
	case models.NodeKindSendMessage:
		return models.SendMessageConfig{Username: "alice", Message: "hello"}
	default:
		return models.DefaultConfig(kind)
	}
}

// WithID sets the node id.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.Node) {
	return func(n *models.Node) {
		n.Label = label
	}
}

// WithConfig sets the node config.
func WithConfig(config models.NodeConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Config = config
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// CreateTestEdge creates an edge between two nodes.
func CreateTestEdge(source, target string) *models.Edge {
	return models.NewEdge(source, target)
}

// CreateTestChain creates a valid linear sequence: a start trigger followed by the given kinds,
// each node connected to the next one.
func CreateTestChain(kinds ...models.NodeKind) ([]*models.Node, []*models.Edge) {
	nodes := []*models.Node{CreateTestNode(models.NodeKindStartTrigger, WithID("start"), WithLabel("Start"))}
	edges := []*models.Edge{}

	for i, kind := range kinds {
		node := CreateTestNode(kind, WithID(string(kind)+"-"+string(rune('a'+i))), WithPosition(100, float64(200+100*i)))
		edges = append(edges, CreateTestEdge(nodes[len(nodes)-1].ID, node.ID))
		nodes = append(nodes, node)
	}

	return nodes, edges
}

// CreateTestWorkflow creates a saved workflow holding a valid chain.
func CreateTestWorkflow(id, name string) *models.Workflow {
	nodes, edges := CreateTestChain(models.NodeKindSendMessage)

	return &models.Workflow{
		ID:    id,
		Name:  name,
		Nodes: nodes,
		Edges: edges,
	}
}

// MemoryPersistence is an in-memory persistence gateway for tests.
type MemoryPersistence struct {
	mu        sync.Mutex
	workflows []*models.Workflow
	saves     int
}

// NewMemoryPersistence creates a gateway preloaded with workflows.
func NewMemoryPersistence(workflows ...*models.Workflow) *MemoryPersistence {
	return &MemoryPersistence{workflows: workflows}
}

func (p *MemoryPersistence) LoadAll(_ context.Context) ([]*models.Workflow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.workflows), nil
}

func (p *MemoryPersistence) SaveAll(_ context.Context, workflows []*models.Workflow) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.workflows = slices.Clone(workflows)
	p.saves++

	return nil
}

func (p *MemoryPersistence) HealthCheck(_ context.Context) error { return nil }

func (p *MemoryPersistence) Close(_ context.Context) error { return nil }

// Saves returns how many times the catalog was written.
func (p *MemoryPersistence) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.saves
}

// Stored returns the last written catalog.
func (p *MemoryPersistence) Stored() []*models.Workflow {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.workflows)
}
