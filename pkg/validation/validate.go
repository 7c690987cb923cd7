// Package validation checks that a workflow graph is a single linear sequence with complete node
// configuration.
//
// Validate is a pure function: it never mutates or retains its inputs and is safe to call from
// any number of goroutines.
package validation

import (
	"fmt"
	"strings"

	"github.com/dukex/flowbuilder/pkg/models"
)

// Issue messages. Node-level messages are prefixed with the quoted node label.
const (
	MsgEmptyGraph      = "Workflow must have at least one node"
	MsgMissingStart    = "Workflow must have exactly one Start Trigger"
	MsgMultipleStarts  = "Workflow can only have one Start Trigger"
	MsgCycle           = "Workflow contains cycles/loops which are not allowed"
	msgIsolated        = "is isolated and not connected to the workflow"
	msgFanOut          = "has multiple outgoing connections. Branching is not allowed"
	msgFanIn           = "has multiple incoming connections. Only linear workflows are allowed"
	msgUsername        = "requires a username"
	msgMessage         = "requires a message"
	msgConditionType   = "requires a condition type"
	msgConditionValue  = "requires a condition value"
	msgTimeValue       = "requires at least one time value (hours or minutes)"
	msgNegativeHours   = "requires hours to be zero or more"
	msgMinutesRange    = "requires minutes between 0 and 59"
	msgUnknownKind     = "has an unsupported node type"
	msgConfigMismatch  = "has a configuration for a different node type"
	msgUnsupportedCond = "has an unsupported condition type"
)

// Validate inspects nodes and edges and returns every defect found, in check order:
// empty graph, start trigger count, isolation, cycles, fan-out, fan-in, node configuration.
// Only the empty-graph check stops the run.
func Validate(nodes []*models.Node, edges []*models.Edge) models.Issues {
	if len(nodes) == 0 {
		return models.Issues{models.ErrorIssue(MsgEmptyGraph)}
	}

	g := newGraph(nodes, edges)

	issues := models.Issues{}
	issues = append(issues, g.checkStartTrigger()...)
	issues = append(issues, g.checkIsolated()...)
	issues = append(issues, g.checkCycles()...)
	issues = append(issues, g.checkFanOut()...)
	issues = append(issues, g.checkFanIn()...)
	issues = append(issues, g.checkConfigs()...)

	return issues
}

// graph is a read-only view over the inputs built once per Validate call.
type graph struct {
	nodes []*models.Node
	edges []*models.Edge
	byID  map[string]*models.Node
}

func newGraph(nodes []*models.Node, edges []*models.Edge) *graph {
	g := &graph{
		nodes: make([]*models.Node, 0, len(nodes)),
		edges: make([]*models.Edge, 0, len(edges)),
		byID:  make(map[string]*models.Node, len(nodes)),
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}

		g.nodes = append(g.nodes, node)

		if _, seen := g.byID[node.ID]; !seen {
			g.byID[node.ID] = node
		}
	}

	for _, edge := range edges {
		if edge != nil {
			g.edges = append(g.edges, edge)
		}
	}

	return g
}

func (g *graph) label(nodeID string) string {
	if node, ok := g.byID[nodeID]; ok && node.Label != "" {
		return node.Label
	}

	return nodeID
}

func nodeIssue(label, problem string) models.Issue {
	return models.ErrorIssue(fmt.Sprintf("Node \"%s\" %s", label, problem))
}

func (g *graph) checkStartTrigger() models.Issues {
	count := 0

	for _, node := range g.nodes {
		if node.IsStartTrigger() {
			count++
		}
	}

	switch {
	case count == 0:
		return models.Issues{models.ErrorIssue(MsgMissingStart)}
	case count > 1:
		return models.Issues{models.ErrorIssue(MsgMultipleStarts)}
	default:
		return nil
	}
}

func (g *graph) checkIsolated() models.Issues {
	connected := make(map[string]struct{}, len(g.edges)*2)

	for _, edge := range g.edges {
		connected[edge.Source] = struct{}{}
		connected[edge.Target] = struct{}{}
	}

	var issues models.Issues

	for _, node := range g.nodes {
		if node.IsStartTrigger() {
			continue
		}

		if _, ok := connected[node.ID]; !ok {
			issues = append(issues, nodeIssue(node.DisplayName(), msgIsolated))
		}
	}

	return issues
}

// checkCycles runs a depth-first search from every unvisited node, tracking the recursion stack.
// Reaching a node that is still on the stack means the graph has a cycle.
func (g *graph) checkCycles() models.Issues {
	adjacency := make(map[string][]string, len(g.nodes))
	for _, edge := range g.edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}

	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		if onStack[id] {
			return true
		}

		if visited[id] {
			return false
		}

		visited[id] = true
		onStack[id] = true

		for _, next := range adjacency[id] {
			if visit(next) {
				return true
			}
		}

		onStack[id] = false

		return false
	}

	for _, node := range g.nodes {
		if !visited[node.ID] && visit(node.ID) {
			return models.Issues{models.ErrorIssue(MsgCycle)}
		}
	}

	return nil
}

// degreeCounter counts occurrences per key and remembers the order keys were first seen.
type degreeCounter struct {
	order  []string
	counts map[string]int
}

func newDegreeCounter(size int) *degreeCounter {
	return &degreeCounter{counts: make(map[string]int, size)}
}

func (c *degreeCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}

	c.counts[key]++
}

func (g *graph) checkFanOut() models.Issues {
	outgoing := newDegreeCounter(len(g.nodes))
	for _, edge := range g.edges {
		outgoing.add(edge.Source)
	}

	var issues models.Issues

	for _, id := range outgoing.order {
		if outgoing.counts[id] > 1 {
			issues = append(issues, nodeIssue(g.label(id), msgFanOut))
		}
	}

	return issues
}

func (g *graph) checkFanIn() models.Issues {
	incoming := newDegreeCounter(len(g.nodes))
	for _, edge := range g.edges {
		incoming.add(edge.Target)
	}

	var issues models.Issues

	for _, id := range incoming.order {
		if incoming.counts[id] <= 1 {
			continue
		}

		// A start node is not expected to receive edges; if it does, fan-in is not reported for it.
		if node, ok := g.byID[id]; ok && node.IsStartTrigger() {
			continue
		}

		issues = append(issues, nodeIssue(g.label(id), msgFanIn))
	}

	return issues
}

func (g *graph) checkConfigs() models.Issues {
	var issues models.Issues

	for _, node := range g.nodes {
		for _, problem := range configProblems(node) {
			issues = append(issues, nodeIssue(node.DisplayName(), problem))
		}
	}

	return issues
}

// configProblems lists what is missing from the node configuration.
func configProblems(node *models.Node) []string {
	if !node.Kind.Valid() {
		return []string{msgUnknownKind}
	}

	config := models.ConfigValue(node.EffectiveConfig())
	if config.Kind() != node.Kind {
		return []string{msgConfigMismatch}
	}

	var problems []string

	switch c := config.(type) {
	case models.SendMessageConfig:
		if isBlank(c.Username) {
			problems = append(problems, msgUsername)
		}

		if isBlank(c.Message) {
			problems = append(problems, msgMessage)
		}
	case models.ConditionConfig:
		switch {
		case isBlank(string(c.ConditionType)):
			problems = append(problems, msgConditionType)
		case !c.ConditionType.Valid():
			problems = append(problems, fmt.Sprintf("%s %q", msgUnsupportedCond, c.ConditionType))
		}

		if isBlank(c.ConditionValue) {
			problems = append(problems, msgConditionValue)
		}
	case models.WaitTimerConfig:
		if c.Hours < 0 {
			problems = append(problems, msgNegativeHours)
		}

		if c.Minutes < 0 || c.Minutes > 59 {
			problems = append(problems, msgMinutesRange)
		}

		if c.Hours == 0 && c.Minutes == 0 {
			problems = append(problems, msgTimeValue)
		}
	case models.StartTriggerConfig, models.FollowUserConfig:
		// Nothing required.
	}

	return problems
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
