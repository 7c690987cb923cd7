// Package models defines the domain types of the automation sequence builder
package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// NodeKind is the closed set of node types a sequence can be built from.
type NodeKind string

const (
	NodeKindStartTrigger NodeKind = "startTrigger" // Unique entry point of a sequence
	NodeKindCondition    NodeKind = "condition"    // Single comparison test
	NodeKindWaitTimer    NodeKind = "waitTimer"    // Delay expressed in hours and minutes
	NodeKindSendMessage  NodeKind = "sendMessage"  // Outbound message to a user
	NodeKindFollowUser   NodeKind = "followUser"   // Follow the current user
)

// NodeKinds lists every supported kind in palette order.
var NodeKinds = []NodeKind{
	NodeKindStartTrigger,
	NodeKindCondition,
	NodeKindSendMessage,
	NodeKindFollowUser,
	NodeKindWaitTimer,
}

var defaultLabels = map[NodeKind]string{
	NodeKindStartTrigger: "Start Trigger",
	NodeKindCondition:    "Condition",
	NodeKindWaitTimer:    "Wait Timer",
	NodeKindSendMessage:  "Send Message",
	NodeKindFollowUser:   "Follow User",
}

// Valid reports whether k is one of the supported node kinds.
func (k NodeKind) Valid() bool {
	return slices.Contains(NodeKinds, k)
}

// DefaultLabel returns the palette label of the kind.
func (k NodeKind) DefaultLabel() string {
	if label, ok := defaultLabels[k]; ok {
		return label
	}

	return string(k)
}

// Position is the canvas location of a node. The core never interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single step of a sequence.
type Node struct {
	ID       string     `json:"id"       validate:"required"`
	Kind     NodeKind   `json:"kind"     validate:"required"`
	Label    string     `json:"label"`
	Position Position   `json:"position"`
	Config   NodeConfig `json:"config"`
}

// NewNode builds a node of the given kind with a fresh id, the default label and an empty config.
func NewNode(kind NodeKind, position Position) *Node {
	return &Node{
		ID:       fmt.Sprintf("%s-%s", kind, uuid.New().String()),
		Kind:     kind,
		Label:    kind.DefaultLabel(),
		Position: position,
		Config:   DefaultConfig(kind),
	}
}

// IsStartTrigger reports whether the node is the sequence entry point.
func (n *Node) IsStartTrigger() bool {
	return n.Kind == NodeKindStartTrigger
}

// EffectiveConfig returns the node config as a value variant, or the empty config of its kind
// when none is set.
func (n *Node) EffectiveConfig() NodeConfig {
	if n.Config == nil {
		return DefaultConfig(n.Kind)
	}

	return ConfigValue(n.Config)
}

// DisplayName returns the label, falling back to the id for unlabeled nodes.
func (n *Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}

	return n.ID
}

// Clone returns a copy of the node that shares no memory with it.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	clone := *n
	if n.Config != nil {
		clone.Config = ConfigValue(n.Config)
	}

	return &clone
}

type nodeJSON struct {
	ID       string          `json:"id"`
	Kind     NodeKind        `json:"kind"`
	Label    string          `json:"label"`
	Position Position        `json:"position"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// MarshalJSON encodes the config variant inline under "config".
func (n Node) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage

	if n.Config != nil {
		encoded, err := json.Marshal(n.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config of node %s: %w", n.ID, err)
		}

		raw = encoded
	}

	return json.Marshal(nodeJSON{
		ID:       n.ID,
		Kind:     n.Kind,
		Label:    n.Label,
		Position: n.Position,
		Config:   raw,
	})
}

// UnmarshalJSON decodes "config" into the variant selected by "kind".
func (n *Node) UnmarshalJSON(data []byte) error {
	var decoded nodeJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	config, err := DecodeConfig(decoded.Kind, decoded.Config)
	if err != nil {
		return fmt.Errorf("node %s: %w", decoded.ID, err)
	}

	*n = Node{
		ID:       decoded.ID,
		Kind:     decoded.Kind,
		Label:    decoded.Label,
		Position: decoded.Position,
		Config:   config,
	}

	return nil
}

// CloneNodes copies a node slice so the result shares no node with the input.
func CloneNodes(nodes []*Node) []*Node {
	cloned := make([]*Node, 0, len(nodes))

	for _, node := range nodes {
		if node != nil {
			cloned = append(cloned, node.Clone())
		}
	}

	return cloned
}

// FindNode returns the node with the given id, or nil.
func FindNode(nodes []*Node, id string) *Node {
	for _, node := range nodes {
		if node != nil && node.ID == id {
			return node
		}
	}

	return nil
}
