// Package registry keeps the palette of node kinds the builder offers.
package registry

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/dukex/flowbuilder/pkg/models"
)

// NodeType describes one palette entry: the kind a canvas drop creates and the shape of its config.
type NodeType struct {
	Kind         models.NodeKind `json:"kind"`
	Label        string          `json:"label"`
	Description  string          `json:"description"`
	Unique       bool            `json:"unique"`
	ConfigSchema map[string]any  `json:"config_schema"`
}

type Registry struct {
	logger *slog.Logger
	types  map[models.NodeKind]NodeType
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger: log,
		types:  make(map[models.NodeKind]NodeType),
	}
}

// RegisterNode adds a palette entry. Re-registering a kind replaces the previous entry.
func (r *Registry) RegisterNode(nodeType NodeType) error {
	if !nodeType.Kind.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownNodeKind, nodeType.Kind)
	}

	if nodeType.Label == "" {
		nodeType.Label = nodeType.Kind.DefaultLabel()
	}

	if _, exists := r.types[nodeType.Kind]; exists {
		r.logger.Debug("Replacing node type", "kind", nodeType.Kind)
	}

	r.types[nodeType.Kind] = nodeType

	return nil
}

func (r *Registry) GetNode(kind models.NodeKind) (NodeType, bool) {
	nodeType, ok := r.types[kind]

	return nodeType, ok
}

// GetAvailableNodes returns the registered entries in palette order.
func (r *Registry) GetAvailableNodes() []NodeType {
	available := make([]NodeType, 0, len(r.types))

	for _, kind := range models.NodeKinds {
		if nodeType, ok := r.types[kind]; ok {
			available = append(available, nodeType)
		}
	}

	return slices.Clip(available)
}
