package models

import "fmt"

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id"     validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// NewEdge builds the edge joining source to target. The id is derived from the endpoints,
// which is unique as long as a pair is connected at most once.
func NewEdge(source, target string) *Edge {
	return &Edge{
		ID:     fmt.Sprintf("edge-%s-%s", source, target),
		Source: source,
		Target: target,
	}
}

// Touches reports whether nodeID is either endpoint of the edge.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// CloneEdges copies an edge slice so the result shares no edge with the input.
func CloneEdges(edges []*Edge) []*Edge {
	cloned := make([]*Edge, 0, len(edges))

	for _, edge := range edges {
		if edge == nil {
			continue
		}

		c := *edge
		cloned = append(cloned, &c)
	}

	return cloned
}
