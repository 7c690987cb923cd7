package cmd

import (
	"log/slog"

	"github.com/dukex/flowbuilder/pkg/registry"
)

// NewRegistry returns the palette of built-in node kinds.
func NewRegistry(log *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultNodes()

	return reg
}
