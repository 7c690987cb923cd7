// Package persistence provides the storage abstraction for the saved workflow catalog.
package persistence

import (
	"context"

	"github.com/dukex/flowbuilder/pkg/models"
)

// CatalogKey is the single key the whole catalog is stored under.
const CatalogKey = "workflows"

// Persistence stores the workflow catalog as one blob. Implementations always read and write the
// entire catalog, never a delta.
type Persistence interface {
	// LoadAll returns the stored catalog. Missing or corrupt data yields an empty catalog and no
	// error; an error is only returned when the backend itself cannot be reached.
	LoadAll(ctx context.Context) ([]*models.Workflow, error)
	// SaveAll replaces the stored catalog.
	SaveAll(ctx context.Context, workflows []*models.Workflow) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
