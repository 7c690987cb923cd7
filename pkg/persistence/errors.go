// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowbuilder/pkg/models"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrBackendUnavailable indicates the storage backend could not be reached.
	ErrBackendUnavailable = errors.New("persistence backend unavailable")

	// ErrEncodeCatalog indicates the catalog could not be serialized.
	ErrEncodeCatalog = errors.New("failed to encode workflow catalog")
)

// CatalogError wraps catalog-related errors with additional context.
type CatalogError struct {
	Op      string // Operation being performed (e.g., "LoadAll", "SaveAll")
	Backend string // Backend name (file, redis, postgresql)
	Err     error  // Underlying error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s operation failed on %s catalog: %v", e.Op, e.Backend, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for catalog errors.
func (e *CatalogError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCatalogError creates a new catalog error with context.
func NewCatalogError(op, backend string, err error) *CatalogError {
	return &CatalogError{
		Op:      op,
		Backend: backend,
		Err:     err,
	}
}

// IsBackendUnavailable checks if an error indicates the backend could not be reached.
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// EncodeCatalog serializes the catalog. A nil catalog is stored as an empty list.
func EncodeCatalog(workflows []*models.Workflow) ([]byte, error) {
	if workflows == nil {
		workflows = []*models.Workflow{}
	}

	data, err := json.Marshal(workflows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeCatalog, err)
	}

	return data, nil
}

// DecodeCatalog parses a stored catalog. Empty or corrupt payloads degrade to an empty catalog;
// the corruption is logged, never returned.
func DecodeCatalog(logger *slog.Logger, data []byte) []*models.Workflow {
	if len(data) == 0 {
		return []*models.Workflow{}
	}

	var workflows []*models.Workflow
	if err := json.Unmarshal(data, &workflows); err != nil {
		logger.Warn("Stored workflow catalog is corrupt, starting from an empty catalog", "error", err)

		return []*models.Workflow{}
	}

	kept := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if workflow != nil {
			kept = append(kept, workflow)
		}
	}

	return kept
}
