package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
)

// LoadAll reads the catalog document. A missing or unreadable document yields an empty catalog.
func (fp *Persistence) LoadAll(ctx context.Context) ([]*models.Workflow, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	body, err := os.ReadFile(fp.catalogPath())
	if err != nil {
		if !os.IsNotExist(err) {
			fp.logger.WarnContext(ctx, "Failed to read workflow catalog", "error", err)
		}

		return []*models.Workflow{}, nil
	}

	return persistence.DecodeCatalog(fp.logger, body), nil
}

// SaveAll writes the whole catalog. The document is written to a temporary file and renamed over
// the previous one so readers never observe a partial catalog.
func (fp *Persistence) SaveAll(ctx context.Context, workflows []*models.Workflow) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	data, err := persistence.EncodeCatalog(workflows)
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, err)
	}

	err = os.MkdirAll(fp.root, 0750)
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("failed to create catalog directory: %w", err))
	}

	tmp, err := os.CreateTemp(fp.root, "."+persistence.CatalogKey+"-*.json")
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("failed to create temporary catalog: %w", err))
	}

	tmpPath := filepath.Clean(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}

	if err != nil {
		_ = os.Remove(tmpPath)

		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("failed to write catalog: %w", err))
	}

	err = os.Rename(tmpPath, fp.catalogPath())
	if err != nil {
		_ = os.Remove(tmpPath)

		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("failed to replace catalog: %w", err))
	}

	fp.logger.DebugContext(ctx, "Workflow catalog saved", "workflows", len(workflows))

	return nil
}
