// Package file provides file-based persistence of the workflow catalog.
package file

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dukex/flowbuilder/pkg/persistence"
)

const backendName = "file"

// Persistence implements the persistence.Persistence interface using the file system.
// The catalog lives in a single JSON document under the root directory.
type Persistence struct {
	root   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(logger *slog.Logger, root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:   cleanRoot,
		logger: logger.With("persistence", backendName),
	}
}

var _ persistence.Persistence = (*Persistence)(nil)

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return persistence.NewCatalogError("HealthCheck", backendName, persistence.ErrBackendUnavailable)
	}

	return nil
}

func (fp *Persistence) catalogPath() string {
	return filepath.Join(fp.root, persistence.CatalogKey+".json")
}
