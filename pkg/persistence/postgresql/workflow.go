package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
)

// CatalogRepository reads and writes catalog documents in the blob_store table.
type CatalogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sql.DB, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{db: db, logger: logger}
}

// Load returns the catalog stored under key. A missing row yields an empty catalog.
func (r *CatalogRepository) Load(ctx context.Context, key string) ([]*models.Workflow, error) {
	query := `
		SELECT payload
		FROM blob_store
		WHERE key = $1
	`

	var payload []byte

	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*models.Workflow{}, nil
		}

		return nil, persistence.NewCatalogError("LoadAll", backendName, fmt.Errorf("%w: %w", persistence.ErrBackendUnavailable, err))
	}

	return persistence.DecodeCatalog(r.logger, payload), nil
}

// Save upserts the catalog under key.
func (r *CatalogRepository) Save(ctx context.Context, key string, workflows []*models.Workflow) error {
	payload, err := persistence.EncodeCatalog(workflows)
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, err)
	}

	query := `
		INSERT INTO blob_store (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload
		  , updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query, key, string(payload), time.Now().UTC())
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("failed to upsert catalog: %w", err))
	}

	r.logger.DebugContext(ctx, "Workflow catalog saved", "workflows", len(workflows))

	return nil
}
