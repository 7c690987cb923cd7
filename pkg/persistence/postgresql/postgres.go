// Package postgresql provides PostgreSQL persistence of the workflow catalog.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

const backendName = "postgresql"

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db          *sql.DB
	logger      *slog.Logger
	catalogRepo *CatalogRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger = logger.With("persistence", backendName)

	// Initialize components
	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	postgres := &Persistence{
		db:          database,
		logger:      logger,
		catalogRepo: NewCatalogRepository(database, logger),
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

var _ persistence.Persistence = (*Persistence)(nil)

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return persistence.NewCatalogError("HealthCheck", backendName, fmt.Errorf("%w: %w", persistence.ErrBackendUnavailable, err))
	}

	return nil
}

// LoadAll returns the stored catalog.
func (p *Persistence) LoadAll(ctx context.Context) ([]*models.Workflow, error) {
	return p.catalogRepo.Load(ctx, persistence.CatalogKey)
}

// SaveAll replaces the stored catalog.
func (p *Persistence) SaveAll(ctx context.Context, workflows []*models.Workflow) error {
	return p.catalogRepo.Save(ctx, persistence.CatalogKey, workflows)
}
