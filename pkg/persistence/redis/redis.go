// Package redis provides Redis persistence of the workflow catalog.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	backend "github.com/redis/go-redis/v9"
)

const (
	backendName   = "redis"
	defaultPrefix = "flowbuilder:"
)

// Persistence implements the persistence.Persistence interface on a single Redis string key.
type Persistence struct {
	client *backend.Client
	logger *slog.Logger
	prefix string
}

type Option func(*Persistence)

// WithPrefix sets the key prefix of the catalog key.
func WithPrefix(prefix string) Option {
	return func(p *Persistence) {
		p.prefix = prefix
	}
}

// NewPersistence connects to the Redis server described by databaseURL (redis://...).
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string, opts ...Option) (*Persistence, error) {
	options, err := backend.ParseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	p := NewFromClient(logger, backend.NewClient(options), opts...)

	err = p.HealthCheck(ctx)
	if err != nil {
		_ = p.client.Close()

		return nil, err
	}

	return p, nil
}

// NewFromClient creates the persistence from an existing client.
func NewFromClient(logger *slog.Logger, client *backend.Client, opts ...Option) *Persistence {
	p := &Persistence{
		client: client,
		logger: logger.With("persistence", backendName),
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

var _ persistence.Persistence = (*Persistence)(nil)

func (p *Persistence) key() string {
	return p.prefix + persistence.CatalogKey
}

// LoadAll reads the catalog key. A missing key or a corrupt payload yields an empty catalog.
func (p *Persistence) LoadAll(ctx context.Context) ([]*models.Workflow, error) {
	val, err := p.client.Get(ctx, p.key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return []*models.Workflow{}, nil
		}

		return nil, persistence.NewCatalogError("LoadAll", backendName, fmt.Errorf("%w: %w", persistence.ErrBackendUnavailable, err))
	}

	return persistence.DecodeCatalog(p.logger, val), nil
}

// SaveAll replaces the catalog key.
func (p *Persistence) SaveAll(ctx context.Context, workflows []*models.Workflow) error {
	data, err := persistence.EncodeCatalog(workflows)
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, err)
	}

	err = p.client.Set(ctx, p.key(), data, 0).Err()
	if err != nil {
		return persistence.NewCatalogError("SaveAll", backendName, fmt.Errorf("%w: %w", persistence.ErrBackendUnavailable, err))
	}

	return nil
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return persistence.NewCatalogError("HealthCheck", backendName, fmt.Errorf("%w: %w", persistence.ErrBackendUnavailable, err))
	}

	return nil
}

// Close closes the redis client.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
