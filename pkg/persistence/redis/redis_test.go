package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/persistence/redis"
	"github.com/dukex/flowbuilder/pkg/testutil"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Persistence) {
	t.Helper()

	server := miniredis.RunT(t)

	p, err := redis.NewPersistence(context.Background(), discardLogger(), "redis://"+server.Addr()+"/0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = p.Close(context.Background()) })

	return server, p
}

func TestPersistence_SaveAllAndLoadAll(t *testing.T) {
	ctx := context.Background()
	server, p := setupRedis(t)

	loaded, err := p.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	catalog := []*models.Workflow{testutil.CreateTestWorkflow("wf-1", "Welcome")}
	require.NoError(t, p.SaveAll(ctx, catalog))

	assert.True(t, server.Exists("flowbuilder:"+persistence.CatalogKey))

	loaded, err = p.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Welcome", loaded[0].Name)
	assert.Equal(t, catalog[0].Edges, loaded[0].Edges)
}

func TestPersistence_Prefix(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	client := backend.NewClient(&backend.Options{Addr: server.Addr()})
	p := redis.NewFromClient(discardLogger(), client, redis.WithPrefix("tenant-a:"))

	t.Cleanup(func() { _ = p.Close(ctx) })

	require.NoError(t, p.SaveAll(ctx, nil))

	payload, err := server.Get("tenant-a:" + persistence.CatalogKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, payload)
}

func TestPersistence_CorruptPayload(t *testing.T) {
	server, p := setupRedis(t)

	require.NoError(t, server.Set("flowbuilder:"+persistence.CatalogKey, "garbage"))

	loaded, err := p.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPersistence_Unavailable(t *testing.T) {
	ctx := context.Background()
	server, p := setupRedis(t)

	require.NoError(t, p.HealthCheck(ctx))

	server.Close()

	_, err := p.LoadAll(ctx)
	require.Error(t, err)
	assert.True(t, persistence.IsBackendUnavailable(err))

	err = p.SaveAll(ctx, nil)
	assert.True(t, persistence.IsBackendUnavailable(err))

	assert.True(t, persistence.IsBackendUnavailable(p.HealthCheck(ctx)))
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	_, err := redis.NewPersistence(context.Background(), discardLogger(), "http://localhost")
	require.Error(t, err)
}
