package file

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T, root string) *Persistence {
	t.Helper()

	return NewPersistence(slog.New(slog.NewTextHandler(io.Discard, nil)), root)
}

func TestNewPersistence(t *testing.T) {
	p := newTestPersistence(t, "/tmp/test")
	assert.Equal(t, "/tmp/test", p.root)

	p = newTestPersistence(t, "file:///tmp/test")
	assert.Equal(t, "/tmp/test", p.root)
}

func TestPersistence_Close(t *testing.T) {
	p := newTestPersistence(t, "./test-data")
	assert.NoError(t, p.Close(t.Context()))
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, newTestPersistence(t, dir).HealthCheck(t.Context()))

	err := newTestPersistence(t, filepath.Join(dir, "missing")).HealthCheck(t.Context())
	require.Error(t, err)
	assert.True(t, persistence.IsBackendUnavailable(err))
}

func TestPersistence_LoadAll_Missing(t *testing.T) {
	p := newTestPersistence(t, filepath.Join(t.TempDir(), "nothing-here"))

	workflows, err := p.LoadAll(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, workflows)
	assert.Empty(t, workflows)
}

func TestPersistence_SaveAllAndLoadAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "catalog")
	p := newTestPersistence(t, dir)

	catalog := []*models.Workflow{
		testutil.CreateTestWorkflow("wf-1", "Welcome"),
		testutil.CreateTestWorkflow("wf-2", "Follow up"),
	}

	require.NoError(t, p.SaveAll(t.Context(), catalog))

	loaded, err := p.LoadAll(t.Context())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "wf-1", loaded[0].ID)
	assert.Equal(t, "Follow up", loaded[1].Name)
	assert.Equal(t, catalog[0].Nodes, loaded[0].Nodes)

	require.NoError(t, p.SaveAll(t.Context(), catalog[1:]))

	loaded, err = p.LoadAll(t.Context())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "wf-2", loaded[0].ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestPersistence_LoadAll_Corrupt(t *testing.T) {
	dir := t.TempDir()
	p := newTestPersistence(t, dir)

	require.NoError(t, os.WriteFile(p.catalogPath(), []byte("{not json"), 0o600))

	workflows, err := p.LoadAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestPersistence_ConcurrentSaves(t *testing.T) {
	p := newTestPersistence(t, t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			catalog := make([]*models.Workflow, 0, i+1)
			for j := 0; j <= i; j++ {
				catalog = append(catalog, testutil.CreateTestWorkflow("wf", "Concurrent"))
			}

			assert.NoError(t, p.SaveAll(ctx, catalog))
		}()
	}

	wg.Wait()

	loaded, err := p.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded)
}
