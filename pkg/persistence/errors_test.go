package persistence_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := persistence.NewCatalogError("LoadAll", "redis", errors.Join(persistence.ErrBackendUnavailable, cause))

	assert.True(t, persistence.IsBackendUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "LoadAll operation failed on redis catalog")

	var catalogErr *persistence.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, "redis", catalogErr.Backend)

	assert.False(t, persistence.IsBackendUnavailable(persistence.NewCatalogError("SaveAll", "file", cause)))
}

func TestEncodeDecodeCatalog(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("nil catalog is stored as an empty list", func(t *testing.T) {
		data, err := persistence.EncodeCatalog(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("workflows survive a round trip", func(t *testing.T) {
		workflow := testutil.CreateTestWorkflow("wf-1", "Welcome")

		data, err := persistence.EncodeCatalog([]*models.Workflow{workflow})
		require.NoError(t, err)

		decoded := persistence.DecodeCatalog(logger, data)
		require.Len(t, decoded, 1)
		assert.Equal(t, workflow.Nodes, decoded[0].Nodes)
		assert.Equal(t, workflow.Edges, decoded[0].Edges)
	})

	t.Run("degraded payloads yield an empty catalog", func(t *testing.T) {
		for _, payload := range []string{"", "not json", `{"id": "wf-1"}`} {
			decoded := persistence.DecodeCatalog(logger, []byte(payload))

			assert.NotNil(t, decoded, payload)
			assert.Empty(t, decoded, payload)
		}
	})

	t.Run("null entries are dropped", func(t *testing.T) {
		decoded := persistence.DecodeCatalog(logger, []byte(`[null, {"id": "wf-1", "name": "A", "nodes": [], "edges": []}]`))

		require.Len(t, decoded, 1)
		assert.Equal(t, "wf-1", decoded[0].ID)
	})
}
