package registry

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterDefaultNodes(t *testing.T) {
	registry := newTestRegistry()
	registry.RegisterDefaultNodes()

	available := registry.GetAvailableNodes()
	require.Len(t, available, len(models.NodeKinds))

	for i, kind := range models.NodeKinds {
		assert.Equal(t, kind, available[i].Kind)
		assert.Equal(t, kind.DefaultLabel(), available[i].Label)
		assert.NotEmpty(t, available[i].Description)
		assert.Equal(t, "object", available[i].ConfigSchema["type"])
	}

	start, ok := registry.GetNode(models.NodeKindStartTrigger)
	require.True(t, ok)
	assert.True(t, start.Unique)

	timer, ok := registry.GetNode(models.NodeKindWaitTimer)
	require.True(t, ok)
	assert.False(t, timer.Unique)
	assert.Contains(t, timer.ConfigSchema["properties"], "minutes")
}

func TestRegisterNode(t *testing.T) {
	registry := newTestRegistry()

	err := registry.RegisterNode(NodeType{Kind: "webhook"})
	require.ErrorIs(t, err, models.ErrUnknownNodeKind)
	assert.Empty(t, registry.GetAvailableNodes())

	require.NoError(t, registry.RegisterNode(NodeType{Kind: models.NodeKindFollowUser}))
	require.NoError(t, registry.RegisterNode(NodeType{Kind: models.NodeKindCondition, Label: "Branch"}))

	available := registry.GetAvailableNodes()
	require.Len(t, available, 2)
	assert.Equal(t, models.NodeKindCondition, available[0].Kind)
	assert.Equal(t, "Branch", available[0].Label)
	assert.Equal(t, "Follow User", available[1].Label)

	_, ok := registry.GetNode(models.NodeKindWaitTimer)
	assert.False(t, ok)
}
