package document_test

import (
	"encoding/json"
	"testing"

	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/testutil"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec() *document.Codec {
	return document.NewCodec(validator.New(validator.WithRequiredStructEnabled()))
}

func TestCodec_Decode(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"name": "Onboarding",
		"nodes": [
			{"id": "start", "kind": "startTrigger", "label": "Start", "position": {"x": 0, "y": 0}},
			{"id": "wait", "kind": "waitTimer", "label": "Wait", "position": {"x": 0, "y": 100}, "config": {"hours": 2, "minutes": 30}},
			{"id": "msg", "kind": "sendMessage", "label": "Hello", "config": {"username": "bob", "message": "hi"}}
		],
		"edges": [
			{"id": "e1", "source": "start", "target": "wait"},
			{"id": "e2", "source": "wait", "target": "msg"}
		]
	}`)

	doc, err := newCodec().Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "Onboarding", doc.Name)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, models.WaitTimerConfig{Hours: 2, Minutes: 30}, doc.Nodes[1].Config)
	assert.Equal(t, models.SendMessageConfig{Username: "bob", Message: "hi"}, doc.Nodes[2].Config)
	assert.Equal(t, models.StartTriggerConfig{}, doc.Nodes[0].EffectiveConfig())
	assert.Len(t, doc.Edges, 2)
}

func TestCodec_DecodeDefaults(t *testing.T) {
	t.Parallel()

	doc, err := newCodec().Decode([]byte(`{"nodes": [
		{"id": "s", "kind": "startTrigger"},
		{"id": "w", "kind": "waitTimer", "label": "  "},
		{"id": "m", "kind": "sendMessage", "label": "Greet"}
	], "edges": []}`))
	require.NoError(t, err)

	assert.Equal(t, models.DefaultWorkflowName, doc.Name)
	assert.NotNil(t, doc.Edges)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "Start Trigger", doc.Nodes[0].Label)
	assert.Equal(t, "Wait Timer", doc.Nodes[1].Label)
	assert.Equal(t, "Greet", doc.Nodes[2].Label)
}

func TestCodec_DecodeRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed", raw: `{"nodes": [`},
		{name: "not an object", raw: `[1, 2]`},
		{name: "missing edges", raw: `{"nodes": []}`},
		{name: "unknown kind", raw: `{"nodes": [{"id": "a", "kind": "webhook"}], "edges": []}`},
		{name: "empty node id", raw: `{"nodes": [{"id": "", "kind": "condition"}], "edges": []}`},
		{name: "edge without target", raw: `{"nodes": [], "edges": [{"id": "e", "source": "a"}]}`},
		{name: "config of wrong shape", raw: `{"nodes": [{"id": "w", "kind": "waitTimer", "config": {"hours": "two"}}], "edges": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newCodec().Decode([]byte(tt.raw))

			require.ErrorIs(t, err, document.ErrInvalidDocument)
		})
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	t.Parallel()

	nodes, edges := testutil.CreateTestChain(models.NodeKindCondition, models.NodeKindFollowUser)
	original := &models.ExportDocument{Name: "Chain", Nodes: nodes, Edges: edges}

	codec := newCodec()

	raw, err := codec.Encode(original)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))

	decoded, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSchemaListsEveryKind(t *testing.T) {
	t.Parallel()

	properties := document.Schema()["properties"].(map[string]any)
	items := properties["nodes"].(map[string]any)["items"].(map[string]any)
	kind := items["properties"].(map[string]any)["kind"].(map[string]any)

	assert.Len(t, kind["enum"], len(models.NodeKinds))
}
