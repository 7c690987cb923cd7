package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKind(t *testing.T) {
	t.Parallel()

	for _, kind := range models.NodeKinds {
		assert.True(t, kind.Valid(), kind)
		assert.NotNil(t, models.DefaultConfig(kind), kind)
		assert.Equal(t, kind, models.DefaultConfig(kind).Kind())
	}

	assert.False(t, models.NodeKind("webhook").Valid())
	assert.Nil(t, models.DefaultConfig("webhook"))

	assert.Equal(t, "Start Trigger", models.NodeKindStartTrigger.DefaultLabel())
	assert.Equal(t, "Wait Timer", models.NodeKindWaitTimer.DefaultLabel())
	assert.Equal(t, "webhook", models.NodeKind("webhook").DefaultLabel())
}

func TestNewNode(t *testing.T) {
	t.Parallel()

	a := models.NewNode(models.NodeKindSendMessage, models.Position{X: 1, Y: 2})
	b := models.NewNode(models.NodeKindSendMessage, models.Position{})

	assert.True(t, strings.HasPrefix(a.ID, "sendMessage-"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Send Message", a.Label)
	assert.Equal(t, models.SendMessageConfig{}, a.Config)
	assert.Equal(t, models.Position{X: 1, Y: 2}, a.Position)
}

func TestNode_JSON(t *testing.T) {
	t.Parallel()

	node := &models.Node{
		ID:       "cond-1",
		Kind:     models.NodeKindCondition,
		Label:    "Is VIP",
		Position: models.Position{X: 10, Y: 20},
		Config:   &models.ConditionConfig{ConditionType: models.ConditionContains, ConditionValue: "vip"},
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "cond-1",
		"kind": "condition",
		"label": "Is VIP",
		"position": {"x": 10, "y": 20},
		"config": {"condition_type": "contains", "condition_value": "vip"}
	}`, string(data))

	var decoded models.Node
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, models.ConditionConfig{ConditionType: models.ConditionContains, ConditionValue: "vip"}, decoded.Config)

	t.Run("missing config decodes to the empty variant", func(t *testing.T) {
		var n models.Node
		require.NoError(t, json.Unmarshal([]byte(`{"id": "w", "kind": "waitTimer"}`), &n))

		assert.Equal(t, models.WaitTimerConfig{}, n.Config)
	})

	t.Run("unknown kind", func(t *testing.T) {
		var n models.Node
		err := json.Unmarshal([]byte(`{"id": "x", "kind": "robot"}`), &n)

		require.ErrorIs(t, err, models.ErrUnknownNodeKind)
	})
}

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     models.NodeKind
		raw      string
		expected models.NodeConfig
		wantErr  bool
	}{
		{name: "null", kind: models.NodeKindSendMessage, raw: "null", expected: models.SendMessageConfig{}},
		{name: "empty", kind: models.NodeKindFollowUser, raw: "", expected: models.FollowUserConfig{}},
		{name: "wait timer", kind: models.NodeKindWaitTimer, raw: `{"hours": 1, "minutes": 30}`, expected: models.WaitTimerConfig{Hours: 1, Minutes: 30}},
		{name: "condition", kind: models.NodeKindCondition, raw: `{"condition_type": "equals", "condition_value": "a"}`, expected: models.ConditionConfig{ConditionType: models.ConditionEquals, ConditionValue: "a"}},
		{name: "wrong field type", kind: models.NodeKindWaitTimer, raw: `{"hours": "two"}`, wantErr: true},
		{name: "unknown kind", kind: "robot", raw: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config, err := models.DecodeConfig(tt.kind, json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	var nilTimer *models.WaitTimerConfig

	assert.Equal(t, models.WaitTimerConfig{}, models.ConfigValue(nilTimer))
	assert.Equal(t, models.WaitTimerConfig{Hours: 3}, models.ConfigValue(&models.WaitTimerConfig{Hours: 3}))
	assert.Equal(t, models.SendMessageConfig{Username: "u"}, models.ConfigValue(models.SendMessageConfig{Username: "u"}))
}

func TestNode_Clone(t *testing.T) {
	t.Parallel()

	config := &models.SendMessageConfig{Username: "a", Message: "b"}
	node := &models.Node{ID: "n", Kind: models.NodeKindSendMessage, Config: config}

	clone := node.Clone()
	config.Username = "changed"

	assert.Equal(t, models.SendMessageConfig{Username: "a", Message: "b"}, clone.Config)
	assert.Nil(t, (*models.Node)(nil).Clone())
}

func TestNode_DisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Label", (&models.Node{ID: "id", Label: "Label"}).DisplayName())
	assert.Equal(t, "id", (&models.Node{ID: "id"}).DisplayName())
}

func TestEdge(t *testing.T) {
	t.Parallel()

	edge := models.NewEdge("a", "b")

	assert.Equal(t, "edge-a-b", edge.ID)
	assert.True(t, edge.Touches("a"))
	assert.True(t, edge.Touches("b"))
	assert.False(t, edge.Touches("c"))

	cloned := models.CloneEdges([]*models.Edge{edge, nil})
	require.Len(t, cloned, 1)
	assert.NotSame(t, edge, cloned[0])
	assert.Equal(t, *edge, *cloned[0])
}

func TestIssues(t *testing.T) {
	t.Parallel()

	issues := models.Issues{
		models.WarningIssue("saved"),
		models.ErrorIssue("broken"),
		models.ErrorIssue("also broken"),
	}

	assert.True(t, issues.HasBlocking())
	assert.Equal(t, []string{"broken", "also broken"}, issues.Blocking().Messages())
	assert.Equal(t, []string{"broken", "also broken"}, issues.WithoutWarnings().Messages())
	assert.Equal(t, []string{"saved", "broken", "also broken"}, issues.Messages())

	assert.False(t, models.Issues{models.WarningIssue("ok")}.HasBlocking())
	assert.Empty(t, models.Issues(nil).Blocking())
}

func TestWorkflow_Clone(t *testing.T) {
	t.Parallel()

	workflow := &models.Workflow{
		ID:    "wf",
		Name:  "Welcome",
		Nodes: []*models.Node{{ID: "s", Kind: models.NodeKindStartTrigger, Config: models.StartTriggerConfig{}}},
		Edges: []*models.Edge{},
	}

	clone := workflow.Clone()
	clone.Nodes[0].Label = "changed"

	assert.Empty(t, workflow.Nodes[0].Label)
	assert.Same(t, workflow, models.FindWorkflow([]*models.Workflow{nil, workflow}, "wf"))
	assert.Nil(t, models.FindWorkflow(nil, "wf"))
}

func TestExportDocument_Validation(t *testing.T) {
	t.Parallel()

	validate := validator.New(validator.WithRequiredStructEnabled())

	valid := models.ExportDocument{
		Name:  "Doc",
		Nodes: []*models.Node{{ID: "s", Kind: models.NodeKindStartTrigger}},
		Edges: []*models.Edge{},
	}
	require.NoError(t, validate.Struct(valid))

	missingName := valid
	missingName.Name = ""
	require.Error(t, validate.Struct(missingName))

	badEdge := valid
	badEdge.Edges = []*models.Edge{{ID: "e", Source: "s"}}
	require.Error(t, validate.Struct(badEdge))
}
