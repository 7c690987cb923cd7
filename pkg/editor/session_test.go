package editor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_NoticeExpires(t *testing.T) {
	t.Parallel()

	machine := newTestMachine(t, testutil.NewMemoryPersistence())
	session := editor.NewSession(machine, editor.WithInitialState(validChainState()), editor.WithNoticeTTL(20*time.Millisecond))
	t.Cleanup(session.Close)

	state := session.Dispatch(context.Background(), editor.SaveWorkflow{Name: "Welcome"})
	require.Equal(t, []string{editor.MsgSaved}, state.Issues.Messages())

	assert.Eventually(t, func() bool {
		return len(session.State().Issues) == 0
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, session.State().Workflows, 1)
}

func TestSession_ErrorsDoNotExpire(t *testing.T) {
	t.Parallel()

	machine := newTestMachine(t, testutil.NewMemoryPersistence())
	session := editor.NewSession(machine, editor.WithNoticeTTL(10*time.Millisecond))
	t.Cleanup(session.Close)

	session.Dispatch(context.Background(), editor.SaveWorkflow{Name: "Welcome"})

	time.Sleep(50 * time.Millisecond)

	assert.True(t, session.State().Issues.HasBlocking())
}

func TestSession_NewNoticeResetsExpiry(t *testing.T) {
	t.Parallel()

	machine := newTestMachine(t, testutil.NewMemoryPersistence())
	session := editor.NewSession(machine, editor.WithNoticeTTL(time.Hour))
	t.Cleanup(session.Close)

	session.Dispatch(context.Background(), editor.SetIssues{Issues: models.Issues{models.WarningIssue("first")}})
	session.Dispatch(context.Background(), editor.SetIssues{Issues: models.Issues{models.WarningIssue("second")}})

	assert.Equal(t, []string{"second"}, session.State().Issues.Messages())
}

func TestSession_Export(t *testing.T) {
	t.Parallel()

	machine := newTestMachine(t, testutil.NewMemoryPersistence())

	t.Run("valid graph", func(t *testing.T) {
		session := editor.NewSession(machine, editor.WithInitialState(validChainState()))
		t.Cleanup(session.Close)

		document, state := session.Export("Flow")

		require.NotNil(t, document)
		assert.Equal(t, "Flow", document.Name)
		assert.Empty(t, state.Issues)
	})

	t.Run("invalid graph publishes issues", func(t *testing.T) {
		session := editor.NewSession(machine)
		t.Cleanup(session.Close)

		document, state := session.Export("Flow")

		assert.Nil(t, document)
		assert.True(t, state.Issues.HasBlocking())
		assert.Equal(t, state.Issues, session.State().Issues)
	})
}

func TestSession_ConcurrentDispatch(t *testing.T) {
	t.Parallel()

	machine := newTestMachine(t, testutil.NewMemoryPersistence())
	session := editor.NewSession(machine)
	t.Cleanup(session.Close)

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			node := testutil.CreateTestNode(models.NodeKindFollowUser, testutil.WithID("follow-"+string(rune('A'+i))))
			session.Dispatch(context.Background(), editor.AddNode{Node: node})
		}()
	}

	wg.Wait()

	assert.Len(t, session.State().Nodes, 50)
}
