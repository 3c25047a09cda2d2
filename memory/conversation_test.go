package memory_test

import (
	"errors"
	"testing"

	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/petasbytes/nanocode/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolTurn(ids ...string) []llm.ContentBlock {
	blocks := []llm.ContentBlock{llm.Thinking("plan", "sig"), llm.Text("on it")}
	for _, id := range ids {
		blocks = append(blocks, llm.ToolUse(id, "glob", map[string]any{"pat": "*"}))
	}
	return blocks
}

func results(ids ...string) []llm.ContentBlock {
	var out []llm.ContentBlock
	for _, id := range ids {
		out = append(out, llm.ToolResult(id, "ok", false))
	}
	return out
}

func TestConversation_FullCycle(t *testing.T) {
	c := memory.New()
	require.Equal(t, memory.AwaitingUserInput, c.State())

	require.NoError(t, c.AppendUser("list files"))
	assert.Equal(t, memory.TurnInProgress, c.State())

	require.NoError(t, c.AppendAssistant(toolTurn("a", "b")))
	assert.Equal(t, memory.ToolsPending, c.State())
	assert.Equal(t, []string{"a", "b"}, c.Pending())

	require.NoError(t, c.AppendToolResults(results("a", "b")))
	assert.Equal(t, memory.TurnInProgress, c.State())

	require.NoError(t, c.AppendAssistant([]llm.ContentBlock{llm.Text("done")}))
	assert.Equal(t, memory.AwaitingUserInput, c.State())
	assert.Equal(t, 4, c.Len())

	snap := c.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, llm.RoleUser, snap[0].Role)
	assert.Equal(t, llm.RoleAssistant, snap[1].Role)
	assert.Len(t, snap[1].Content, 4, "assistant blocks are kept unfiltered")
	assert.Equal(t, llm.RoleUser, snap[2].Role)
	assert.Len(t, snap[2].ToolResults(), 2)
}

func TestConversation_ResultsInAnyOrderAccepted(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	require.NoError(t, c.AppendAssistant(toolTurn("a", "b")))
	require.NoError(t, c.AppendToolResults(results("b", "a")))
}

func TestConversation_PairingViolations(t *testing.T) {
	cases := map[string][]llm.ContentBlock{
		"missing":   results("a"),
		"orphaned":  results("a", "b", "zzz"),
		"duplicate": results("a", "a", "b"),
		"mixed":     append(results("a", "b"), llm.Text("extra")),
		"empty":     nil,
	}
	for name, res := range cases {
		t.Run(name, func(t *testing.T) {
			c := memory.New()
			require.NoError(t, c.AppendUser("x"))
			require.NoError(t, c.AppendAssistant(toolTurn("a", "b")))

			err := c.AppendToolResults(res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, llm.ErrProtocol))
			assert.Equal(t, 2, c.Len(), "rejected results must not be appended")
			assert.Equal(t, memory.ToolsPending, c.State())
		})
	}
}

func TestConversation_ToolResultWithoutToolUse(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	err := c.AppendToolResults(results("a"))
	assert.ErrorIs(t, err, llm.ErrProtocol)

	require.NoError(t, c.AppendAssistant([]llm.ContentBlock{llm.Text("hi")}))
	assert.ErrorIs(t, c.AppendToolResults(results("a")), llm.ErrProtocol)
}

func TestConversation_RejectsBadToolUseIDs(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	assert.ErrorIs(t, c.AppendAssistant(toolTurn("a", "a")), llm.ErrProtocol)
	assert.ErrorIs(t, c.AppendAssistant(toolTurn("")), llm.ErrProtocol)
	assert.Equal(t, 1, c.Len())
}

func TestConversation_OutOfOrderTransitions(t *testing.T) {
	c := memory.New()
	assert.ErrorIs(t, c.AppendAssistant([]llm.ContentBlock{llm.Text("hi")}), llm.ErrProtocol)

	require.NoError(t, c.AppendUser("a"))
	assert.ErrorIs(t, c.AppendUser("b"), llm.ErrProtocol)
}

func TestConversation_AbortKeepsHistory(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	c.Abort()
	assert.Equal(t, memory.AwaitingUserInput, c.State())
	assert.Equal(t, 1, c.Len())
	require.NoError(t, c.AppendUser("again"))
}

func TestConversation_ClearFromAnyState(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	require.NoError(t, c.AppendAssistant(toolTurn("a")))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, memory.AwaitingUserInput, c.State())
	assert.Empty(t, c.Pending())
	require.NoError(t, c.AppendUser("fresh"))
}

func TestConversation_SnapshotIsolation(t *testing.T) {
	c := memory.New()
	require.NoError(t, c.AppendUser("x"))
	snap := c.Snapshot()
	snap[0].Content[0].Text = "mutated"
	assert.Equal(t, "x", c.Snapshot()[0].Content[0].Text)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "tools_pending", memory.ToolsPending.String())
}
