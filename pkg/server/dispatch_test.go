package server

import (
	"testing"

	"github.com/Bibelott/cherver/pkg/board"
	"github.com/Bibelott/cherver/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMovesQuery(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	result := Dispatch(g, "moves e2")
	assert.False(t, result.Accepted)
	assert.Contains(t, result.Reply, "moves e2 ")
	assert.Contains(t, result.Reply, "e3")
	assert.Contains(t, result.Reply, "e4")
}

func TestDispatchMovesQueryUnknownSquare(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	result := Dispatch(g, "moves zz")
	assert.Equal(t, "no", result.Reply)
	assert.False(t, result.Accepted)
}

func TestDispatchAcceptedMove(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	result := Dispatch(g, "e2e4")
	assert.True(t, result.Accepted)
	assert.Equal(t, "ok", result.Reply)
	assert.Equal(t, "e2e4", result.Broadcast)
	assert.Equal(t, rules.Ongoing, result.Outcome)
}

func TestDispatchIllegalMove(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	result := Dispatch(g, "e2e5")
	assert.False(t, result.Accepted)
	assert.Equal(t, "no", result.Reply)
	assert.Equal(t, board.White, g.Turn())
}

func TestDispatchGarbageMessage(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	result := Dispatch(g, "hello world")
	assert.Equal(t, "no", result.Reply)
	assert.False(t, result.Accepted)
}

func TestDispatchCheckmateEndsGame(t *testing.T) {
	g, err := rules.NewGame("")
	require.NoError(t, err)

	require.True(t, Dispatch(g, "f2f3").Accepted)
	require.True(t, Dispatch(g, "e7e5").Accepted)
	require.True(t, Dispatch(g, "g2g4").Accepted)

	result := Dispatch(g, "d8h4")
	assert.True(t, result.Accepted)
	assert.Equal(t, "ok#", result.Reply)
	assert.Equal(t, "d8h4#", result.Broadcast)
	assert.Equal(t, rules.Checkmate, result.Outcome)
	assert.True(t, g.Ended)
}
