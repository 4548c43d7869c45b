package rules

import (
	"sort"
	"testing"

	"github.com/Bibelott/cherver/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPos(t *testing.T, fen string) Position {
	t.Helper()
	pos, _, _, err := NewPosition(fen)
	require.NoError(t, err)
	return pos
}

func sortedStrings(sqs []board.Square) []string {
	var ret []string
	for _, sq := range sqs {
		ret = append(ret, sq.String())
	}
	sort.Strings(ret)
	return ret
}

func TestPawnStartingRankTwoForwardCandidates(t *testing.T) {
	pos := mustPos(t, "8/8/8/8/8/8/4P3/4K2k w - - 0 1")
	sq, _ := board.ParseSquare("e2")
	dests := pseudoLegalFrom(&pos, sq)
	assert.ElementsMatch(t, []string{"e3", "e4"}, sortedStrings(dests))
}

func TestPawnBlockedHasNoForwardCandidates(t *testing.T) {
	pos := mustPos(t, "8/8/8/8/8/4p3/4P3/4K2k w - - 0 1")
	sq, _ := board.ParseSquare("e2")
	dests := pseudoLegalFrom(&pos, sq)
	assert.Empty(t, dests)
}

func TestKingCastleBlockedQueensideSquareOccupied(t *testing.T) {
	pos := mustPos(t, "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1")
	sq, _ := board.ParseSquare("e1")
	dests := pseudoLegalFrom(&pos, sq)
	for _, d := range dests {
		assert.NotEqual(t, "c1", d.String())
	}
}

func TestKingCastleAvailableBothSides(t *testing.T) {
	pos := mustPos(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	sq, _ := board.ParseSquare("e1")
	dests := sortedStrings(pseudoLegalFrom(&pos, sq))
	assert.Contains(t, dests, "c1")
	assert.Contains(t, dests, "g1")
}

func TestLegalMovesExcludeMovesThatExposeKing(t *testing.T) {
	// White king on e1, white rook pinned on e2 by black rook on e8.
	pos := mustPos(t, "k3r3/8/8/8/8/8/4R3/4K3 w - - 0 1")
	legal := LegalMoves(&pos, board.White)
	sq, _ := board.ParseSquare("e2")
	for _, d := range legal[sq] {
		assert.Equal(t, 4, d.File(), "pinned rook may only move along the e-file")
	}
}

func TestLegalMovesExcludeCastleThroughCheck(t *testing.T) {
	// Black rook on f8 attacks f1, the square the white king would cross kingside.
	pos := mustPos(t, "k4r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	legal := LegalMoves(&pos, board.White)
	sq, _ := board.ParseSquare("e1")
	for _, d := range legal[sq] {
		assert.NotEqual(t, "g1", d.String())
	}
}

func TestCaptureOnRookCornerClearsRightsEvenForNonOwner(t *testing.T) {
	pos := mustPos(t, "k7/8/8/8/8/8/6b1/R3K2R b KQ - 0 1")
	m := board.Move{}
	m.From, _ = board.ParseSquare("g2")
	m.To, _ = board.ParseSquare("h1")
	progress := applyMove(&pos, m)
	assert.True(t, progress)
	assert.False(t, pos.Castling.IsAllowed(board.WhiteKingSideCastle))
	assert.True(t, pos.Castling.IsAllowed(board.WhiteQueenSideCastle))
}
