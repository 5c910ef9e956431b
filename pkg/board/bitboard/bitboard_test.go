package bitboard_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/bitboard"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPositionHasTwentyLegalMoves(t *testing.T) {
	pos := bitboard.StartingPosition()
	assert.Len(t, board.LegalMoves(pos), 20)
	assert.Equal(t, fen.Initial, pos.FEN())
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	pos := bitboard.StartingPosition()
	var cur board.Position = pos
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := board.ParseMove(mv)
		require.NoError(t, err)
		require.True(t, board.IsMoveLegal(cur, m))
		next, err := cur.ApplyMove(m)
		require.NoError(t, err)
		cur = next
	}
	assert.Equal(t, board.Checkmate, board.Classify(cur))
}

// TestFastAttackerLookupAgreesWithGenericOracle cross-checks the rotated-bitboard
// Attackers/IsAttackedFast path against the representation-agnostic board.IsAttacked
// oracle every move-generation path actually relies on, for every square in a
// mid-game-like position.
func TestFastAttackerLookupAgreesWithGenericOracle(t *testing.T) {
	pos, err := bitboard.FromFEN("r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR b KQkq - 2 3")
	require.NoError(t, err)

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		for _, by := range []board.Color{board.White, board.Black} {
			assert.Equal(t, board.IsAttacked(pos, sq, by), pos.IsAttackedFast(sq, by),
				"square %v attacked-by-%v mismatch", sq, by)
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := bitboard.FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)

	m, err := board.ParseMove("e5d6")
	require.NoError(t, err)
	require.True(t, board.IsMoveLegal(pos, m))

	next, err := pos.ApplyMove(m)
	require.NoError(t, err)
	_, captured := next.At(board.D5)
	assert.False(t, captured)
}
