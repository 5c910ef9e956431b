package mailbox_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/board/mailbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPositionHasTwentyLegalMoves(t *testing.T) {
	pos := mailbox.StartingPosition()
	assert.Len(t, board.LegalMoves(pos), 20)
	assert.Equal(t, fen.Initial, pos.FEN())
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	pos := mailbox.StartingPosition()
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := board.ParseMove(mv)
		require.NoError(t, err)
		require.True(t, board.IsMoveLegal(pos, m), "%v should be legal", mv)
		next, err := pos.ApplyMove(m)
		require.NoError(t, err)
		pos = next.(*mailbox.Position)
	}
	assert.Equal(t, board.Checkmate, board.Classify(pos))
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: Black king boxed into a8 with no legal move and not in check.
	pieces, meta, err := fen.Decode("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	assert.Empty(t, board.LegalMoves(pos))
	assert.False(t, board.IsChecked(pos, board.Black))
	assert.Equal(t, board.Stalemate, board.Classify(pos))
}

func TestCastlingRequiresClearPathAndSafety(t *testing.T) {
	pieces, meta, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	kingSide, err := board.ParseMove("e1g1")
	require.NoError(t, err)
	queenSide, err := board.ParseMove("e1c1")
	require.NoError(t, err)
	assert.True(t, board.IsMoveLegal(pos, kingSide))
	assert.True(t, board.IsMoveLegal(pos, queenSide))

	next, err := pos.ApplyMove(kingSide)
	require.NoError(t, err)
	rook, ok := next.At(board.F1)
	require.True(t, ok)
	assert.Equal(t, board.Rook, rook.Kind)
}

func TestCastlingBlockedThroughCheck(t *testing.T) {
	// Black rook on f8 attacks f1, the square the White king must cross to castle
	// kingside; queenside remains legal.
	pieces, meta, err := fen.Decode("1k3r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	kingSide, err := board.ParseMove("e1g1")
	require.NoError(t, err)
	queenSide, err := board.ParseMove("e1c1")
	require.NoError(t, err)
	assert.False(t, board.IsMoveLegal(pos, kingSide))
	assert.True(t, board.IsMoveLegal(pos, queenSide))
}

func TestEnPassantCapture(t *testing.T) {
	pieces, meta, err := fen.Decode("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	m, err := board.ParseMove("e5d6")
	require.NoError(t, err)
	require.True(t, board.IsMoveLegal(pos, m))

	next, err := pos.ApplyMove(m)
	require.NoError(t, err)
	_, captured := next.At(board.D5)
	assert.False(t, captured, "the captured pawn must be removed from its own square")
	pawn, ok := next.At(board.D6)
	require.True(t, ok)
	assert.Equal(t, board.Pawn, pawn.Kind)
}

func TestPromotionExpandsToFourChoices(t *testing.T) {
	pieces, meta, err := fen.Decode("8/4P2k/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	moves, err := board.PieceLegalMoves(pos, board.E7)
	require.NoError(t, err)
	assert.Len(t, moves, 4)

	m, err := board.ParseMove("e7e8q")
	require.NoError(t, err)
	next, err := pos.ApplyMove(m)
	require.NoError(t, err)
	queen, ok := next.At(board.E8)
	require.True(t, ok)
	assert.Equal(t, board.Queen, queen.Kind)
}

func TestFiftyMoveDraw(t *testing.T) {
	pieces, meta, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 99 60")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	m, err := board.ParseMove("e1d1")
	require.NoError(t, err)
	next, err := pos.ApplyMove(m)
	require.NoError(t, err)
	assert.Equal(t, board.DrawByFiftyMoves, board.Classify(next))
}

func TestThreefoldRepetition(t *testing.T) {
	pos := mailbox.StartingPosition()

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	var cur board.Position = pos
	for _, mv := range shuffle {
		m, err := board.ParseMove(mv)
		require.NoError(t, err)
		next, err := cur.ApplyMove(m)
		require.NoError(t, err)
		cur = next
	}

	assert.Len(t, cur.History(), len(shuffle)+1, "none of the knight shuffles are irreversible")
	assert.Equal(t, board.DrawByRepetition, board.Classify(cur))
}

func TestInsufficientMaterial(t *testing.T) {
	pieces, meta, err := fen.Decode("4k3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	assert.Equal(t, board.DrawByInsufficientMaterial, board.Classify(pos))
}

func TestApplyMoveOnUnoccupiedSquareErrors(t *testing.T) {
	pos := mailbox.StartingPosition()
	m, err := board.ParseMove("e4e5")
	require.NoError(t, err)

	_, err = pos.ApplyMove(m)
	require.Error(t, err)
	var berr *board.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, board.ErrPieceNotFound, berr.Kind)
}

func TestSANRendersCastling(t *testing.T) {
	pieces, meta, err := fen.Decode("4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)
	pos, err := mailbox.New(pieces, meta)
	require.NoError(t, err)

	m, err := board.ParseMove("e1g1")
	require.NoError(t, err)
	san, err := board.SAN(pos, m)
	require.NoError(t, err)
	assert.Equal(t, "O-O", san)
}
