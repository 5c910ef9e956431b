package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.True(t, board.Rank1.IsValid())
	assert.True(t, board.Rank3.IsValid())
	assert.True(t, board.Rank8.IsValid())
	assert.False(t, board.Rank(8).IsValid())

	assert.Equal(t, board.Rank1.String(), "1")
	assert.Equal(t, board.Rank7.String(), "7")
	assert.Equal(t, board.Rank(4).String(), "5")
}

func TestFile(t *testing.T) {
	assert.True(t, board.FileA.IsValid())
	assert.True(t, board.FileB.IsValid())
	assert.True(t, board.FileH.IsValid())
	assert.False(t, board.File(8).IsValid())

	assert.Equal(t, board.FileA.String(), "A")
	assert.Equal(t, board.FileG.String(), "G")
	assert.Equal(t, board.File(3).String(), "E")
}

func TestSquare(t *testing.T) {
	assert.Equal(t, board.C2, board.NewSquare(board.FileC, board.Rank2))
	assert.Equal(t, board.G5, board.NewSquare(board.FileG, board.Rank5))

	assert.True(t, board.H1.IsValid())
	assert.True(t, board.D4.IsValid())
	assert.True(t, board.A8.IsValid())
	assert.False(t, board.Square(64).IsValid())

	assert.Equal(t, board.H1.String(), "H1")
	assert.Equal(t, board.A1.String(), "A1")
	assert.Equal(t, board.Square(3).String(), "E1")
}

func TestSquareStep(t *testing.T) {
	e4, err := board.ParseSquareStr("e4")
	assert.NoError(t, err)

	e5, ok := e4.Step(board.NewOffset(0, 1))
	assert.True(t, ok)
	assert.Equal(t, "E5", e5.String())

	_, ok = board.A1.Step(board.NewOffset(-1, 0))
	assert.False(t, ok, "stepping off the a-file must report overflow")

	_, ok = board.H8.Step(board.NewOffset(0, 1))
	assert.False(t, ok, "stepping off the 8th rank must report overflow")
}

func TestOffsetMirror(t *testing.T) {
	o := board.NewOffset(1, 1)
	assert.Equal(t, board.NewOffset(1, 1), o.Mirror(board.White))
	assert.Equal(t, board.NewOffset(1, -1), o.Mirror(board.Black))
}
