package pgn_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/mailbox"
	"github.com/herohde/morlock/pkg/board/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `[Event "Casual Game"]
[Site "New York, NY USA"]
[Date "1956.10.17"]
[White "Donald Byrne"]
[Black "Robert James Fischer"]
[Result "0-1"]

`

func TestParseGameReadsTagsAndMoves(t *testing.T) {
	g, err := pgn.ParseGame(sampleHeader + `1. Nf3 Nf6 2. c4 g6 {a comment} 3. Nc3 Bg7 *`)
	require.NoError(t, err)

	event, ok := g.Tag("Event")
	require.True(t, ok)
	assert.Equal(t, "Casual Game", event)

	require.Len(t, g.Moves, 6)
	assert.Equal(t, board.Knight, g.Moves[0].Kind)
	assert.Equal(t, board.Pawn, g.Moves[2].Kind) // c4 is a pawn move
}

func TestResolveGameReplaysFoolsMate(t *testing.T) {
	g, err := pgn.ParseGame(`1. f3 e5 2. g4 Qh4# 0-1`)
	require.NoError(t, err)

	moves, final, err := pgn.ResolveGame(mailbox.StartingPosition(), g)
	require.NoError(t, err)
	require.Len(t, moves, 4)
	assert.Equal(t, board.Checkmate, board.Classify(final))
}

// TestResolveGameReplaysGameOfTheCentury plays the full Byrne-Fischer 1956 game,
// resolving every SAN token against the running position, and checks the historical
// final position: White is checkmated on move 41 by ...Rc2#.
func TestResolveGameReplaysGameOfTheCentury(t *testing.T) {
	const movetext = `1. Nf3 Nf6 2. c4 g6 3. Nc3 Bg7 4. d4 O-O 5. Bf4 d5 6. Qb3 dxc4
7. Qxc4 c6 8. e4 Nbd7 9. Rd1 Nb6 10. Qc5 Bg4 11. Bg5 Na4 12. Qa3 Nxc3
13. bxc3 Nxe4 14. Bxe7 Qb6 15. Bc4 Nxc3 16. Bc5 Rfe8+ 17. Kf1 Be6
18. Bxb6 Bxc4+ 19. Kg1 Ne2+ 20. Kf1 Nxd4+ 21. Kg1 Ne2+ 22. Kf1 Nc3+
23. Kg1 axb6 24. Qb4 Ra4 25. Qxb6 Nxd1 26. h3 Rxa2 27. Kh2 Nxf2
28. Re1 Rxe1 29. Qd8+ Bf8 30. Nxe1 Bd5 31. Nf3 Ne4 32. Qb8 b5
33. h4 h5 34. Ne5 Kg7 35. Kg1 Bc5+ 36. Kf1 Ng3+ 37. Ke1 Bb4+
38. Kd1 Bb3+ 39. Kc1 Ne2+ 40. Kb1 Nc3+ 41. Kc1 Rc2# 0-1`

	g, err := pgn.ParseGame(sampleHeader + movetext)
	require.NoError(t, err)

	_, final, err := pgn.ResolveGame(mailbox.StartingPosition(), g)
	require.NoError(t, err)

	assert.Equal(t, board.C1, final.King(board.White))
	assert.Equal(t, board.G7, final.King(board.Black))
	assert.Equal(t, board.Checkmate, board.Classify(final))
}

func TestResolveRejectsAmbiguousSAN(t *testing.T) {
	pos, err := mailbox.FromFEN("4k3/8/8/8/8/8/R6R/4K3 w - - 0 1")
	require.NoError(t, err)

	am, err := board.ParseSAN("Rd2")
	require.NoError(t, err)

	_, err = pgn.Resolve(pos, am)
	assert.Error(t, err)
}

func TestResolveDisambiguatesByFile(t *testing.T) {
	pos, err := mailbox.FromFEN("4k3/8/8/8/8/8/R6R/4K3 w - - 0 1")
	require.NoError(t, err)

	am, err := board.ParseSAN("Rad2")
	require.NoError(t, err)

	m, err := pgn.Resolve(pos, am)
	require.NoError(t, err)
	assert.Equal(t, board.A2, m.Src)
	assert.Equal(t, board.D2, m.Dst)
}
