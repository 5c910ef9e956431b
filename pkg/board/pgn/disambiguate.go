package pgn

import (
	"fmt"

	"github.com/herohde/morlock/pkg/board"
)

// Resolve intersects an AmbiguousMove parsed from SAN text against pos's legal moves and
// returns the single concrete board.Move it denotes. It returns an ErrImpossibleMove if no
// legal move matches, and an ErrAmbiguousMove if more than one does — mirroring how a human
// reader disambiguates SAN: by elimination against the legal moves in the position, not by
// reparsing the board.
func Resolve(pos board.Position, am board.AmbiguousMove) (board.Move, error) {
	if am.Castle {
		return resolveCastle(pos, am)
	}

	var matches []board.Move
	for _, m := range board.LegalMoves(pos) {
		piece, ok := pos.At(m.Src)
		if !ok || piece.Kind != am.Kind || piece.Color != pos.Turn() {
			continue
		}
		if m.Dst != am.Dst {
			continue
		}
		if am.Promote != board.NoKind && m.Promote != am.Promote {
			continue
		}
		if am.HasFile && m.Src.File() != am.SrcFile {
			continue
		}
		if am.HasRank && m.Src.Rank() != am.SrcRank {
			continue
		}
		if am.Takes && !isCapture(pos, m) {
			continue
		}
		matches = append(matches, m)
	}

	if am.Action != board.NoAction && len(matches) > 1 {
		matches = filterByAction(pos, matches, am.Action)
	}

	switch len(matches) {
	case 0:
		return board.Move{}, &board.Error{
			Kind: board.ErrImpossibleMove, Message: "no legal move matches this SAN token",
			AmbiguousMove: am, HasAmbiguous: true,
		}
	case 1:
		return matches[0], nil
	default:
		return board.Move{}, &board.Error{
			Kind:          board.ErrAmbiguousMove,
			Message:       fmt.Sprintf("%d legal moves match this SAN token", len(matches)),
			AmbiguousMove: am, HasAmbiguous: true,
		}
	}
}

// filterByAction narrows candidates down to those whose resulting check/checkmate status
// matches the decorated SAN's +/# suffix, per spec's "match it when present" disambiguation
// rule for action suffixes.
func filterByAction(pos board.Position, candidates []board.Move, action board.MoveAction) []board.Move {
	var filtered []board.Move
	for _, m := range candidates {
		if resultingAction(pos, m) == action {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return candidates // the suffix did not help narrow things down; fall back
	}
	return filtered
}

func resultingAction(pos board.Position, m board.Move) board.MoveAction {
	next, err := pos.ApplyMove(m)
	if err != nil {
		return board.NoAction
	}
	opp := next.Turn()
	if !board.IsChecked(next, opp) {
		return board.NoAction
	}
	if len(board.LegalMoves(next)) == 0 {
		return board.ActionCheckmate
	}
	return board.ActionCheck
}

// isCapture reports whether m captures a piece: either a piece sits on m.Dst already, or
// m is an en passant capture (a pawn moving diagonally onto the active en passant target).
func isCapture(pos board.Position, m board.Move) bool {
	if _, occupied := pos.At(m.Dst); occupied {
		return true
	}
	piece, ok := pos.At(m.Src)
	if !ok || piece.Kind != board.Pawn || m.Src.File() == m.Dst.File() {
		return false
	}
	ep, hasEP := pos.EnPassant()
	return hasEP && m.Dst == ep
}

func resolveCastle(pos board.Position, am board.AmbiguousMove) (board.Move, error) {
	kingTo, _, _, _, _ := board.CastlingSquares(pos.Turn(), am.Side)
	king := pos.King(pos.Turn())
	for _, m := range board.LegalMoves(pos) {
		if m.Src == king && m.Dst == kingTo {
			return m, nil
		}
	}
	return board.Move{}, &board.Error{
		Kind: board.ErrImpossibleMove, Message: "castling is not legal in this position",
		AmbiguousMove: am, HasAmbiguous: true,
	}
}

// ResolveGame replays a parsed Game's mainline against start, resolving each SAN token in
// turn and applying it, returning the resulting sequence of concrete moves and the final
// position. It stops and returns an error at the first token that cannot be resolved, since
// every later token's meaning depends on the position reached by the ones before it.
func ResolveGame(start board.Position, g *Game) ([]board.Move, board.Position, error) {
	pos := start
	moves := make([]board.Move, 0, len(g.Moves))
	for i, am := range g.Moves {
		m, err := Resolve(pos, am)
		if err != nil {
			return nil, nil, fmt.Errorf("pgn: move %d: %w", i+1, err)
		}
		next, err := pos.ApplyMove(m)
		if err != nil {
			return nil, nil, fmt.Errorf("pgn: move %d: %w", i+1, err)
		}
		moves = append(moves, m)
		pos = next
	}
	return moves, pos, nil
}
