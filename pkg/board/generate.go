package board

// This file implements move generation and the square-attacked oracle once, against
// the Position interface, so every representation package gets identical legality
// semantics by construction rather than by independently re-implementing them.

var knightOffsets = []Offset{
	NewOffset(1, 2), NewOffset(2, 1), NewOffset(2, -1), NewOffset(1, -2),
	NewOffset(-1, -2), NewOffset(-2, -1), NewOffset(-2, 1), NewOffset(-1, 2),
}

var kingOffsets = []Offset{
	NewOffset(0, 1), NewOffset(1, 1), NewOffset(1, 0), NewOffset(1, -1),
	NewOffset(0, -1), NewOffset(-1, -1), NewOffset(-1, 0), NewOffset(-1, 1),
}

var bishopDirections = []Offset{
	NewOffset(1, 1), NewOffset(1, -1), NewOffset(-1, -1), NewOffset(-1, 1),
}

var rookDirections = []Offset{
	NewOffset(0, 1), NewOffset(1, 0), NewOffset(0, -1), NewOffset(-1, 0),
}

var queenDirections = append(append([]Offset{}, bishopDirections...), rookDirections...)

// promotionKinds are the pieces a pawn may promote to, in the conventional listing
// order (most to least commonly chosen).
var promotionKinds = []Kind{Queen, Rook, Bishop, Knight}

// PseudoLegalMoves returns every move for the side to move that satisfies a piece's
// movement rule, without checking whether it leaves that side's own king in check.
func PseudoLegalMoves(pos Position) []Move {
	var moves []Move
	turn := pos.Turn()
	for _, pl := range pos.Pieces() {
		if pl.Piece.Color != turn {
			continue
		}
		moves = append(moves, pseudoLegalFrom(pos, pl.Square, pl.Piece)...)
	}
	return moves
}

// PieceLegalMoves returns the legal moves available to the piece on sq. Returns an
// ErrPieceNotFound error if sq is empty, or ErrWrongColor if the piece there does not
// belong to the side to move.
func PieceLegalMoves(pos Position, sq Square) ([]Move, error) {
	piece, ok := pos.At(sq)
	if !ok {
		return nil, newSquareError(ErrPieceNotFound, sq, "no piece on square")
	}
	if piece.Color != pos.Turn() {
		return nil, newSquareError(ErrWrongColor, sq, "piece does not belong to the side to move")
	}

	var legal []Move
	for _, m := range pseudoLegalFrom(pos, sq, piece) {
		if leavesKingSafe(pos, m) {
			legal = append(legal, m)
		}
	}
	return legal, nil
}

// LegalMoves returns every legal move for the side to move: pseudo-legal moves that, once
// applied, do not leave that side's own king in check.
func LegalMoves(pos Position) []Move {
	var legal []Move
	for _, m := range PseudoLegalMoves(pos) {
		if leavesKingSafe(pos, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsMoveLegal reports whether m is a legal move for the side to move in pos.
func IsMoveLegal(pos Position, m Move) bool {
	for _, l := range LegalMoves(pos) {
		if l == m {
			return true
		}
	}
	return false
}

// ApplyLegalMove applies m to pos after checking that it is legal, returning an
// ErrIllegalMove error instead of silently applying a move the side to move could not
// actually make. Position.ApplyMove itself performs no legality check (it is also used
// internally by the legality filter's clone-apply-check probe, which must be able to
// apply pseudo-legal moves that turn out to be illegal); callers taking moves from an
// untrusted source should use ApplyLegalMove instead.
func ApplyLegalMove(pos Position, m Move) (Position, error) {
	if !IsMoveLegal(pos, m) {
		return nil, newMoveError(ErrIllegalMove, m, "move is not legal in this position")
	}
	return pos.ApplyMove(m)
}

// leavesKingSafe clones pos, applies m, and checks that the mover's own king is not
// attacked afterward: the clone-apply-check pattern used throughout this module instead
// of a specialized pin/check-detector.
func leavesKingSafe(pos Position, m Move) bool {
	turn := pos.Turn()
	next, err := pos.ApplyMove(m)
	if err != nil {
		return false
	}
	return !IsAttacked(next, next.King(turn), turn.Opponent())
}

func pseudoLegalFrom(pos Position, sq Square, piece Piece) []Move {
	switch piece.Kind {
	case Pawn:
		return pawnMoves(pos, sq, piece.Color)
	case Knight:
		return jumpMoves(pos, sq, piece.Color, knightOffsets)
	case Bishop:
		return slideMoves(pos, sq, piece.Color, bishopDirections)
	case Rook:
		return slideMoves(pos, sq, piece.Color, rookDirections)
	case Queen:
		return slideMoves(pos, sq, piece.Color, queenDirections)
	case King:
		moves := jumpMoves(pos, sq, piece.Color, kingOffsets)
		moves = append(moves, castlingMoves(pos, sq, piece.Color)...)
		return moves
	default:
		return nil
	}
}

// occupancy classifies the square a piece could step to.
type occupancy int

const (
	occEmpty occupancy = iota
	occFriend
	occEnemy
)

func classify(pos Position, sq Square, mover Color) occupancy {
	p, ok := pos.At(sq)
	if !ok {
		return occEmpty
	}
	if p.Color == mover {
		return occFriend
	}
	return occEnemy
}

func jumpMoves(pos Position, from Square, mover Color, offsets []Offset) []Move {
	var moves []Move
	for _, o := range offsets {
		to, ok := from.Step(o)
		if !ok {
			continue
		}
		if classify(pos, to, mover) != occFriend {
			moves = append(moves, Move{Src: from, Dst: to})
		}
	}
	return moves
}

func slideMoves(pos Position, from Square, mover Color, directions []Offset) []Move {
	var moves []Move
	for _, dir := range directions {
		to, ok := from.Step(dir)
		for ok {
			switch classify(pos, to, mover) {
			case occEmpty:
				moves = append(moves, Move{Src: from, Dst: to})
				to, ok = to.Step(dir)
				continue
			case occEnemy:
				moves = append(moves, Move{Src: from, Dst: to})
			}
			break
		}
	}
	return moves
}

func pawnMoves(pos Position, from Square, mover Color) []Move {
	var moves []Move
	forward := NewOffset(0, 1).Mirror(mover)
	startRank := Rank2
	promoteRank := Rank8
	if mover == Black {
		startRank = Rank7
		promoteRank = Rank1
	}

	if one, ok := from.Step(forward); ok && classify(pos, one, mover) == occEmpty {
		moves = append(moves, addPawnMove(from, one, promoteRank)...)
		if from.Rank() == startRank {
			if two, ok := one.Step(forward); ok && classify(pos, two, mover) == occEmpty {
				moves = append(moves, Move{Src: from, Dst: two})
			}
		}
	}

	for _, capOffset := range []Offset{NewOffset(1, 1).Mirror(mover), NewOffset(-1, 1).Mirror(mover)} {
		to, ok := from.Step(capOffset)
		if !ok {
			continue
		}
		if classify(pos, to, mover) == occEnemy {
			moves = append(moves, addPawnMove(from, to, promoteRank)...)
			continue
		}
		if ep, epOK := pos.EnPassant(); epOK && ep == to {
			moves = append(moves, Move{Src: from, Dst: to})
		}
	}
	return moves
}

func addPawnMove(from, to Square, promoteRank Rank) []Move {
	if to.Rank() != promoteRank {
		return []Move{{Src: from, Dst: to}}
	}
	moves := make([]Move, 0, len(promotionKinds))
	for _, k := range promotionKinds {
		moves = append(moves, Move{Src: from, Dst: to, Promote: k})
	}
	return moves
}

// CastlingSquares returns the king's destination, the rook's source and destination, the
// transit square the king passes over (which must be unattacked along with kingTo), and
// the full set of squares between king and rook (which must all be empty). Exported so
// representation packages can apply the rook's half of a castling move without
// duplicating the geometry.
func CastlingSquares(c Color, side CastlingSide) (kingTo, rookFrom, rookTo, transit Square, between []Square) {
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	if side == KingSide {
		return NewSquare(FileG, rank), NewSquare(FileH, rank), NewSquare(FileF, rank), NewSquare(FileF, rank),
			[]Square{NewSquare(FileF, rank), NewSquare(FileG, rank)}
	}
	return NewSquare(FileC, rank), NewSquare(FileA, rank), NewSquare(FileD, rank), NewSquare(FileD, rank),
		[]Square{NewSquare(FileB, rank), NewSquare(FileC, rank), NewSquare(FileD, rank)}
}

func CastlingRight(c Color, side CastlingSide) Castling {
	switch {
	case c == White && side == KingSide:
		return WhiteKingSideCastle
	case c == White && side == QueenSide:
		return WhiteQueenSideCastle
	case c == Black && side == KingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

func castlingMoves(pos Position, from Square, mover Color) []Move {
	var moves []Move
	if IsAttacked(pos, from, mover.Opponent()) {
		return nil // cannot castle out of check
	}
	for _, side := range []CastlingSide{KingSide, QueenSide} {
		if !pos.Castling().IsAllowed(CastlingRight(mover, side)) {
			continue
		}
		kingTo, _, _, transit, between := CastlingSquares(mover, side)

		blocked := false
		for _, sq := range between {
			if _, ok := pos.At(sq); ok {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		if IsAttacked(pos, kingTo, mover.Opponent()) || IsAttacked(pos, transit, mover.Opponent()) {
			continue
		}
		moves = append(moves, Move{Src: from, Dst: kingTo})
	}
	return moves
}

// IsAttacked reports whether sq is attacked by a piece of color by, using the symmetric
// super-piece technique: for each piece kind, generate that kind's moves from sq as if a
// piece of that kind with color `by` stood there, and check whether a real attacker of
// that kind occupies one of the resulting squares. A pseudo-legal mover's own blocking
// rules are reused rather than duplicated.
func IsAttacked(pos Position, sq Square, by Color) bool {
	if attackerAt(pos, sq, knightOffsets, Knight, by) {
		return true
	}
	if attackerAt(pos, sq, kingOffsets, King, by) {
		return true
	}
	if slideAttacked(pos, sq, bishopDirections, []Kind{Bishop, Queen}, by) {
		return true
	}
	if slideAttacked(pos, sq, rookDirections, []Kind{Rook, Queen}, by) {
		return true
	}
	// Pawn attacks: a pawn of `by` attacks diagonally forward from its own perspective,
	// which from sq's perspective looks like stepping diagonally forward for the
	// opposite color.
	for _, capOffset := range []Offset{NewOffset(1, 1).Mirror(by.Opponent()), NewOffset(-1, 1).Mirror(by.Opponent())} {
		to, ok := sq.Step(capOffset)
		if !ok {
			continue
		}
		if p, found := pos.At(to); found && p.Color == by && p.Kind == Pawn {
			return true
		}
	}
	return false
}

// IsChecked reports whether c's own king is currently attacked.
func IsChecked(pos Position, c Color) bool {
	return IsAttacked(pos, pos.King(c), c.Opponent())
}

func attackerAt(pos Position, sq Square, offsets []Offset, kind Kind, by Color) bool {
	for _, o := range offsets {
		to, ok := sq.Step(o)
		if !ok {
			continue
		}
		if p, found := pos.At(to); found && p.Color == by && p.Kind == kind {
			return true
		}
	}
	return false
}

func slideAttacked(pos Position, sq Square, directions []Offset, kinds []Kind, by Color) bool {
	for _, dir := range directions {
		to, ok := sq.Step(dir)
		for ok {
			if p, found := pos.At(to); found {
				if p.Color == by && containsKind(kinds, p.Kind) {
					return true
				}
				break
			}
			to, ok = to.Step(dir)
		}
	}
	return false
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
