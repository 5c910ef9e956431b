// Package mailbox is the piece-list Position implementation: an 8x8 array of pieces
// indexed directly by square. It favors simple, obviously-correct code over the bitboard
// package's speed.
package mailbox

import (
	"fmt"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
)

// Position is the piece-list board.Position implementation.
type Position struct {
	squares  [board.NumSquares]board.Piece
	occupied [board.NumSquares]bool

	turn     board.Color
	castling board.Castling
	ep       board.Square
	hasEP    bool
	halfmove int
	fullmove int

	history []uint64
}

var _ board.Position = (*Position)(nil)

// New builds a Position from placements and metadata, validating exactly one king per
// side is present and the kings are not adjacent, matching the teacher's NewPosition
// invariant checks.
func New(pieces []board.Placement, meta fen.Metadata) (*Position, error) {
	p := &Position{
		turn:     meta.Turn,
		castling: meta.Castling,
		ep:       meta.EnPassant,
		hasEP:    meta.HasEnPassant,
		halfmove: meta.HalfmoveClock,
		fullmove: meta.FullmoveNumber,
	}
	for _, pl := range pieces {
		if p.occupied[pl.Square] {
			return nil, &board.Error{Kind: board.ErrInvalidPosition, Message: fmt.Sprintf("duplicate placement on %v", pl.Square)}
		}
		p.squares[pl.Square] = pl.Piece
		p.occupied[pl.Square] = true
	}

	var kings [board.NumColors]int
	for c := board.ZeroColor; c < board.NumColors; c++ {
		kings[c] = 0
	}
	for _, pl := range pieces {
		if pl.Piece.Kind == board.King {
			kings[pl.Piece.Color]++
		}
	}
	if kings[board.White] != 1 || kings[board.Black] != 1 {
		return nil, &board.Error{Kind: board.ErrInvalidPosition, Message: "position must have exactly one king per side"}
	}
	wk, bk := p.King(board.White), p.King(board.Black)
	if fileDelta := absDelta(int(wk.File()), int(bk.File())); fileDelta <= 1 {
		if rankDelta := absDelta(int(wk.Rank()), int(bk.Rank())); rankDelta <= 1 {
			return nil, &board.Error{Kind: board.ErrInvalidPosition, Message: "kings cannot be adjacent"}
		}
	}
	p.history = []uint64{p.Digest()}
	return p, nil
}

// StartingPosition returns the standard chess starting position.
func StartingPosition() *Position {
	p, err := New(board.StartingPlacements(), fen.Metadata{
		Turn:           board.White,
		Castling:       board.FullCastingRights,
		HalfmoveClock:  0,
		FullmoveNumber: 1,
	})
	if err != nil {
		panic(err) // the starting placement is always valid
	}
	return p
}

// FromFEN decodes a FEN record into a Position.
func FromFEN(record string) (*Position, error) {
	pieces, meta, err := fen.Decode(record)
	if err != nil {
		return nil, err
	}
	return New(pieces, meta)
}

// FEN encodes the position back into a FEN record.
func (p *Position) FEN() string {
	return fen.Encode(p.Pieces(), fen.Metadata{
		Turn:           p.turn,
		Castling:       p.castling,
		EnPassant:      p.ep,
		HasEnPassant:   p.hasEP,
		HalfmoveClock:  p.halfmove,
		FullmoveNumber: p.fullmove,
	})
}

func (p *Position) Turn() board.Color { return p.turn }

func (p *Position) At(sq board.Square) (board.Piece, bool) {
	return p.squares[sq], p.occupied[sq]
}

func (p *Position) Pieces() []board.Placement {
	var ret []board.Placement
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if p.occupied[sq] {
			ret = append(ret, board.Placement{Square: sq, Piece: p.squares[sq]})
		}
	}
	return ret
}

func (p *Position) King(c board.Color) board.Square {
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if p.occupied[sq] && p.squares[sq].Kind == board.King && p.squares[sq].Color == c {
			return sq
		}
	}
	return board.NoSquare
}

func (p *Position) Castling() board.Castling { return p.castling }

func (p *Position) EnPassant() (board.Square, bool) { return p.ep, p.hasEP }

func (p *Position) HalfmoveClock() int { return p.halfmove }

func (p *Position) FullmoveNumber() int { return p.fullmove }

func (p *Position) Digest() uint64 {
	return board.Digest(p.Pieces(), p.turn, p.castling, p.ep, p.hasEP)
}

func (p *Position) History() []uint64 {
	ret := make([]uint64, len(p.history))
	copy(ret, p.history)
	return ret
}

// ApplyMove returns a new Position with m applied. It detects capture, en passant,
// castling, and double pawn pushes contextually from the current placement, rather than
// from metadata on m, following malbrecht-chess's MakeMove value-receiver approach: the
// receiver is left untouched and a full copy is returned.
func (p *Position) ApplyMove(m board.Move) (board.Position, error) {
	piece, ok := p.At(m.Src)
	if !ok {
		return nil, &board.Error{Kind: board.ErrPieceNotFound, Message: fmt.Sprintf("no piece on %v", m.Src), Square: m.Src, HasSquare: true}
	}

	next := *p // array fields copy by value
	next.hasEP = false

	isCapture := next.occupied[m.Dst]
	isPawn := piece.Kind == board.Pawn
	isDoublePush := isPawn && absRankDelta(m.Src, m.Dst) == 2
	isEnPassant := isPawn && !isCapture && m.Src.File() != m.Dst.File()

	next.clear(m.Src)
	if isEnPassant {
		capturedSq := board.NewSquare(m.Dst.File(), m.Src.Rank())
		next.clear(capturedSq)
	}

	placed := piece
	if m.Promote != board.NoKind {
		placed = board.Piece{Kind: m.Promote, Color: piece.Color}
	}
	next.set(m.Dst, placed)

	if piece.Kind == board.King {
		if side, isCastle := castlingSide(p.turn, m); isCastle {
			_, rookFrom, rookTo, _, _ := board.CastlingSquares(p.turn, side)
			rook, _ := next.At(rookFrom)
			next.clear(rookFrom)
			next.set(rookTo, rook)
		}
		next.castling &^= kingSideRight(piece.Color) | queenSideRight(piece.Color)
	}
	if piece.Kind == board.Rook {
		next.castling &^= rookMoveRight(piece.Color, m.Src)
	}
	if isCapture {
		next.castling &^= rookMoveRight(piece.Color.Opponent(), m.Dst)
	}

	if isDoublePush {
		mid := board.NewSquare(m.Src.File(), (m.Src.Rank()+m.Dst.Rank())/2)
		next.ep, next.hasEP = mid, true
	}

	if isPawn || isCapture {
		next.halfmove = 0
	} else {
		next.halfmove++
	}

	if p.turn == board.Black {
		next.fullmove++
	}
	next.turn = p.turn.Opponent()

	irreversible := isPawn || isCapture || next.castling != p.castling
	next.history = board.NextHistory(p.history, irreversible, next.Digest())

	return &next, nil
}

func (p *Position) clear(sq board.Square) {
	p.occupied[sq] = false
	p.squares[sq] = board.NoPiece
}

func (p *Position) set(sq board.Square, piece board.Piece) {
	p.occupied[sq] = true
	p.squares[sq] = piece
}

// castlingSide reports whether m is the king's half of a castling move for color c, and
// which side, by comparing its destination against the two possible castling squares.
func castlingSide(c board.Color, m board.Move) (board.CastlingSide, bool) {
	df := int(m.Dst.File()) - int(m.Src.File())
	if df != 2 && df != -2 {
		return 0, false // castling is the only two-square king move
	}
	for _, side := range []board.CastlingSide{board.KingSide, board.QueenSide} {
		kingTo, _, _, _, _ := board.CastlingSquares(c, side)
		if kingTo == m.Dst {
			return side, true
		}
	}
	return 0, false
}

func absRankDelta(a, b board.Square) int {
	return absDelta(int(a.Rank()), int(b.Rank()))
}

func absDelta(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}

func kingSideRight(c board.Color) board.Castling {
	if c == board.White {
		return board.WhiteKingSideCastle
	}
	return board.BlackKingSideCastle
}

func queenSideRight(c board.Color) board.Castling {
	if c == board.White {
		return board.WhiteQueenSideCastle
	}
	return board.BlackQueenSideCastle
}

func rookMoveRight(c board.Color, sq board.Square) board.Castling {
	rank := board.Rank1
	if c == board.Black {
		rank = board.Rank8
	}
	if sq.Rank() != rank {
		return 0
	}
	switch sq.File() {
	case board.FileA:
		return queenSideRight(c)
	case board.FileH:
		return kingSideRight(c)
	default:
		return 0
	}
}

func (p *Position) String() string {
	return p.FEN()
}
