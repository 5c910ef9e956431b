// Package fen reads and writes the six-field FEN position record. It is representation
// agnostic: Decode returns plain placements and metadata, and either board
// representation package builds its own concrete Position from the result.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/morlock/pkg/board"
)

// Initial is the FEN for the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Metadata is the game-state portion of a FEN record that isn't piece placement.
type Metadata struct {
	Turn           board.Color
	Castling       board.Castling
	EnPassant      board.Square
	HasEnPassant   bool
	HalfmoveClock  int
	FullmoveNumber int
}

// Decode parses a FEN record into placements and metadata.
//
// Example: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) ([]board.Placement, Metadata, error) {
	parts := strings.Fields(strings.TrimSpace(fen))
	if len(parts) != 6 {
		return nil, Metadata{}, invalidFEN(fmt.Sprintf("expected 6 fields, got %d: %q", len(parts), fen))
	}

	pieces, err := decodePlacement(parts[0])
	if err != nil {
		return nil, Metadata{}, err
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, Metadata{}, invalidFEN(fmt.Sprintf("invalid active color: %q", parts[1]))
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, Metadata{}, invalidFEN(fmt.Sprintf("invalid castling field: %q", parts[2]))
	}

	var ep board.Square
	hasEP := false
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, Metadata{}, invalidFEN(fmt.Sprintf("invalid en passant square: %q", parts[3]))
		}
		ep, hasEP = sq, true
	}

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, Metadata{}, invalidFEN(fmt.Sprintf("invalid halfmove clock: %q", parts[4]))
	}

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, Metadata{}, invalidFEN(fmt.Sprintf("invalid fullmove number: %q", parts[5]))
	}

	return pieces, Metadata{
		Turn:           turn,
		Castling:       castling,
		EnPassant:      ep,
		HasEnPassant:   hasEP,
		HalfmoveClock:  halfmove,
		FullmoveNumber: fullmove,
	}, nil
}

func decodePlacement(field string) ([]board.Placement, error) {
	var pieces []board.Placement

	sq := board.A8
	for _, r := range field {
		switch {
		case r == '/':
			// rank separator, cosmetic
		case unicode.IsDigit(r):
			sq -= board.Square(r - '0')
		case unicode.IsLetter(r):
			piece, ok := parsePiece(r)
			if !ok {
				return nil, invalidFEN(fmt.Sprintf("invalid piece letter %q", r))
			}
			pieces = append(pieces, board.Placement{Square: sq, Piece: piece})
			sq--
		default:
			return nil, invalidFEN(fmt.Sprintf("invalid character %q in piece placement", r))
		}
	}
	if sq+1 != board.H1 {
		return nil, invalidFEN(fmt.Sprintf("wrong number of squares in piece placement: %q", field))
	}
	return pieces, nil
}

// Encode renders pieces and metadata as a FEN record.
func Encode(pieces []board.Placement, meta Metadata) string {
	grid := [board.NumSquares]board.Piece{}
	for _, p := range pieces {
		grid[p.Square] = p.Piece
	}

	var sb strings.Builder
	for r := board.NumRanks; r > 0; r-- {
		rank := r - 1
		blanks := 0
		for f := board.NumFiles; f > 0; f-- {
			file := f - 1
			piece := grid[board.NewSquare(file, rank)]
			if piece.Kind == board.NoKind {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(printPiece(piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank > 0 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if meta.HasEnPassant {
		ep = meta.EnPassant.Coordinate()
	}

	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), printColor(meta.Turn), printCastling(meta.Castling), ep,
		meta.HalfmoveClock, meta.FullmoveNumber)
}

func invalidFEN(detail string) error {
	return &board.Error{Kind: board.ErrInvalidFEN, Message: detail}
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	return c.String()
}

func parsePiece(r rune) (board.Piece, bool) {
	color := board.White
	if unicode.IsLower(r) {
		color = board.Black
	}
	kind, ok := board.ParseKind(unicode.ToLower(r))
	if !ok {
		return board.Piece{}, false
	}
	return board.Piece{Kind: kind, Color: color}, true
}

func printPiece(p board.Piece) string {
	return p.String()
}
