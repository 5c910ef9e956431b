package board

import "strings"

// SAN renders m, which must be a legal move in pos, in standard algebraic notation
// ("Nf3", "exd5", "O-O", "e8=Q+"). Disambiguation (file, rank, or both) is computed by
// checking whether any other legal move of the same piece kind shares m's destination,
// following the same approach malbrecht-chess's algebraicNotation uses.
func SAN(pos Position, m Move) (string, error) {
	piece, ok := pos.At(m.Src)
	if !ok {
		return "", newSquareError(ErrPieceNotFound, m.Src, "no piece on source square")
	}

	if piece.Kind == King {
		if side, isCastle := castlingSide(pos, m); isCastle {
			return withAction(pos, m, side.String()), nil
		}
	}

	var sb strings.Builder
	_, captured := pos.At(m.Dst)
	isEnPassant := false
	if piece.Kind == Pawn {
		if ep, epOK := pos.EnPassant(); epOK && ep == m.Dst && m.Src.File() != m.Dst.File() {
			isEnPassant = true
		}
	}
	isCapture := captured || isEnPassant

	if piece.Kind != Pawn {
		sb.WriteString(toUpper(piece.Kind.String()))
		byFile, byRank := disambiguation(pos, m, piece)
		if byFile {
			sb.WriteString(m.Src.File().sanString())
		}
		if byRank {
			sb.WriteString(m.Src.Rank().String())
		}
	} else if isCapture {
		sb.WriteString(m.Src.File().sanString())
	}

	if isCapture {
		sb.WriteString("x")
	}
	sb.WriteString(m.Dst.File().sanString())
	sb.WriteString(m.Dst.Rank().String())

	if m.Promote.IsValid() {
		sb.WriteString("=")
		sb.WriteString(toUpper(m.Promote.String()))
	}

	return withAction(pos, m, sb.String()), nil
}

// sanString renders a File in the lowercase form SAN notation uses ("a".."h"), distinct
// from File.String's uppercase debug form.
func (f File) sanString() string {
	return strings.ToLower(f.String())
}

func castlingSide(pos Position, m Move) (CastlingSide, bool) {
	if df := int(m.Dst.File()) - int(m.Src.File()); df != 2 && df != -2 {
		return 0, false // castling is the only two-square king move
	}
	for _, side := range []CastlingSide{KingSide, QueenSide} {
		kingTo, _, _, _, _ := CastlingSquares(pos.Turn(), side)
		if kingTo == m.Dst && m.Src == pos.King(pos.Turn()) {
			return side, true
		}
	}
	return 0, false
}

func disambiguation(pos Position, m Move, piece Piece) (byFile, byRank bool) {
	for _, other := range LegalMoves(pos) {
		if other.Dst != m.Dst || other.Src == m.Src {
			continue
		}
		op, ok := pos.At(other.Src)
		if !ok || op.Kind != piece.Kind || op.Color != piece.Color {
			continue
		}
		if other.Src.File() != m.Src.File() {
			byFile = true
		} else {
			byRank = true
		}
	}
	return byFile, byRank
}

// withAction appends "+" or "#" to san if applying m leaves the opponent in check or
// checkmate, matching how a human-written or PGN-sourced SAN token is decorated.
func withAction(pos Position, m Move, san string) string {
	next, err := pos.ApplyMove(m)
	if err != nil {
		return san
	}
	opp := next.Turn()
	if !IsChecked(next, opp) {
		return san
	}
	if len(LegalMoves(next)) == 0 {
		return san + "#"
	}
	return san + "+"
}
