package board

import (
	"fmt"
	"regexp"
)

var (
	castleRe = regexp.MustCompile(`^(O-O-O|O-O)([+#])?$`)
	normalRe = regexp.MustCompile(`^([KQRBN])?([a-h])?([1-8])?(x)?([a-h][1-8])(=[QRBN])?([+#])?$`)
)

// ParseSAN parses a single SAN move token ("Nf3", "exd5", "O-O", "e8=Q+") into an
// AmbiguousMove. It does not check legality or resolve disambiguation against a
// position; that is the disambiguator's job in the pgn package.
func ParseSAN(token string) (AmbiguousMove, error) {
	if m := castleRe.FindStringSubmatch(token); m != nil {
		side := KingSide
		if m[1] == "O-O-O" {
			side = QueenSide
		}
		return AmbiguousMove{Castle: true, Side: side, Action: parseAction(m[2])}, nil
	}

	m := normalRe.FindStringSubmatch(token)
	if m == nil {
		return AmbiguousMove{}, newError(ErrInvalidMove, fmt.Sprintf("unrecognized SAN token: %q", token))
	}

	kind := Pawn
	if m[1] != "" {
		kind, _ = ParseKind(lowerFirst(m[1]))
	}

	am := AmbiguousMove{
		Kind:   kind,
		Takes:  m[4] == "x",
		Action: parseAction(m[7]),
	}
	if m[2] != "" {
		f, _ := ParseFile(rune(m[2][0]))
		am.SrcFile, am.HasFile = f, true
	}
	if m[3] != "" {
		r, _ := ParseRank(rune(m[3][0]))
		am.SrcRank, am.HasRank = r, true
	}
	dst, err := ParseSquareStr(m[5])
	if err != nil {
		return AmbiguousMove{}, newError(ErrInvalidMove, fmt.Sprintf("invalid destination in %q", token))
	}
	am.Dst = dst
	if m[6] != "" {
		promote, _ := ParseKind(lowerFirst(m[6][1:]))
		am.Promote = promote
	}
	return am, nil
}

func parseAction(s string) MoveAction {
	switch s {
	case "+":
		return ActionCheck
	case "#":
		return ActionCheckmate
	default:
		return NoAction
	}
}

func lowerFirst(s string) rune {
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return r[0]
}
