package pgn

import (
	"fmt"
	"strings"

	"github.com/herohde/morlock/pkg/board"
)

// Game is a single parsed PGN game: its tag pairs in file order, plus the ambiguous SAN
// move tokens of the mainline (NAGs, comments, and variations are dropped; this library
// only resolves the mainline into concrete moves).
type Game struct {
	Tags  []TagPair
	Moves []board.AmbiguousMove
}

type TagPair struct {
	Key   string
	Value string
}

func (g *Game) Tag(key string) (string, bool) {
	for _, t := range g.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// parser turns a token stream into a Game. Grounded in the teacher-equivalent pack's
// malbrecht-chess/pgn parser: a recursive-descent reader over the lexer's item stream,
// with variations skipped by paren-depth tracking rather than represented in the result.
type parser struct {
	lex  *lexer
	peek *item
}

// ParseGame parses the first game found in a PGN document.
func ParseGame(pgnText string) (*Game, error) {
	p := &parser{lex: newLexer(pgnText)}
	g := &Game{}

	if err := p.parseTags(g); err != nil {
		return nil, err
	}
	if err := p.parseMovetext(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) next() (item, error) {
	if p.peek != nil {
		i := *p.peek
		p.peek = nil
		return i, nil
	}
	return p.lex.item()
}

func (p *parser) peekItem() (item, error) {
	if p.peek == nil {
		i, err := p.lex.item()
		if err != nil {
			return item{}, err
		}
		p.peek = &i
	}
	return *p.peek, nil
}

func (p *parser) parseTags(g *Game) error {
	for {
		next, err := p.peekItem()
		if err != nil {
			return err
		}
		if next.typ != itemLBracket {
			return nil
		}
		p.next()

		key, err := p.next()
		if err != nil {
			return err
		}
		if key.typ != itemSymbol {
			return fmt.Errorf("pgn: expected tag name, got %v", key.typ)
		}

		val, err := p.next()
		if err != nil {
			return err
		}
		if val.typ != itemString {
			return fmt.Errorf("pgn: expected tag value, got %v", val.typ)
		}

		close, err := p.next()
		if err != nil {
			return err
		}
		if close.typ != itemRBracket {
			return fmt.Errorf("pgn: expected ']', got %v", close.typ)
		}

		g.Tags = append(g.Tags, TagPair{Key: key.val, Value: unquote(val.val)})
	}
}

// parseMovetext reads the mainline, skipping comments, NAGs, move numbers, and
// variations, until a result token or EOF ends the game.
func (p *parser) parseMovetext(g *Game) error {
	depth := 0
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.typ {
		case itemEOF:
			return nil
		case itemResult:
			if depth == 0 {
				return nil
			}
		case itemLParen:
			depth++
		case itemRParen:
			if depth > 0 {
				depth--
			}
		case itemComment, itemAnnotation, itemMoveNumber, itemDots:
			// skipped: not part of the resolved move sequence
		case itemSymbol:
			if depth > 0 {
				continue // inside a variation, which this library does not resolve
			}
			am, err := board.ParseSAN(tok.val)
			if err != nil {
				return fmt.Errorf("pgn: %w", err)
			}
			g.Moves = append(g.Moves, am)
		default:
			return fmt.Errorf("pgn: unexpected token %v in movetext", tok.typ)
		}
	}
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.ReplaceAll(strings.ReplaceAll(s, `\"`, `"`), `\\`, `\`)
}
