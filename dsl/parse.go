package dsl

import "fmt"

// SyntaxError reports a malformed combination expression. Pos is the
// byte offset of the offending token in the original expression; Token
// is empty when the expression ended unexpectedly.
type SyntaxError struct {
	Pos      int
	Token    string
	Expected string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("unexpected end of expression at position %d, expected %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("unexpected %q at position %d, expected %s", e.Token, e.Pos, e.Expected)
}

// UnknownNameError reports an identifier that does not match any filter
// in the accompanying request.
type UnknownNameError struct {
	Name string
	Pos  int
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown filter reference %q at position %d", e.Name, e.Pos)
}

type tokenType int

const (
	tokIdent tokenType = iota
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

// Parse converts a combination expression into a filter tree.
//
// Grammar, lowest binding first:
//
//	expression := andExpr ( '|' andExpr )*
//	andExpr    := notExpr ( '&' notExpr )*
//	notExpr    := '!' notExpr | atom
//	atom       := identifier | '(' expression ')'
//
// Whitespace between tokens is insignificant. Identifiers start with a
// letter or underscore and continue with letters, digits or underscores.
//
// If exists is non-nil, every identifier is checked against it during
// the parse; an identifier it rejects fails with UnknownNameError.
// Malformed input fails with SyntaxError carrying the offset of the
// offending token. Parsing is deterministic and has no side effects.
func Parse(expression string, exists func(name string) bool) (Node, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, exists: exists}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Token: tok.text, Expected: "'&', '|' or end of expression"}
	}
	return node, nil
}

func tokenize(expression string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expression) {
		c := expression[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '&':
			tokens = append(tokens, token{tokAnd, "&", i})
			i++
		case c == '|':
			tokens = append(tokens, token{tokOr, "|", i})
			i++
		case c == '!':
			tokens = append(tokens, token{tokNot, "!", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case isIdentStart(c):
			start := i
			for i < len(expression) && isIdentPart(expression[i]) {
				i++
			}
			tokens = append(tokens, token{tokIdent, expression[start:i], start})
		case c >= '0' && c <= '9':
			return nil, &SyntaxError{
				Pos:      i,
				Token:    string(c),
				Expected: "an identifier starting with a letter or underscore",
			}
		default:
			return nil, &SyntaxError{Pos: i, Token: string(c), Expected: "an identifier, '&', '|', '!', '(' or ')'"}
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(expression)})
	return tokens, nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type parser struct {
	tokens []token
	next   int
	exists func(string) bool
}

func (p *parser) peek() token {
	return p.tokens[p.next]
}

func (p *parser) advance() token {
	tok := p.tokens[p.next]
	if tok.typ != tokEOF {
		p.next++
	}
	return tok
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.peek().typ == tokNot {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Node, error) {
	tok := p.advance()
	switch tok.typ {
	case tokIdent:
		if p.exists != nil && !p.exists(tok.text) {
			return nil, &UnknownNameError{Name: tok.text, Pos: tok.pos}
		}
		return &Leaf{Name: tok.text, Pos: tok.pos}, nil

	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.advance()
		if closing.typ != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Token: closing.text, Expected: "')'"}
		}
		return inner, nil

	default:
		return nil, &SyntaxError{Pos: tok.pos, Token: tok.text, Expected: "an identifier, '!' or '('"}
	}
}
