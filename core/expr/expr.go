// Package expr evaluates restricted arithmetic expressions.
//
// The grammar is intentionally tiny: decimal literals, named variables,
// + - * /, unary minus and parentheses. Nothing else parses. Formulas stored
// as configuration data are evaluated through this package instead of any
// general expression library, so malformed or hostile configuration can at
// worst produce an error, never side effects.
package expr

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Eval parses and evaluates input, binding identifiers from vars.
// All arithmetic is exact decimal. Division by zero and any syntax
// problem return an error.
func Eval(input string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	p := &parser{input: input, vars: vars}
	p.next()

	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	if p.tok.kind != tokEOF {
		return decimal.Zero, fmt.Errorf("unexpected %q at position %d", p.tok.text, p.tok.pos)
	}
	return result, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	input string
	pos   int
	tok   token
	vars  map[string]decimal.Decimal
}

// next advances to the next token.
func (p *parser) next() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.input[p.pos]
	switch {
	case c == '+':
		p.pos++
		p.tok = token{kind: tokPlus, text: "+", pos: start}
	case c == '-':
		p.pos++
		p.tok = token{kind: tokMinus, text: "-", pos: start}
	case c == '*':
		p.pos++
		p.tok = token{kind: tokStar, text: "*", pos: start}
	case c == '/':
		p.pos++
		p.tok = token{kind: tokSlash, text: "/", pos: start}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case isDigit(c) || c == '.':
		for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
			p.pos++
		}
		p.tok = token{kind: tokNumber, text: p.input[start:p.pos], pos: start}
	case isIdentStart(c):
		for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos], pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokInvalid, text: string(c), pos: start}
	}
}

// parseExpr handles + and -.
func (p *parser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}

	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.kind
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokPlus {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
	return left, nil
}

// parseTerm handles * and /.
func (p *parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}

	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok.kind
		pos := p.tok.pos
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokStar {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero at position %d", pos)
			}
			left = left.Div(right)
		}
	}
	return left, nil
}

// parseFactor handles unary minus and primaries.
func (p *parser) parseFactor() (decimal.Decimal, error) {
	if p.tok.kind == tokMinus {
		p.next()
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	}

	switch p.tok.kind {
	case tokNumber:
		text := p.tok.text
		if strings.Count(text, ".") > 1 {
			return decimal.Zero, fmt.Errorf("malformed number %q at position %d", text, p.tok.pos)
		}
		v, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("malformed number %q at position %d", text, p.tok.pos)
		}
		p.next()
		return v, nil

	case tokIdent:
		v, ok := p.vars[p.tok.text]
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown variable %q at position %d", p.tok.text, p.tok.pos)
		}
		p.next()
		return v, nil

	case tokLParen:
		p.next()
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if p.tok.kind != tokRParen {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis at position %d", p.tok.pos)
		}
		p.next()
		return v, nil

	case tokEOF:
		return decimal.Zero, fmt.Errorf("unexpected end of expression")

	default:
		return decimal.Zero, fmt.Errorf("unexpected %q at position %d", p.tok.text, p.tok.pos)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
