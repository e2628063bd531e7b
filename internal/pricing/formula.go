package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrFormula is returned for formulas that are not plain arithmetic.
var ErrFormula = errors.New("invalid price formula")

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenEnd
)

type token struct {
	kind  tokenKind
	op    byte
	value decimal.Decimal
	pos   int
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				i++
			}
			value, err := decimal.NewFromString(expr[start:i])
			if err != nil || strings.Count(expr[start:i], ".") > 1 {
				return nil, fmt.Errorf("%w: bad number %q at %d", ErrFormula, expr[start:i], start)
			}
			tokens = append(tokens, token{kind: tokenNumber, value: value, pos: start})
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokenOperator, op: c, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRightParen, pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrFormula, c, i)
		}
	}
	return append(tokens, token{kind: tokenEnd, pos: len(expr)}), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// evaluator is a recursive-descent parser over the grammar
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type evaluator struct {
	tokens []token
	pos    int
}

func (e *evaluator) peek() token { return e.tokens[e.pos] }

func (e *evaluator) next() token {
	t := e.tokens[e.pos]
	if t.kind != tokenEnd {
		e.pos++
	}
	return t
}

func (e *evaluator) expr() (decimal.Decimal, error) {
	left, err := e.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t := e.peek()
		if t.kind != tokenOperator || (t.op != '+' && t.op != '-') {
			return left, nil
		}
		e.next()
		right, err := e.term()
		if err != nil {
			return decimal.Zero, err
		}
		if t.op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (e *evaluator) term() (decimal.Decimal, error) {
	left, err := e.unary()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t := e.peek()
		if t.kind != tokenOperator || (t.op != '*' && t.op != '/') {
			return left, nil
		}
		e.next()
		right, err := e.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if t.op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: division by zero at %d", ErrFormula, t.pos)
		}
		left = left.Div(right)
	}
}

func (e *evaluator) unary() (decimal.Decimal, error) {
	t := e.peek()
	if t.kind == tokenOperator && (t.op == '+' || t.op == '-') {
		e.next()
		v, err := e.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if t.op == '-' {
			return v.Neg(), nil
		}
		return v, nil
	}
	return e.primary()
}

func (e *evaluator) primary() (decimal.Decimal, error) {
	t := e.next()
	switch t.kind {
	case tokenNumber:
		return t.value, nil
	case tokenLeftParen:
		v, err := e.expr()
		if err != nil {
			return decimal.Zero, err
		}
		if closing := e.next(); closing.kind != tokenRightParen {
			return decimal.Zero, fmt.Errorf("%w: missing ')' at %d", ErrFormula, closing.pos)
		}
		return v, nil
	case tokenEnd:
		return decimal.Zero, fmt.Errorf("%w: unexpected end of formula", ErrFormula)
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected token at %d", ErrFormula, t.pos)
	}
}

// Evaluate computes an arithmetic expression made of decimal literals,
// + - * /, unary signs and parentheses. Nothing else is accepted.
func Evaluate(expr string) (decimal.Decimal, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return decimal.Zero, err
	}
	e := &evaluator{tokens: tokens}
	v, err := e.expr()
	if err != nil {
		return decimal.Zero, err
	}
	if t := e.peek(); t.kind != tokenEnd {
		return decimal.Zero, fmt.Errorf("%w: unexpected token at %d", ErrFormula, t.pos)
	}
	return v, nil
}
