package command

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds every cost the ledger accepts; larger values lose integer
// precision in spreadsheets.
const MaxAmount = 1 << 53

var errDivByZero = errors.New("division by zero")

// isExprToken reports whether tok is built only from digits and + - * / and
// holds at least one digit. Such a token is a cost expression candidate.
func isExprToken(tok string) bool {
	digit := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r == '+' || r == '-' || r == '*' || r == '/':
		default:
			return false
		}
	}
	return digit
}

// EvalCost evaluates a cost expression (digits and + - * / with the usual
// precedence, no parentheses, no unary signs) and rounds it half up to a
// whole amount. Non-positive results are rejected.
func EvalCost(s string) (int64, error) {
	p := exprParser{s: s}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.s) {
		return 0, fmt.Errorf("unexpected %q at %d", p.s[p.pos], p.pos)
	}
	v = v.Round(0)
	if !v.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", v.String())
	}
	if !v.IsInteger() || v.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return 0, fmt.Errorf("amount out of range")
	}
	return v.IntPart(), nil
}

type exprParser struct {
	s   string
	pos int
}

func (p *exprParser) expr() (decimal.Decimal, error) {
	v, err := p.term()
	if err != nil {
		return v, err
	}
	for p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
		op := p.s[p.pos]
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return v, err
		}
		if op == '+' {
			v = v.Add(rhs)
		} else {
			v = v.Sub(rhs)
		}
	}
	return v, nil
}

func (p *exprParser) term() (decimal.Decimal, error) {
	v, err := p.number()
	if err != nil {
		return v, err
	}
	for p.pos < len(p.s) && (p.s[p.pos] == '*' || p.s[p.pos] == '/') {
		op := p.s[p.pos]
		p.pos++
		rhs, err := p.number()
		if err != nil {
			return v, err
		}
		if op == '*' {
			v = v.Mul(rhs)
			continue
		}
		if rhs.IsZero() {
			return v, errDivByZero
		}
		v = v.Div(rhs)
	}
	return v, nil
}

func (p *exprParser) number() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		if p.pos >= len(p.s) {
			return decimal.Zero, fmt.Errorf("expression ends with an operator")
		}
		return decimal.Zero, fmt.Errorf("expected number at %d", p.pos)
	}
	return decimal.NewFromString(p.s[start:p.pos])
}
