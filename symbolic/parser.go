package symbolic

import (
	"fmt"
	"strconv"
	"unicode"
)

// ParseError reports a failure to parse an expression string, with the
// offending input and byte position.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d in %q: %s", e.Pos, e.Input, e.Msg)
}

// ParseEquation parses "lhs ~ rhs" into an Equation.
func ParseEquation(s string) (eq Equation, err error) {
	p := &parser{input: s}
	lhs, err := p.parseExpr()
	if err != nil {
		return
	}
	if !p.consume('~') {
		err = p.errorf("expected '~' between equation sides")
		return
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return
	}
	if err = p.expectEOF(); err != nil {
		return
	}
	return Eq(lhs, rhs), nil
}

// Parse parses a single expression with the grammar produced by
// Expr.String: numbers, symbols, function applications, infix + - * / ^,
// unary minus, and the derivative forms D(f, x), D2(f, x), D(f, x, n).
func Parse(s string) (e Expr, err error) {
	p := &parser{input: s}
	if e, err = p.parseExpr(); err != nil {
		return
	}
	err = p.expectEOF()
	return
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Input: p.input, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectEOF() error {
	if p.peek() != 0 {
		return p.errorf("unexpected trailing input")
	}
	return nil
}

// parseExpr := term (('+'|'-') term)*
func (p *parser) parseExpr() (e Expr, err error) {
	if e, err = p.parseTerm(); err != nil {
		return
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			var rhs Expr
			if rhs, err = p.parseTerm(); err != nil {
				return
			}
			e = Add(e, rhs)
		case '-':
			p.pos++
			var rhs Expr
			if rhs, err = p.parseTerm(); err != nil {
				return
			}
			e = Sub(e, rhs)
		default:
			return
		}
	}
}

// parseTerm := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (e Expr, err error) {
	if e, err = p.parseUnary(); err != nil {
		return
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			var rhs Expr
			if rhs, err = p.parseUnary(); err != nil {
				return
			}
			e = Mul(e, rhs)
		case '/':
			p.pos++
			var rhs Expr
			if rhs, err = p.parseUnary(); err != nil {
				return
			}
			e = Div(e, rhs)
		default:
			return
		}
	}
}

// parseUnary := '-' unary | power
func (p *parser) parseUnary() (e Expr, err error) {
	if p.consume('-') {
		var inner Expr
		if inner, err = p.parseUnary(); err != nil {
			return
		}
		return Neg(inner), nil
	}
	return p.parsePower()
}

// parsePower := primary ('^' unary)?
func (p *parser) parsePower() (e Expr, err error) {
	if e, err = p.parsePrimary(); err != nil {
		return
	}
	if p.consume('^') {
		var exp Expr
		if exp, err = p.parseUnary(); err != nil {
			return
		}
		e = Pow(e, exp)
	}
	return
}

func (p *parser) parsePrimary() (e Expr, err error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		if e, err = p.parseExpr(); err != nil {
			return
		}
		if !p.consume(')') {
			err = p.errorf("expected ')'")
		}
		return
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdent()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseNumber() (e Expr, err error) {
	start := p.pos
	for p.pos < len(p.input) && isNumberChar(p.input[p.pos], p.pos > start && isExpChar(p.input[p.pos-1])) {
		p.pos++
	}
	v, convErr := strconv.ParseFloat(p.input[start:p.pos], 64)
	if convErr != nil {
		return nil, p.errorf("bad number %q", p.input[start:p.pos])
	}
	return Num(v), nil
}

func (p *parser) parseIdent() (e Expr, err error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if p.peek() != '(' {
		return Sym(name), nil
	}
	p.pos++ // consume '('
	var args []Expr
	if p.peek() != ')' {
		for {
			var a Expr
			if a, err = p.parseExpr(); err != nil {
				return
			}
			args = append(args, a)
			if !p.consume(',') {
				break
			}
		}
	}
	if !p.consume(')') {
		return nil, p.errorf("expected ')' closing arguments of %s", name)
	}
	if order, isDeriv := derivativeOrder(name); isDeriv {
		return p.buildDerivative(name, order, args)
	}
	return FuncApp{Tag: name, Arguments: args}, nil
}

// derivativeOrder recognizes the derivative head forms: D means order 1 (or
// explicit order via a third argument), D2..D9 encode the order in the name.
func derivativeOrder(name string) (order int, ok bool) {
	if name == "D" {
		return 1, true
	}
	if len(name) == 2 && name[0] == 'D' && name[1] >= '2' && name[1] <= '9' {
		return int(name[1] - '0'), true
	}
	return 0, false
}

func (p *parser) buildDerivative(name string, order int, args []Expr) (e Expr, err error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, p.errorf("%s expects (expr, coordinate) or D(expr, coordinate, order)", name)
	}
	coord, ok := args[1].(Symbol)
	if !ok {
		return nil, p.errorf("%s: second argument must be a coordinate name, got %s", name, args[1])
	}
	if len(args) == 3 {
		if name != "D" {
			return nil, p.errorf("%s does not take an explicit order", name)
		}
		n, isNum := args[2].(Number)
		if !isNum || n.Value != float64(int(n.Value)) || n.Value < 1 {
			return nil, p.errorf("D: third argument must be a positive integer order, got %s", args[2])
		}
		order = int(n.Value)
	}
	return Derivative{Coord: coord.Name, Order: order, Operand: args[0]}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isNumberChar(c byte, afterExp bool) bool {
	if c >= '0' && c <= '9' || c == '.' {
		return true
	}
	if isExpChar(c) {
		return true
	}
	// sign is part of the number only directly after an exponent marker
	return afterExp && (c == '+' || c == '-')
}

func isExpChar(c byte) bool { return c == 'e' || c == 'E' }
