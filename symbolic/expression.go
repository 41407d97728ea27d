// Package symbolic supplies the expression substrate used by the variable
// mapping and boundary classification stages: an immutable expression tree
// with structural equality, deterministic rendering, and the structural
// queries (derivative order counting, function application discovery) that
// classification is built on. No evaluation, differentiation or
// simplification happens here.
package symbolic

import (
	"strconv"
	"strings"
)

// Expr is a node in an expression tree. Implementations are immutable value
// types; two nodes are Equal iff their trees are structurally identical.
type Expr interface {
	// String renders the node deterministically. The rendering doubles as a
	// structural hash key and appears verbatim in error messages.
	String() string
	Equal(other Expr) bool
	// IsAtom reports whether the node has no children.
	IsAtom() bool
	// Head identifies the node kind or operation ("num", "sym", a function
	// tag, "D", an operator symbol, or "~").
	Head() string
	// Args returns the ordered children of a compound node, nil for atoms.
	Args() []Expr
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

func Num(v float64) Number { return Number{Value: v} }

func (n Number) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n Number) IsAtom() bool   { return true }
func (n Number) Head() string   { return "num" }
func (n Number) Args() []Expr   { return nil }
func (n Number) Equal(other Expr) bool {
	o, ok := other.(Number)
	return ok && n.Value == o.Value
}

// Symbol is a named atom: a coordinate or a scalar parameter.
type Symbol struct {
	Name string
}

func Sym(name string) Symbol { return Symbol{Name: name} }

func (s Symbol) String() string { return s.Name }
func (s Symbol) IsAtom() bool   { return true }
func (s Symbol) Head() string   { return "sym" }
func (s Symbol) Args() []Expr   { return nil }
func (s Symbol) Equal(other Expr) bool {
	o, ok := other.(Symbol)
	return ok && s.Name == o.Name
}

// FuncApp is the application of a named function to ordered arguments. Both
// unknown functions, u(t, x), and ordinary named functions, sin(x), render
// this way; which tags denote unknowns is the variable map's business, not
// the tree's.
type FuncApp struct {
	Tag       string
	Arguments []Expr
}

func App(tag string, args ...Expr) FuncApp { return FuncApp{Tag: tag, Arguments: args} }

func (f FuncApp) String() string {
	parts := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		parts[i] = a.String()
	}
	return f.Tag + "(" + strings.Join(parts, ", ") + ")"
}
func (f FuncApp) IsAtom() bool { return false }
func (f FuncApp) Head() string { return f.Tag }
func (f FuncApp) Args() []Expr { return f.Arguments }
func (f FuncApp) Equal(other Expr) bool {
	o, ok := other.(FuncApp)
	if !ok || f.Tag != o.Tag || len(f.Arguments) != len(o.Arguments) {
		return false
	}
	for i, a := range f.Arguments {
		if !a.Equal(o.Arguments[i]) {
			return false
		}
	}
	return true
}

// Derivative is an unevaluated derivative operator: Order-fold
// differentiation of Operand with respect to the coordinate named Coord.
type Derivative struct {
	Coord   string
	Order   int
	Operand Expr
}

func D(operand Expr, coord string) Derivative {
	return Derivative{Coord: coord, Order: 1, Operand: operand}
}

func DN(operand Expr, coord string, order int) Derivative {
	return Derivative{Coord: coord, Order: order, Operand: operand}
}

func (d Derivative) String() string {
	switch d.Order {
	case 1:
		return "D(" + d.Operand.String() + ", " + d.Coord + ")"
	case 2:
		return "D2(" + d.Operand.String() + ", " + d.Coord + ")"
	default:
		return "D(" + d.Operand.String() + ", " + d.Coord + ", " + strconv.Itoa(d.Order) + ")"
	}
}
func (d Derivative) IsAtom() bool { return false }
func (d Derivative) Head() string { return "D" }
func (d Derivative) Args() []Expr { return []Expr{d.Operand} }
func (d Derivative) Equal(other Expr) bool {
	o, ok := other.(Derivative)
	return ok && d.Coord == o.Coord && d.Order == o.Order && d.Operand.Equal(o.Operand)
}

// Op is an n-ary arithmetic node. Operator is one of "+", "-", "*", "/",
// "^", or unary "neg".
type Op struct {
	Operator string
	Operands []Expr
}

func Add(terms ...Expr) Op  { return Op{Operator: "+", Operands: terms} }
func Mul(terms ...Expr) Op  { return Op{Operator: "*", Operands: terms} }
func Sub(a, b Expr) Op      { return Op{Operator: "-", Operands: []Expr{a, b}} }
func Div(a, b Expr) Op      { return Op{Operator: "/", Operands: []Expr{a, b}} }
func Pow(base, exp Expr) Op { return Op{Operator: "^", Operands: []Expr{base, exp}} }
func Neg(a Expr) Op         { return Op{Operator: "neg", Operands: []Expr{a}} }

func (p Op) String() string {
	if p.Operator == "neg" {
		return "-" + parenthesize(p.Operands[0])
	}
	parts := make([]string, len(p.Operands))
	for i, a := range p.Operands {
		parts[i] = parenthesize(a)
	}
	return strings.Join(parts, " "+p.Operator+" ")
}
func (p Op) IsAtom() bool { return false }
func (p Op) Head() string { return p.Operator }
func (p Op) Args() []Expr { return p.Operands }
func (p Op) Equal(other Expr) bool {
	o, ok := other.(Op)
	if !ok || p.Operator != o.Operator || len(p.Operands) != len(o.Operands) {
		return false
	}
	for i, a := range p.Operands {
		if !a.Equal(o.Operands[i]) {
			return false
		}
	}
	return true
}

// parenthesize wraps nested operator nodes so rendered output re-parses to
// the same tree without tracking precedence.
func parenthesize(e Expr) string {
	if _, ok := e.(Op); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Equation relates two expressions, rendered "lhs ~ rhs". Governing
// equations and raw boundary conditions are both Equations.
type Equation struct {
	LHS, RHS Expr
}

func Eq(lhs, rhs Expr) Equation { return Equation{LHS: lhs, RHS: rhs} }

func (e Equation) String() string { return e.LHS.String() + " ~ " + e.RHS.String() }
func (e Equation) IsAtom() bool   { return false }
func (e Equation) Head() string   { return "~" }
func (e Equation) Args() []Expr   { return []Expr{e.LHS, e.RHS} }
func (e Equation) Equal(other Expr) bool {
	o, ok := other.(Equation)
	return ok && e.LHS.Equal(o.LHS) && e.RHS.Equal(o.RHS)
}
