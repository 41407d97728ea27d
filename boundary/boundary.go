// Package boundary classifies raw boundary/initial condition equations
// into a closed taxonomy, assembles the per-function boundary map consumed
// by discretization backends, and derives periodicity metadata from it.
package boundary

import (
	"strconv"

	"github.com/notargets/pdemeta/symbolic"
)

// Kind discriminates the closed set of boundary variants.
type Kind uint8

const (
	// KindEdge fixes one coordinate of one unknown to a domain bound.
	// Conditions fixing the time coordinate (initial conditions) are edge
	// boundaries filed under the time coordinate.
	KindEdge Kind = iota

	// KindInterface relates two boundary-evaluated applications with zero
	// derivative order at either fixed coordinate: multi-region coupling or
	// a periodic pairing.
	KindInterface

	// KindHigherOrderInterface is an interface condition carrying
	// derivatives at the fixed coordinates.
	KindHigherOrderInterface
)

// String returns the name of a boundary kind.
func (k Kind) String() string {
	names := map[Kind]string{
		KindEdge:                 "Edge",
		KindInterface:            "Interface",
		KindHigherOrderInterface: "HigherOrderInterface",
	}
	if name, ok := names[k]; ok {
		return name
	}
	return "Unknown"
}

// Boundary is the sealed classification result for one raw condition.
// Instances are immutable once produced by the Classifier.
type Boundary interface {
	Kind() Kind
	// FuncTag is the primary constrained unknown (the first end for
	// interface conditions).
	FuncTag() string
	// Coordinate is the primary fixed coordinate; the time coordinate for
	// initial conditions.
	Coordinate() string
	Equation() symbolic.Equation
	// constrained returns every (function, coordinate) pair the condition
	// constrains, and seals the variant set against outside implementations.
	constrained() []FuncCoord
}

// FuncCoord keys the assembled boundary map: one unknown, one coordinate.
type FuncCoord struct {
	Func  string
	Coord string
}

// EdgeBoundary fixes Coord of Func to one of its domain bounds. Order is
// the derivative order with respect to the fixed coordinate only;
// derivatives with respect to free coordinates do not affect it.
type EdgeBoundary struct {
	Func    string
	Coord   string
	IsUpper bool
	Order   int
	Eq      symbolic.Equation
}

func (b EdgeBoundary) Kind() Kind                   { return KindEdge }
func (b EdgeBoundary) FuncTag() string              { return b.Func }
func (b EdgeBoundary) Coordinate() string           { return b.Coord }
func (b EdgeBoundary) Equation() symbolic.Equation  { return b.Eq }
func (b EdgeBoundary) constrained() []FuncCoord {
	return []FuncCoord{{Func: b.Func, Coord: b.Coord}}
}

// InterfaceEnd is one side of an interface condition: which function is
// evaluated, which coordinate it fixes, at which bound, and the rendered
// free (non-fixed) arguments in signature order.
type InterfaceEnd struct {
	Func    string
	Coord   string
	IsUpper bool
	Free    []string
}

func (e InterfaceEnd) String() string {
	bound := "lower"
	if e.IsUpper {
		bound = "upper"
	}
	return e.Func + "@" + e.Coord + ":" + bound
}

func (e InterfaceEnd) freeEqual(o InterfaceEnd) bool {
	if len(e.Free) != len(o.Free) {
		return false
	}
	for i, f := range e.Free {
		if f != o.Free[i] {
			return false
		}
	}
	return true
}

// InterfaceBoundary relates two boundary-evaluated applications with no
// derivative at either fixed coordinate.
type InterfaceBoundary struct {
	Ends [2]InterfaceEnd
	Eq   symbolic.Equation
}

func (b InterfaceBoundary) Kind() Kind                  { return KindInterface }
func (b InterfaceBoundary) FuncTag() string             { return b.Ends[0].Func }
func (b InterfaceBoundary) Coordinate() string          { return b.Ends[0].Coord }
func (b InterfaceBoundary) Equation() symbolic.Equation { return b.Eq }
func (b InterfaceBoundary) constrained() []FuncCoord    { return endPairs(b.Ends) }

// IsPeriodicPair reports whether the two ends form a periodic pairing:
// same function, same coordinate fixed at opposite bounds,
// otherwise-identical free signatures.
func (b InterfaceBoundary) IsPeriodicPair() bool { return periodicEnds(b.Ends) }

// HigherOrderInterfaceBoundary is an interface condition whose equation
// carries derivatives with respect to a fixed coordinate. Funcs and Coords
// record the distinct referenced functions and fixed coordinates; Order is
// the maximum derivative order found at a fixed coordinate.
type HigherOrderInterfaceBoundary struct {
	Ends   [2]InterfaceEnd
	Funcs  []string
	Coords []string
	Order  int
	Eq     symbolic.Equation
}

func (b HigherOrderInterfaceBoundary) Kind() Kind                  { return KindHigherOrderInterface }
func (b HigherOrderInterfaceBoundary) FuncTag() string             { return b.Ends[0].Func }
func (b HigherOrderInterfaceBoundary) Coordinate() string          { return b.Ends[0].Coord }
func (b HigherOrderInterfaceBoundary) Equation() symbolic.Equation { return b.Eq }
func (b HigherOrderInterfaceBoundary) constrained() []FuncCoord    { return endPairs(b.Ends) }

func (b HigherOrderInterfaceBoundary) IsPeriodicPair() bool { return periodicEnds(b.Ends) }

func endPairs(ends [2]InterfaceEnd) (pairs []FuncCoord) {
	pairs = append(pairs, FuncCoord{Func: ends[0].Func, Coord: ends[0].Coord})
	second := FuncCoord{Func: ends[1].Func, Coord: ends[1].Coord}
	if second != pairs[0] {
		pairs = append(pairs, second)
	}
	return
}

func periodicEnds(ends [2]InterfaceEnd) bool {
	return ends[0].Func == ends[1].Func &&
		ends[0].Coord == ends[1].Coord &&
		ends[0].IsUpper != ends[1].IsUpper &&
		ends[0].freeEqual(ends[1])
}

// Describe renders a boundary for diagnostics and CLI output.
func Describe(b Boundary) string {
	switch v := b.(type) {
	case EdgeBoundary:
		bound := "lower"
		if v.IsUpper {
			bound = "upper"
		}
		return "Edge{" + v.Func + ", " + v.Coord + " at " + bound + ", order " +
			strconv.Itoa(v.Order) + "}"
	case InterfaceBoundary:
		return "Interface{" + v.Ends[0].String() + " ~ " + v.Ends[1].String() + "}"
	case HigherOrderInterfaceBoundary:
		return "HigherOrderInterface{" + v.Ends[0].String() + " ~ " + v.Ends[1].String() +
			", order " + strconv.Itoa(v.Order) + "}"
	}
	return "Unknown"
}
