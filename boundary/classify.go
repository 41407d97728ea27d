package boundary

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/notargets/pdemeta/symbolic"
	"github.com/notargets/pdemeta/varmap"
)

// Classifier turns raw condition equations into Boundary variants. It is
// stateless beyond the variable map and tolerance and safe for concurrent
// use as long as no RegisterUnknown call is in flight.
type Classifier struct {
	VM      *varmap.VariableMap
	Epsilon float64
}

func NewClassifier(vm *varmap.VariableMap) *Classifier {
	return &Classifier{VM: vm, Epsilon: vm.Epsilon()}
}

// ClassifyAll classifies every condition in order. The first failure aborts
// the run; no partial result is returned.
func (c *Classifier) ClassifyAll(conditions []symbolic.Equation) (list []Boundary, err error) {
	list = make([]Boundary, 0, len(conditions))
	for _, eq := range conditions {
		b, err := c.Classify(eq)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, nil
}

// fixedArg is one coordinate of one application pinned to a numeric value.
type fixedArg struct {
	coord string
	value float64
}

// evalApp is a boundary-evaluated application resolved against its
// function's recorded signature.
type evalApp struct {
	app   symbolic.FuncApp
	fixed []fixedArg
	free  []string // rendered free arguments, signature order
}

// Classify buckets one raw condition into the closed taxonomy:
//
//  1. one unknown, one coordinate fixed at a domain bound -> EdgeBoundary
//     (conditions fixing the time coordinate are initial/final conditions,
//     filed under time);
//  2. two boundary-evaluated applications with matching signatures, each
//     fixing one coordinate at a bound -> InterfaceBoundary, or
//     HigherOrderInterfaceBoundary when derivatives with respect to a
//     fixed coordinate are present;
//  3. anything else is an UnclassifiableBoundaryError.
func (c *Classifier) Classify(eq symbolic.Equation) (b Boundary, err error) {
	apps := symbolic.CollectFunctionApplications(eq, c.VM.Unknowns())
	if len(apps) == 0 {
		return nil, c.fail(eq, "references no unknown function")
	}
	tags := distinctTags(apps)
	if len(tags) > 2 {
		return nil, c.fail(eq, fmt.Sprintf("references %d distinct unknowns, at most 2 are classifiable", len(tags)))
	}

	var evals []evalApp
	for _, app := range apps {
		ea, resolveErr := c.resolve(eq, app)
		if resolveErr != nil {
			return nil, resolveErr
		}
		if len(ea.fixed) > 0 {
			evals = append(evals, ea)
		}
	}

	switch len(evals) {
	case 0:
		return nil, c.fail(eq, "no coordinate is fixed to a boundary value")
	case 1:
		return c.classifyEdge(eq, tags, evals[0])
	case 2:
		return c.classifyInterface(eq, evals[0], evals[1])
	default:
		return nil, c.fail(eq, fmt.Sprintf("references %d boundary-evaluated applications, at most 2 are classifiable", len(evals)))
	}
}

// resolve matches an application's arguments positionally against the
// recorded signature, separating fixed numeric values from free
// coordinates.
func (c *Classifier) resolve(eq symbolic.Equation, app symbolic.FuncApp) (ea evalApp, err error) {
	sig, ok := c.VM.SignatureOf(app.Tag)
	if !ok {
		return ea, c.fail(eq, fmt.Sprintf("function %q has no genuine application anywhere in the system", app.Tag))
	}
	if len(app.Arguments) != len(sig) {
		return ea, c.fail(eq, fmt.Sprintf("application %s has %d arguments, signature (%s) expects %d",
			app, len(app.Arguments), sigString(sig), len(sig)))
	}
	ea.app = app
	for i, arg := range app.Arguments {
		switch v := arg.(type) {
		case symbolic.Number:
			ea.fixed = append(ea.fixed, fixedArg{coord: sig[i], value: v.Value})
		case symbolic.Symbol:
			if v.Name != sig[i] {
				return ea, c.fail(eq, fmt.Sprintf("application %s has %q where signature (%s) expects %q",
					app, v.Name, sigString(sig), sig[i]))
			}
			ea.free = append(ea.free, v.Name)
		default:
			return ea, c.fail(eq, fmt.Sprintf("application %s has compound argument %s, expected a coordinate or numeric value", app, arg))
		}
	}
	return ea, nil
}

func (c *Classifier) classifyEdge(eq symbolic.Equation, tags []string, ea evalApp) (b Boundary, err error) {
	if len(ea.fixed) > 1 {
		return nil, c.fail(eq, fmt.Sprintf("application %s fixes %d coordinates at once, edge conditions fix exactly one", ea.app, len(ea.fixed)))
	}
	if len(tags) > 1 {
		return nil, c.fail(eq, "fixes a single boundary point but references two distinct unknowns")
	}
	fa := ea.fixed[0]
	isUpper, err := c.matchBound(eq, fa)
	if err != nil {
		return nil, err
	}
	// order with respect to the fixed coordinate only; the higher of the
	// two sides covers the same-application-on-both-sides case
	order := maxInt(
		symbolic.CountDerivativeOrder(eq.LHS, fa.coord),
		symbolic.CountDerivativeOrder(eq.RHS, fa.coord),
	)
	return EdgeBoundary{
		Func:    ea.app.Tag,
		Coord:   fa.coord,
		IsUpper: isUpper,
		Order:   order,
		Eq:      eq,
	}, nil
}

func (c *Classifier) classifyInterface(eq symbolic.Equation, a, b evalApp) (Boundary, error) {
	for _, ea := range []evalApp{a, b} {
		if len(ea.fixed) > 1 {
			return nil, c.fail(eq, fmt.Sprintf("application %s fixes %d coordinates at once, interface ends fix exactly one", ea.app, len(ea.fixed)))
		}
	}
	sigA, _ := c.VM.SignatureOf(a.app.Tag)
	sigB, _ := c.VM.SignatureOf(b.app.Tag)
	if !sigA.Equal(sigB) {
		return nil, c.fail(eq, fmt.Sprintf("interface ends %s and %s have incompatible signatures (%s) vs (%s)",
			a.app, b.app, sigString(sigA), sigString(sigB)))
	}

	var ends [2]InterfaceEnd
	for i, ea := range []evalApp{a, b} {
		fa := ea.fixed[0]
		isUpper, err := c.matchBound(eq, fa)
		if err != nil {
			return nil, err
		}
		ends[i] = InterfaceEnd{
			Func:    ea.app.Tag,
			Coord:   fa.coord,
			IsUpper: isUpper,
			Free:    ea.free,
		}
	}

	order := maxInt(
		maxInt(
			symbolic.CountDerivativeOrder(eq.LHS, ends[0].Coord),
			symbolic.CountDerivativeOrder(eq.RHS, ends[0].Coord),
		),
		maxInt(
			symbolic.CountDerivativeOrder(eq.LHS, ends[1].Coord),
			symbolic.CountDerivativeOrder(eq.RHS, ends[1].Coord),
		),
	)
	if order == 0 {
		return InterfaceBoundary{Ends: ends, Eq: eq}, nil
	}
	return HigherOrderInterfaceBoundary{
		Ends:   ends,
		Funcs:  distinctStrings(ends[0].Func, ends[1].Func),
		Coords: distinctStrings(ends[0].Coord, ends[1].Coord),
		Order:  order,
		Eq:     eq,
	}, nil
}

// matchBound compares a fixed value against the coordinate's declared
// domain bounds. A value matching neither bound is a hard failure, never
// defaulted. Degenerate domains whose bounds both match are rejected at
// map-build time, so the two comparisons cannot both hold here.
func (c *Classifier) matchBound(eq symbolic.Equation, fa fixedArg) (isUpper bool, err error) {
	d, ok := c.VM.DomainOf(fa.coord)
	if !ok {
		return false, c.fail(eq, fmt.Sprintf("coordinate %q has no resolved domain", fa.coord))
	}
	switch {
	case scalar.EqualWithinAbsOrRel(fa.value, d.Lower, c.Epsilon, c.Epsilon):
		return false, nil
	case scalar.EqualWithinAbsOrRel(fa.value, d.Upper, c.Epsilon, c.Epsilon):
		return true, nil
	default:
		return false, c.fail(eq, fmt.Sprintf("fixed value %g for coordinate %q matches neither domain bound (%g, %g)",
			fa.value, fa.coord, d.Lower, d.Upper))
	}
}

func (c *Classifier) fail(eq symbolic.Equation, reason string) error {
	return &UnclassifiableBoundaryError{Equation: eq.String(), Reason: reason}
}

func distinctTags(apps []symbolic.FuncApp) (tags []string) {
	seen := make(map[string]struct{})
	for _, app := range apps {
		if _, dup := seen[app.Tag]; !dup {
			seen[app.Tag] = struct{}{}
			tags = append(tags, app.Tag)
		}
	}
	return
}

func distinctStrings(vals ...string) (out []string) {
	seen := make(map[string]struct{})
	for _, v := range vals {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sigString(sig varmap.Signature) (s string) {
	for i, c := range sig {
		if i > 0 {
			s += ", "
		}
		s += c
	}
	return
}
