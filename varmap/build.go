package varmap

import (
	"github.com/notargets/pdemeta/symbolic"
)

// Input is the declared problem content handed over by the problem loader.
// Conditions must already be flattened into one ordered sequence.
type Input struct {
	Coordinates []string
	Time        string
	Functions   []string
	Parameters  []string
	Domains     map[string]Domain
	Equations   []symbolic.Equation
	Conditions  []symbolic.Equation
	// Epsilon overrides DefaultEpsilon when positive.
	Epsilon float64
}

// Build discovers every referenced function application across the
// governing equations and boundary conditions, derives the spatial
// coordinate ordering from first discovery, resolves domains, and freezes
// the result into a VariableMap. Building the same frozen input twice
// yields structurally equal maps.
func Build(in Input) (vm *VariableMap, err error) {
	epsilon := in.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	vm = &VariableMap{
		time:       in.Time,
		params:     in.Parameters,
		signatures: make(map[string]Signature),
		domains:    make(map[string]Domain, len(in.Domains)),
		indexOf:    make(map[string]int),
		maxOrders:  make(map[string]int),
		equations:  in.Equations,
		conditions: in.Conditions,
		epsilon:    epsilon,
	}
	for k, v := range in.Domains {
		vm.domains[k] = v
	}
	paramSet := make(map[string]struct{}, len(in.Parameters))
	for _, p := range in.Parameters {
		paramSet[p] = struct{}{}
	}

	var (
		inUse     []string // coordinates, first-discovery order
		inUseSet  = make(map[string]struct{})
		seeCoords = func(args []symbolic.Expr) {
			for _, a := range args {
				s, ok := a.(symbolic.Symbol)
				if !ok {
					continue
				}
				if _, isParam := paramSet[s.Name]; isParam {
					continue
				}
				if _, seen := inUseSet[s.Name]; !seen {
					inUseSet[s.Name] = struct{}{}
					inUse = append(inUse, s.Name)
				}
			}
		}
	)

	all := make([]symbolic.Equation, 0, len(in.Equations)+len(in.Conditions))
	all = append(all, in.Equations...)
	all = append(all, in.Conditions...)

	for _, eq := range all {
		for _, app := range symbolic.CollectFunctionApplications(eq, in.Functions) {
			seeCoords(app.Arguments)
			if !isGenuine(app, paramSet) {
				continue
			}
			sig := make(Signature, len(app.Arguments))
			for i, a := range app.Arguments {
				sig[i] = a.(symbolic.Symbol).Name
			}
			prev, known := vm.signatures[app.Tag]
			if !known {
				vm.signatures[app.Tag] = sig
				vm.unknowns = append(vm.unknowns, app.Tag)
				continue
			}
			if !prev.Equal(sig) {
				return nil, &SignatureInconsistencyError{
					Tag: app.Tag, Want: prev, Got: sig, Equation: eq.String(),
				}
			}
		}
	}

	// spatial ordering: discovery order minus time
	for _, c := range inUse {
		if c == in.Time {
			continue
		}
		vm.spatial = append(vm.spatial, c)
		vm.indexOf[c] = len(vm.spatial)
	}

	// every coordinate in use must resolve to a usable domain before any
	// classification runs
	for _, c := range inUse {
		if err = checkDomain(c, vm.domains, epsilon); err != nil {
			return nil, err
		}
	}

	for _, c := range vm.AllCoordinates() {
		for _, eq := range all {
			for order := range symbolic.AllDerivativeOrders(eq, c) {
				if order > vm.maxOrders[c] {
					vm.maxOrders[c] = order
				}
			}
		}
	}
	return vm, nil
}

// isGenuine reports whether every argument of app is a symbolic coordinate.
// An application with any numeric or compound argument is
// boundary-evaluated and does not contribute a signature.
func isGenuine(app symbolic.FuncApp, paramSet map[string]struct{}) bool {
	if len(app.Arguments) == 0 {
		return false
	}
	for _, a := range app.Arguments {
		s, ok := a.(symbolic.Symbol)
		if !ok {
			return false
		}
		if _, isParam := paramSet[s.Name]; isParam {
			return false
		}
	}
	return true
}
