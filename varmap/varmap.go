// Package varmap builds the canonical per-run metadata describing every
// unknown function, its coordinate signature, the coordinate domains, and
// the spatial coordinate index assignment consumed by discretization
// backends.
package varmap

import (
	"math"

	"github.com/notargets/pdemeta/symbolic"
)

// DefaultEpsilon is the tolerance used for domain width checks and, by the
// boundary classifier, for matching fixed values against domain bounds.
const DefaultEpsilon = 1e-9

// Domain is the finite interval a coordinate ranges over.
type Domain struct {
	Lower float64 `yaml:"Lower"`
	Upper float64 `yaml:"Upper"`
}

func (d Domain) Width() float64 { return d.Upper - d.Lower }

func (d Domain) IsFinite() bool {
	return !math.IsInf(d.Lower, 0) && !math.IsInf(d.Upper, 0) &&
		!math.IsNaN(d.Lower) && !math.IsNaN(d.Upper)
}

// Signature is the ordered coordinate list of a function's genuine
// applications.
type Signature []string

func (s Signature) Equal(o Signature) bool {
	if len(s) != len(o) {
		return false
	}
	for i, c := range s {
		if c != o[i] {
			return false
		}
	}
	return true
}

// Without returns the signature with one coordinate removed, order
// preserved.
func (s Signature) Without(coord string) (out Signature) {
	out = make(Signature, 0, len(s))
	for _, c := range s {
		if c != coord {
			out = append(out, c)
		}
	}
	return
}

func (s Signature) Contains(coord string) bool {
	for _, c := range s {
		if c == coord {
			return true
		}
	}
	return false
}

// VariableMap is the read-only variable metadata for one discretization
// run. It is created once by Build and afterwards mutated only through
// RegisterUnknown, which callers must serialize against all reads.
type VariableMap struct {
	unknowns   []string
	signatures map[string]Signature
	spatial    []string
	time       string
	params     []string
	domains    map[string]Domain
	indexOf    map[string]int
	maxOrders  map[string]int
	equations  []symbolic.Equation
	conditions []symbolic.Equation
	epsilon    float64
}

// Unknowns returns the genuine unknown function tags in discovery order.
func (vm *VariableMap) Unknowns() []string { return vm.unknowns }

// SpatialCoordinates returns the spatial coordinates in first-discovery
// order, the canonical dimension order for indexing.
func (vm *VariableMap) SpatialCoordinates() []string { return vm.spatial }

// AllCoordinates returns the spatial coordinates followed by the time
// coordinate when one is in use.
func (vm *VariableMap) AllCoordinates() (coords []string) {
	coords = append(coords, vm.spatial...)
	if vm.time != "" {
		coords = append(coords, vm.time)
	}
	return
}

func (vm *VariableMap) TimeCoordinate() (string, bool) { return vm.time, vm.time != "" }

func (vm *VariableMap) Parameters() []string { return vm.params }

// SignatureOf returns the full recorded signature of tag, time coordinate
// included when the function is time-dependent.
func (vm *VariableMap) SignatureOf(tag string) (sig Signature, ok bool) {
	sig, ok = vm.signatures[tag]
	return
}

// SpatialSignatureOf returns the recorded signature with the time
// coordinate removed.
func (vm *VariableMap) SpatialSignatureOf(tag string) (sig Signature, ok bool) {
	if sig, ok = vm.signatures[tag]; ok && vm.time != "" {
		sig = sig.Without(vm.time)
	}
	return
}

// IndexOfCoordinate returns the 1-based dimension index of a spatial
// coordinate.
func (vm *VariableMap) IndexOfCoordinate(coord string) (i int, ok bool) {
	i, ok = vm.indexOf[coord]
	return
}

// CoordinateAtIndex inverts IndexOfCoordinate.
func (vm *VariableMap) CoordinateAtIndex(i int) (coord string, ok bool) {
	if i < 1 || i > len(vm.spatial) {
		return "", false
	}
	return vm.spatial[i-1], true
}

func (vm *VariableMap) DomainOf(coord string) (d Domain, ok bool) {
	d, ok = vm.domains[coord]
	return
}

// MaxDerivativeOrder returns the highest derivative order with respect to
// coord found across the governing equations and boundary conditions.
func (vm *VariableMap) MaxDerivativeOrder(coord string) int { return vm.maxOrders[coord] }

func (vm *VariableMap) Equations() []symbolic.Equation { return vm.equations }

// Conditions returns the flattened raw boundary/initial condition
// equations in their original order.
func (vm *VariableMap) Conditions() []symbolic.Equation { return vm.conditions }

func (vm *VariableMap) Epsilon() float64 { return vm.epsilon }

// RegisterUnknown appends an auxiliary unknown introduced by a later
// pipeline stage. It is the only permitted mutation of a built map: it
// never removes or renumbers existing entries, and extends the internal
// tables copy-on-extend so slices previously handed to readers stay valid.
// Callers must not invoke it concurrently with any read.
func (vm *VariableMap) RegisterUnknown(tag string, sig Signature) error {
	if prev, exists := vm.signatures[tag]; exists {
		if prev.Equal(sig) {
			return nil
		}
		return &SignatureInconsistencyError{Tag: tag, Want: prev, Got: sig}
	}
	// every coordinate of the new unknown needs a usable domain up front
	for _, c := range sig {
		if c == vm.time {
			continue
		}
		if err := checkDomain(c, vm.domains, vm.epsilon); err != nil {
			return err
		}
	}
	unknowns := make([]string, len(vm.unknowns), len(vm.unknowns)+1)
	copy(unknowns, vm.unknowns)
	vm.unknowns = append(unknowns, tag)

	signatures := make(map[string]Signature, len(vm.signatures)+1)
	for k, v := range vm.signatures {
		signatures[k] = v
	}
	signatures[tag] = append(Signature{}, sig...)
	vm.signatures = signatures

	// new spatial coordinates get appended indices, existing ones keep theirs
	for _, c := range sig {
		if c == vm.time {
			continue
		}
		if _, known := vm.indexOf[c]; known {
			continue
		}
		spatial := make([]string, len(vm.spatial), len(vm.spatial)+1)
		copy(spatial, vm.spatial)
		vm.spatial = append(spatial, c)

		indexOf := make(map[string]int, len(vm.indexOf)+1)
		for k, v := range vm.indexOf {
			indexOf[k] = v
		}
		indexOf[c] = len(vm.spatial)
		vm.indexOf = indexOf
	}
	return nil
}

func checkDomain(coord string, domains map[string]Domain, epsilon float64) error {
	d, ok := domains[coord]
	if !ok {
		return &DomainResolutionError{Coordinate: coord, Reason: "no domain declared"}
	}
	if !d.IsFinite() {
		return &DomainResolutionError{Coordinate: coord, Reason: "domain bounds must be finite"}
	}
	if d.Lower >= d.Upper {
		return &DomainResolutionError{Coordinate: coord, Reason: "domain lower bound must be below upper bound"}
	}
	if d.Width() <= 2*epsilon {
		return &DomainResolutionError{Coordinate: coord, Reason: "domain width is below tolerance, bounds are indistinguishable"}
	}
	return nil
}
