package boundary

import (
	"fmt"

	"github.com/notargets/pdemeta/varmap"
)

// BoundaryMap is the assembled two-level lookup: function tag, then
// coordinate (including time), then the ordered list of boundaries
// constraining that pair. Input order is preserved within each list and is
// observable; downstream indexing depends on it. The map is never mutated
// after assembly.
type BoundaryMap struct {
	byPair map[FuncCoord][]Boundary
	funcs  []string            // insertion order
	coords map[string][]string // per function, insertion order
}

// Functions returns the constrained function tags in first-filing order.
func (bm *BoundaryMap) Functions() []string { return bm.funcs }

// CoordinatesOf returns the constrained coordinates of one function in
// first-filing order.
func (bm *BoundaryMap) CoordinatesOf(funcTag string) []string { return bm.coords[funcTag] }

// Lookup returns the boundaries filed under (funcTag, coord), nil when the
// pair is unconstrained.
func (bm *BoundaryMap) Lookup(funcTag, coord string) []Boundary {
	return bm.byPair[FuncCoord{Func: funcTag, Coord: coord}]
}

func (bm *BoundaryMap) file(pair FuncCoord, b Boundary) {
	if _, seen := bm.byPair[pair]; !seen {
		if _, known := bm.coords[pair.Func]; !known {
			bm.funcs = append(bm.funcs, pair.Func)
		}
		bm.coords[pair.Func] = append(bm.coords[pair.Func], pair.Coord)
	}
	bm.byPair[pair] = append(bm.byPair[pair], b)
}

// Validator is the backend-pluggable acceptance check run after assembly.
// The engine ships NopValidator and CoverageValidator; backends may supply
// their own.
type Validator interface {
	Validate(bm *BoundaryMap, vm *varmap.VariableMap) error
}

// NopValidator accepts every assembled map.
type NopValidator struct{}

func (NopValidator) Validate(*BoundaryMap, *varmap.VariableMap) error { return nil }

// CoverageValidator rejects a map in which some (function, spatial
// coordinate) pair lacks both a lower and an upper edge boundary and is not
// covered by an interface or periodic condition.
type CoverageValidator struct{}

func (CoverageValidator) Validate(bm *BoundaryMap, vm *varmap.VariableMap) error {
	for _, tag := range vm.Unknowns() {
		sig, ok := vm.SpatialSignatureOf(tag)
		if !ok {
			continue
		}
		for _, coord := range sig {
			var hasLower, hasUpper, hasInterface bool
			for _, b := range bm.Lookup(tag, coord) {
				switch v := b.(type) {
				case EdgeBoundary:
					if v.IsUpper {
						hasUpper = true
					} else {
						hasLower = true
					}
				case InterfaceBoundary, HigherOrderInterfaceBoundary:
					hasInterface = true
				}
			}
			if hasInterface || (hasLower && hasUpper) {
				continue
			}
			return &ValidationError{
				Func:  tag,
				Coord: coord,
				Message: fmt.Sprintf("missing boundary coverage (lower: %t, upper: %t, interface: %t)",
					hasLower, hasUpper, hasInterface),
			}
		}
	}
	return nil
}

// Assemble groups a classified boundary list into the two-level map and
// runs the validation strategy. Interface conditions are filed under every
// (function, coordinate) pair they constrain. A nil validator means
// NopValidator.
func Assemble(list []Boundary, vm *varmap.VariableMap, v Validator) (bm *BoundaryMap, err error) {
	bm = &BoundaryMap{
		byPair: make(map[FuncCoord][]Boundary),
		coords: make(map[string][]string),
	}
	for _, b := range list {
		for _, pair := range b.constrained() {
			bm.file(pair, b)
		}
	}
	if v == nil {
		v = NopValidator{}
	}
	if err = v.Validate(bm, vm); err != nil {
		return nil, err
	}
	return bm, nil
}
